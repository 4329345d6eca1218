package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeKV) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return false, nil
	}
	f.ttls[key] = ttl
	return true, nil
}

func (f *fakeKV) SessionKey(id string) string { return "mts:session:" + id }

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.AdminSession{}))
	return conn
}

func storeBackends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(newFakeKV()),
		"db":     NewDBStore(newSQLiteDB(t)),
	}
}

func TestStoreLifecycle(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Second)
			s := Session{ID: "sid-1", AdminID: "admin-1", Role: enums.AdminRoleAdmin, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

			require.NoError(t, store.Create(ctx, s))

			got, err := store.Get(ctx, "sid-1")
			require.NoError(t, err)
			assert.Equal(t, "admin-1", got.AdminID)
			assert.Equal(t, enums.AdminRoleAdmin, got.Role)

			later := now.Add(2 * time.Hour)
			require.NoError(t, store.Touch(ctx, "sid-1", later))
			got, err = store.Get(ctx, "sid-1")
			require.NoError(t, err)
			assert.True(t, got.ExpiresAt.Equal(later), "expiry should move to %s, got %s", later, got.ExpiresAt)

			require.NoError(t, store.Delete(ctx, "sid-1"))
			_, err = store.Get(ctx, "sid-1")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, store.Touch(ctx, "missing", later), ErrNotFound)
		})
	}
}

func TestMemoryStoreExpiresSessions(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, Session{ID: "s", AdminID: "a", ExpiresAt: now.Add(time.Minute)}))
	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, err := store.Get(ctx, "s")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestDBStorePurgeExpired(t *testing.T) {
	store := NewDBStore(newSQLiteDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Create(ctx, Session{ID: "old", AdminID: "a", Role: enums.AdminRoleAdmin, CreatedAt: now, ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Create(ctx, Session{ID: "new", AdminID: "a", Role: enums.AdminRoleAdmin, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestRedisStoreSetsTTL(t *testing.T) {
	kv := newFakeKV()
	store := NewRedisStore(kv)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Create(context.Background(), Session{ID: "s", AdminID: "a", ExpiresAt: now.Add(time.Hour)}))
	assert.Equal(t, time.Hour, kv.ttls["mts:session:s"])

	assert.Error(t, store.Create(context.Background(), Session{ID: "x", AdminID: "a", ExpiresAt: now.Add(-time.Second)}))
}

func TestNewStoreSelectsBackend(t *testing.T) {
	s, err := NewStore(config.SessionStoreMemory, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore(config.SessionStoreRedis, nil, nil)
	assert.Error(t, err)

	_, err = NewStore(config.SessionStoreDB, nil, nil)
	assert.Error(t, err)

	s, err = NewStore("", newSQLiteDB(t), nil)
	require.NoError(t, err)
	assert.IsType(t, &DBStore{}, s)

	_, err = NewStore("file", nil, nil)
	assert.Error(t, err)
}
