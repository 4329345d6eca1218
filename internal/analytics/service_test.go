package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc.(*service), conn
}

func TestTrackAndSummarise(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.Track(ctx, TrackInput{Event: "page_view", SessionID: "s1", Data: map[string]any{"path": "/"}}))
	require.NoError(t, svc.Track(ctx, TrackInput{Event: "page_view", SessionID: "s2"}))
	require.NoError(t, svc.Track(ctx, TrackInput{Event: "product_view", SessionID: "s1", UserID: "u1", IPAddress: "10.0.0.1"}))

	err := svc.Track(ctx, TrackInput{Event: "rage_click"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	counts, err := svc.Counts(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, EventCount{Event: enums.AnalyticsEventPageView, Count: 2}, counts[0])

	recent, err := svc.Recent(ctx, "product_view", 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.NotNil(t, recent[0].SessionID)
	assert.Equal(t, "s1", *recent[0].SessionID)
	assert.Equal(t, "10.0.0.1", *recent[0].IPAddress)

	all, err := svc.Recent(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Recent(ctx, "nope", 10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPurgeRemovesOldEvents(t *testing.T) {
	ctx := context.Background()
	svc, conn := newTestService(t)

	old := &models.AnalyticsEvent{Event: enums.AnalyticsEventSearch, CreatedAt: time.Now().UTC().Add(-100 * 24 * time.Hour)}
	require.NoError(t, conn.Create(old).Error)
	require.NoError(t, svc.Track(ctx, TrackInput{Event: "search"}))

	n, err := svc.Purge(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.Purge(ctx, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
