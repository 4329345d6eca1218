package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/enums"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a session id is unknown or already expired.
var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind an admin cookie.
type Session struct {
	ID        string          `json:"id"`
	AdminID   string          `json:"admin_id"`
	Role      enums.AdminRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists admin sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Touch(ctx context.Context, id string, expiresAt time.Time) error
}

// NewStore picks the backend named by backend. A nil kv or conn for the
// selected backend is a configuration error.
func NewStore(backend string, conn *gorm.DB, kv keyValue) (Store, error) {
	switch backend {
	case config.SessionStoreRedis:
		if kv == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		return NewRedisStore(kv), nil
	case config.SessionStoreDB, "":
		if conn == nil {
			return nil, errors.New("db session store requires a database connection")
		}
		return NewDBStore(conn), nil
	case config.SessionStoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", backend)
	}
}
