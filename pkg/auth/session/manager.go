package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mtsdigital/storefront/pkg/auth"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/enums"
)

// ErrInvalidToken is returned when the cookie value fails verification.
var ErrInvalidToken = errors.New("invalid session token")

// Manager issues, resolves and revokes admin sessions.
type Manager struct {
	store Store
	cfg   config.SessionConfig
	now   func() time.Time
}

// NewManager binds a Store to the session cookie settings.
func NewManager(store Store, cfg config.SessionConfig) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store required")
	}
	if cfg.Secret == "" {
		return nil, errors.New("session secret required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{store: store, cfg: cfg, now: time.Now}, nil
}

// TTL is the lifetime of a fresh session.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// Start creates a session for the admin and returns the signed cookie value.
func (m *Manager) Start(ctx context.Context, adminID string, role enums.AdminRole) (string, *Session, error) {
	now := m.now().UTC()
	s := Session{
		ID:        uuid.NewString(),
		AdminID:   adminID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.TTL),
	}
	token, err := auth.MintSessionToken(m.cfg, now, auth.SessionTokenPayload{
		SessionID: s.ID,
		AdminID:   adminID,
		Role:      role,
	})
	if err != nil {
		return "", nil, err
	}
	if err := m.store.Create(ctx, s); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}
	return token, &s, nil
}

// Resolve verifies the cookie value and loads the live session it names.
// A valid token whose session was revoked yields ErrNotFound.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := auth.ParseSessionToken(m.cfg, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	s, err := m.store.Get(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if s.AdminID != claims.AdminID {
		return nil, ErrInvalidToken
	}
	return s, nil
}

// Revoke deletes the session named by token. Unverifiable tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := auth.ParseSessionToken(m.cfg, token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.SessionID())
}

// Refresh extends s by one TTL from now and returns a re-signed cookie value
// carrying the same session id.
func (m *Manager) Refresh(ctx context.Context, s *Session) (string, error) {
	if s == nil {
		return "", ErrNotFound
	}
	now := m.now().UTC()
	expires := now.Add(m.cfg.TTL)
	if err := m.store.Touch(ctx, s.ID, expires); err != nil {
		return "", err
	}
	s.ExpiresAt = expires
	return auth.MintSessionToken(m.cfg, now, auth.SessionTokenPayload{
		SessionID: s.ID,
		AdminID:   s.AdminID,
		Role:      s.Role,
	})
}

// NeedsRefresh reports whether less than half of the TTL remains on s.
func (m *Manager) NeedsRefresh(s *Session) bool {
	return s != nil && s.ExpiresAt.Sub(m.now()) < m.cfg.TTL/2
}
