package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mtsdigital/storefront/pkg/auth/session"
	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/db"
	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/logger"
	"github.com/mtsdigital/storefront/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service authenticates administrators and manages their sessions.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, token, ip string) error
	Authenticate(ctx context.Context, token string) (*Principal, error)
	Get(ctx context.Context, adminID string) (*AdminDTO, error)
	EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error)
}

type LoginInput struct {
	Username  string
	Password  string
	IPAddress string
}

// LoginResult carries the cookie value to set and the signed-in profile.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     AdminDTO
}

// Principal is the admin bound to a request. RefreshedToken is set when the
// session was extended and the cookie must be re-issued.
type Principal struct {
	Admin          AdminDTO
	SessionID      string
	ExpiresAt      time.Time
	RefreshedToken string
}

type sessionManager interface {
	Start(ctx context.Context, adminID string, role enums.AdminRole) (string, *session.Session, error)
	Resolve(ctx context.Context, token string) (*session.Session, error)
	Revoke(ctx context.Context, token string) error
	Refresh(ctx context.Context, s *session.Session) (string, error)
	NeedsRefresh(s *session.Session) bool
}

// rateLimiter is satisfied by *redis.Client.
type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type ServiceParams struct {
	Repo      Repository
	Sessions  sessionManager
	Audit     *Auditor
	Password  config.PasswordConfig
	RateLimit config.AuthRateLimitConfig
	Limiter   rateLimiter
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	sessions  sessionManager
	audit     *Auditor
	password  config.PasswordConfig
	rateLimit config.AuthRateLimitConfig
	limiter   rateLimiter
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, errors.New("admin repository required")
	}
	if p.Sessions == nil {
		return nil, errors.New("session manager required")
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Audit == nil {
		p.Audit = NewAuditor(p.Repo, p.Logger)
	}
	return &service{
		repo:      p.Repo,
		sessions:  p.Sessions,
		audit:     p.Audit,
		password:  p.Password,
		rateLimit: p.RateLimit,
		limiter:   p.Limiter,
		logg:      p.Logger,
		now:       time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}
	if err := s.checkRateLimit(ctx, username, input.IPAddress); err != nil {
		return nil, err
	}

	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin")
	}
	ok, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin account is disabled")
	}

	token, sess, err := s.sessions.Start(ctx, admin.ID, admin.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start session")
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		// The caller never sees the token, so the session must not outlive the failure.
		if rerr := s.sessions.Revoke(ctx, token); rerr != nil {
			s.logg.Error(s.logg.WithAdminID(ctx, admin.ID), "admins.session_revoke_failed", rerr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	admin.LastLogin = &now
	s.rehashIfNeeded(ctx, admin, input.Password)

	s.audit.Record(ctx, Entry{AdminID: admin.ID, Action: enums.AdminActionLogin, IPAddress: input.IPAddress})
	s.logg.Info(s.logg.WithAdminID(ctx, admin.ID), "admins.login")

	return &LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, Admin: NewAdminDTO(admin)}, nil
}

func (s *service) Logout(ctx context.Context, token, ip string) error {
	if token == "" {
		return nil
	}
	var adminID string
	if sess, err := s.sessions.Resolve(ctx, token); err == nil {
		adminID = sess.AdminID
	}
	if err := s.sessions.Revoke(ctx, token); err != nil && !errors.Is(err, session.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	if adminID != "" {
		s.audit.Record(ctx, Entry{AdminID: adminID, Action: enums.AdminActionLogout, IPAddress: ip})
	}
	return nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	sess, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrInvalidToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or invalid")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve session")
	}
	admin, err := s.repo.FindByID(ctx, sess.AdminID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or invalid")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin")
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin account is disabled")
	}

	p := &Principal{Admin: NewAdminDTO(admin), SessionID: sess.ID, ExpiresAt: sess.ExpiresAt}
	if s.sessions.NeedsRefresh(sess) {
		refreshed, err := s.sessions.Refresh(ctx, sess)
		if err != nil {
			s.logg.Warn(s.logg.WithAdminID(ctx, admin.ID), "admins.session_refresh_failed")
		} else {
			p.RefreshedToken = refreshed
			p.ExpiresAt = sess.ExpiresAt
		}
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, adminID string) (*AdminDTO, error) {
	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin")
	}
	dto := NewAdminDTO(admin)
	return &dto, nil
}

// EnsureDefaultAdmin creates the bootstrap super admin when no account with
// that username exists. It reports whether an account was created.
func (s *service) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, errors.New("default admin credentials required")
	}
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return false, nil
	} else if !db.IsNotFound(err) {
		return false, fmt.Errorf("lookup default admin: %w", err)
	}

	hash, err := security.HashPassword(password, s.password)
	if err != nil {
		return false, fmt.Errorf("hash default admin password: %w", err)
	}
	name := "Administrator"
	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		Name:         &name,
		Role:         enums.AdminRoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, "username") {
			return false, nil
		}
		return false, fmt.Errorf("create default admin: %w", err)
	}
	s.logg.Info(s.logg.WithAdminID(ctx, admin.ID), "admins.default_admin_created")
	return true, nil
}

func (s *service) checkRateLimit(ctx context.Context, username, ip string) error {
	if s.limiter == nil || s.rateLimit.LoginWindow <= 0 {
		return nil
	}
	checks := []struct {
		scope string
		limit int
	}{
		{"login:user:" + strings.ToLower(username), s.rateLimit.LoginUsernameLimit},
		{"login:ip:" + ip, s.rateLimit.LoginIPLimit},
	}
	for _, c := range checks {
		if c.limit <= 0 || strings.HasSuffix(c.scope, ":") {
			continue
		}
		allowed, _, err := s.limiter.FixedWindowAllow(ctx, c.scope, int64(c.limit), s.rateLimit.LoginWindow)
		if err != nil {
			// Fail open while the limiter backend is unreachable.
			s.logg.Warn(s.logg.WithField(ctx, "scope", c.scope), "admins.rate_limit_unavailable")
			continue
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later")
		}
	}
	return nil
}

func (s *service) rehashIfNeeded(ctx context.Context, admin *models.Admin, password string) {
	if !security.NeedsRehash(admin.PasswordHash, s.password) {
		return
	}
	hash, err := security.HashPassword(password, s.password)
	if err == nil {
		err = s.repo.UpdatePasswordHash(ctx, admin.ID, hash)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithAdminID(ctx, admin.ID), "admins.rehash_failed")
		return
	}
	admin.PasswordHash = hash
}
