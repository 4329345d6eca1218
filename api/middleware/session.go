package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/pkg/config"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/logger"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*admins.Principal, error)
}

// SessionCookie reads and writes the admin session cookie.
type SessionCookie struct {
	Name   string
	Secure bool
}

func NewSessionCookie(session config.SessionConfig, app config.AppConfig) SessionCookie {
	name := session.CookieName
	if name == "" {
		name = "mts.sid"
	}
	return SessionCookie{Name: name, Secure: app.IsProd()}
}

func (c SessionCookie) Read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c SessionCookie) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AdminSession resolves the session cookie into an admin principal and
// rejects the request when there is none. A refreshed session re-issues the
// cookie before the handler runs.
func AdminSession(auth authenticator, cookie SessionCookie, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Read(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) || pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
					cookie.Clear(w)
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			if principal.RefreshedToken != "" {
				cookie.Set(w, principal.RefreshedToken, principal.ExpiresAt)
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithAdminID(ctx, principal.Admin.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
