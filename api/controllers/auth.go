package controllers

import (
	"net/http"

	"github.com/mtsdigital/storefront/api/middleware"
	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/api/validators"
	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/pkg/config"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/logger"
)

const (
	devLoginHint  = "Please use admin login: username 'admin', password 'admin123'"
	prodLoginHint = "Please use admin login"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type loginResponse struct {
	Admin     admins.AdminDTO `json:"admin"`
	ExpiresAt string          `json:"expiresAt"`
}

// LoginHint answers GET /api/login. Development builds include the default
// credentials.
func LoginHint(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := prodLoginHint
		if cfg.App.IsDev() {
			msg = devLoginHint
		}
		responses.WriteSuccess(w, map[string]string{"message": msg})
	}
}

func Login(svc admins.Service, cookie middleware.SessionCookie, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), admins.LoginInput{
			Username:  req.Username,
			Password:  req.Password,
			IPAddress: middleware.ClientIP(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookie.Set(w, result.Token, result.ExpiresAt)
		responses.WriteSuccess(w, loginResponse{
			Admin:     result.Admin,
			ExpiresAt: result.ExpiresAt.UTC().Format(timeLayout),
		})
	}
}

// Logout revokes the session (if any), clears the cookie and sends the
// browser home. Revocation failures are logged; the cookie is cleared anyway.
func Logout(svc admins.Service, cookie middleware.SessionCookie, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := cookie.Read(r); token != "" {
			if err := svc.Logout(r.Context(), token, middleware.ClientIP(r)); err != nil && logg != nil {
				logg.Error(r.Context(), "auth.logout_failed", err)
			}
		}
		cookie.Clear(w)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func AuthCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func AdminMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		responses.WriteSuccess(w, principal.Admin)
	}
}
