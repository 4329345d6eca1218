package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mtsdigital/storefront/api/middleware"
	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
)

const timeLayout = time.RFC3339

func pathParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", name)
	}
	return v, nil
}

// audit records an admin action attributed to the signed-in principal.
func audit(r *http.Request, auditor *admins.Auditor, action enums.AdminAction, target, details string) {
	auditor.Record(r.Context(), admins.Entry{
		AdminID:   middleware.AdminIDFromContext(r.Context()),
		Action:    action,
		Target:    target,
		Details:   details,
		IPAddress: middleware.ClientIP(r),
	})
}
