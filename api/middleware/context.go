package middleware

import (
	"context"

	"github.com/mtsdigital/storefront/internal/admins"
)

type contextKey string

const ctxPrincipal contextKey = "admin_principal"

// WithPrincipal binds the signed-in admin to the context.
func WithPrincipal(ctx context.Context, p *admins.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) *admins.Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(ctxPrincipal).(*admins.Principal); ok {
		return p
	}
	return nil
}

func AdminIDFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.Admin.ID
	}
	return ""
}
