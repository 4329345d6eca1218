package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/mtsdigital/storefront/pkg/enums"
)

// SessionTokenPayload captures the data available when minting a session cookie token.
type SessionTokenPayload struct {
	SessionID string
	AdminID   string
	Role      enums.AdminRole
}

// SessionClaims is the typed JWT stored in the admin session cookie. The
// registered jti carries the server-side session id.
type SessionClaims struct {
	AdminID string          `json:"admin_id"`
	Role    enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the server-side session id referenced by the token.
func (c *SessionClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
