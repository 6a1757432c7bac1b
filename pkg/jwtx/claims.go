package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openvenue/eventd/pkg/cryptox"
)

// DefaultAccessTokenTTL is the default lifetime for access tokens.
// Short-lived so a leaked bearer token has a bounded blast radius.
const DefaultAccessTokenTTL = 10 * time.Minute

// AccessClaims are the claims embedded in stateless access tokens. Validity
// is governed entirely by signature and expiry; nothing server-side is
// consulted when one is presented.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Username for the authenticated user.
	Username string `json:"username,omitempty"`

	// Roles the user holds, one entry per assigned role.
	Roles []string `json:"roles,omitempty"`
}

// RefreshClaims bind a refresh token to a server-side session. A parsed
// refresh token is only half the story: the session record's fingerprint and
// revocation state decide whether it is actually usable.
type RefreshClaims struct {
	jwt.RegisteredClaims

	// SID is the session id this token was minted for.
	SID string `json:"sid,omitempty"`
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	jti, _ := cryptox.GenerateToken(cryptox.TokenSize128)
	return jti
}
