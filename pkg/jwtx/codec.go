package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeySize is the smallest HMAC key we accept. Anything shorter than the
// HS256 block input weakens the MAC for no benefit.
const MinKeySize = 32

var (
	ErrKeyTooShort = errors.New("jwtx: signing key too short")
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrInvalid     = errors.New("jwtx: invalid token")
)

// Codec builds and parses the two signed token kinds the service issues:
// stateless access tokens and session-bound refresh tokens. Both are HS256
// signed with a shared key configured out-of-band.
type Codec struct {
	key       []byte
	issuer    string
	audience  string
	accessTTL time.Duration
}

// NewCodec validates the key and returns a ready Codec. A zero accessTTL
// falls back to DefaultAccessTokenTTL.
func NewCodec(key []byte, issuer, audience string, accessTTL time.Duration) (*Codec, error) {
	if len(key) < MinKeySize {
		return nil, ErrKeyTooShort
	}

	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}

	return &Codec{
		key:       key,
		issuer:    issuer,
		audience:  audience,
		accessTTL: accessTTL,
	}, nil
}

// AccessTTL reports the configured access-token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// SignAccessToken mints a short-lived access token carrying the user's
// identity and roles.
func (c *Codec) SignAccessToken(username, userID string, roles []string) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
			ID:        NewJTI(),
		},
		Username: username,
		Roles:    roles,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// SignRefreshToken mints a refresh token bound to a session id, expiring at
// the caller-supplied instant (the session expiry, not the access TTL).
func (c *Codec) SignRefreshToken(sessionID, userID string, expiresAt time.Time) (string, error) {
	now := time.Now().UTC()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt.UTC()),
			ID:        NewJTI(),
		},
		SID: sessionID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// ParseRefreshToken verifies signature, issuer, audience and expiry of a
// refresh token. Any malformed, unsigned, expired or tampered token yields
// an error; a nil error only means the token is cryptographically sound,
// the session check happens downstream.
func (c *Codec) ParseRefreshToken(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.parse(token, &claims); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

// VerifyAccessToken verifies an access token and returns its claims.
func (c *Codec) VerifyAccessToken(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := c.parse(token, &claims); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

func (c *Codec) parse(token string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrInvalid
	}
}
