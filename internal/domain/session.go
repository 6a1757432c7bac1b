package domain

import "time"

// Session is the durable record of one login. It is the only server-side
// state a refresh token is checked against: a token that parses fine is
// still dead if its fingerprint no longer matches LastRefreshHash, if the
// session expired, or if it was revoked.
type Session struct {
	ID     string
	UserID string

	// LastRefreshHash is the SHA-256 fingerprint of the most recently issued
	// refresh token for this session. Never the raw token.
	LastRefreshHash string

	InitiatedAt time.Time
	ExpiresAt   time.Time

	// Revoked is monotonic: once true it is never cleared.
	Revoked bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
