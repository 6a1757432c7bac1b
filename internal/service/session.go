package service

import (
	"context"
	"errors"
	"time"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/pkg/cryptox"
	"github.com/openvenue/eventd/pkg/slogx"
)

// ErrSessionNotFound is returned by ExtendSession when the session row is
// missing. Callers are expected to validate the session first, so hitting
// this is a caller defect rather than a normal auth failure.
var ErrSessionNotFound = errors.New("session not found")

// SessionService is the only component that mutates session rows. All the
// session invariants live here: the stored fingerprint always matches the
// most recently issued refresh token, revocation is permanent, and expiry
// only ever moves forward.
type SessionService struct {
	Store store.Store

	// now is overridable in tests; defaults to time.Now.
	now func() time.Time
}

func (s *SessionService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// CreateSession persists a new session row for a fresh login. Only the
// refresh token's fingerprint is stored.
func (s *SessionService) CreateSession(
	ctx context.Context,
	sessionID, userID, refreshToken string,
	expiresAt time.Time,
) error {
	return s.Store.Sessions().CreateSession(ctx, domain.Session{
		ID:              sessionID,
		UserID:          userID,
		LastRefreshHash: cryptox.FingerprintToken(refreshToken),
		InitiatedAt:     s.clock().UTC(),
		ExpiresAt:       expiresAt.UTC(),
		Revoked:         false,
	})
}

// ExtendSession is the rotation step: it overwrites the stored fingerprint
// with the new token's and pushes the expiry forward, which permanently
// invalidates whatever refresh token was issued before.
func (s *SessionService) ExtendSession(
	ctx context.Context,
	sessionID, newRefreshToken string,
	newExpiresAt time.Time,
) error {
	err := s.Store.Sessions().UpdateSessionRefresh(
		ctx, sessionID, cryptox.FingerprintToken(newRefreshToken), newExpiresAt)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// InvalidateSession revokes a session. Logout is idempotent: revoking an
// already-revoked or unknown session is not an error.
func (s *SessionService) InvalidateSession(ctx context.Context, sessionID string) error {
	err := s.Store.Sessions().RevokeSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Debug("invalidate of unknown session", "session_id", sessionID)
		return nil
	}
	return err
}

// IsSessionValid reports whether the presented refresh token is usable for
// the session: the row must exist, be unexpired (the expiry instant itself
// counts as expired), not be revoked, and the token fingerprint must match
// the most recently issued one. A missing session is an ordinary false;
// store failures propagate.
func (s *SessionService) IsSessionValid(ctx context.Context, sessionID, refreshToken string) (bool, error) {
	session, err := s.Store.Sessions().GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if !session.ExpiresAt.After(s.clock()) {
		return false, nil
	}
	if session.Revoked {
		return false, nil
	}
	if session.LastRefreshHash != cryptox.FingerprintToken(refreshToken) {
		return false, nil
	}
	return true, nil
}
