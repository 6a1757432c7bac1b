package service

import (
	"context"
	"errors"
	"time"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/pkg/idx"
	"github.com/openvenue/eventd/pkg/jwtx"
	"github.com/openvenue/eventd/pkg/slogx"
)

// DefaultSessionTTL is how long a login session (and its refresh token)
// lives before the user has to authenticate again. Each refresh pushes the
// expiry out by this much.
const DefaultSessionTTL = 3 * 24 * time.Hour

var (
	ErrUsernameAlreadyTaken = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown-user and wrong-password so
	// login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefresh covers every refresh/logout failure mode: missing or
	// garbled token, unknown or stale session, revoked session, deleted
	// user. Callers deliberately cannot tell these apart.
	ErrInvalidRefresh = errors.New("invalid refresh token")
)

// AuthService is the auth flow controller: register, login, refresh and
// logout over the token codec, the session service and the user directory.
type AuthService struct {
	Codec      *jwtx.Codec
	Sessions   *SessionService
	Directory  Directory
	Store      store.Store
	SessionTTL time.Duration
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

// Register creates an account with the default role. User creation and role
// assignment run in one transaction: both persist or neither does.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByUsername(ctx, username); err == nil {
			return ErrUsernameAlreadyTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		created, err := s.Directory.Create(ctx, tx, username, email, password)
		if err != nil {
			return err
		}

		if err := s.Directory.AssignRole(ctx, tx, created.ID, domain.RoleEventUser); err != nil {
			return err
		}

		user = created
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrUsernameAlreadyTaken) {
			log.Error("register failed", "username", username, "err", err)
		}
		return domain.User{}, err
	}

	log.Info("account registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies the credentials and opens a new session, returning the
// token pair plus the session expiry for the refresh cookie.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, time.Time, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Directory.FindByName(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, time.Time{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, time.Time{}, err
	}

	if !s.Directory.CheckPassword(user, password) {
		log.Info("login password verification failed", "username", username)
		return domain.TokenPair{}, time.Time{}, ErrInvalidCredentials
	}

	roles, err := s.Directory.GetRoles(ctx, user.ID)
	if err != nil {
		return domain.TokenPair{}, time.Time{}, err
	}

	sessionID := idx.New().String()
	expiresAt := time.Now().UTC().Add(s.sessionTTL())

	pair, err := s.mintPair(user, roles, sessionID, expiresAt)
	if err != nil {
		return domain.TokenPair{}, time.Time{}, err
	}

	if err := s.Sessions.CreateSession(ctx, sessionID, user.ID, pair.RefreshToken, expiresAt); err != nil {
		return domain.TokenPair{}, time.Time{}, err
	}

	log.Info("session opened", "user_id", user.ID, "session_id", sessionID)
	return pair, expiresAt, nil
}

// Refresh exchanges a valid refresh token for a new access+refresh pair on
// the same session with a fresh expiry. The session row is updated before
// this returns, so by the time the caller can hand the new cookie out the
// old token already fails validation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, time.Time, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.Codec.ParseRefreshToken(refreshToken)
	if err != nil {
		return domain.TokenPair{}, time.Time{}, ErrInvalidRefresh
	}
	if claims.SID == "" {
		return domain.TokenPair{}, time.Time{}, ErrInvalidRefresh
	}

	valid, err := s.Sessions.IsSessionValid(ctx, claims.SID, refreshToken)
	if err != nil {
		return domain.TokenPair{}, time.Time{}, err
	}
	if !valid {
		log.Info("refresh rejected for invalid session", "session_id", claims.SID)
		return domain.TokenPair{}, time.Time{}, ErrInvalidRefresh
	}

	user, err := s.Directory.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, time.Time{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, time.Time{}, err
	}

	roles, err := s.Directory.GetRoles(ctx, user.ID)
	if err != nil {
		return domain.TokenPair{}, time.Time{}, err
	}

	expiresAt := time.Now().UTC().Add(s.sessionTTL())
	pair, err := s.mintPair(user, roles, claims.SID, expiresAt)
	if err != nil {
		return domain.TokenPair{}, time.Time{}, err
	}

	if err := s.Sessions.ExtendSession(ctx, claims.SID, pair.RefreshToken, expiresAt); err != nil {
		return domain.TokenPair{}, time.Time{}, err
	}

	return pair, expiresAt, nil
}

// Logout invalidates the session named by the refresh token. The token must
// still parse: without a session id there is nothing to invalidate.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.Codec.ParseRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefresh
	}
	if claims.SID == "" {
		return ErrInvalidRefresh
	}

	if err := s.Sessions.InvalidateSession(ctx, claims.SID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("session invalidated", "session_id", claims.SID)
	return nil
}

func (s *AuthService) mintPair(
	user domain.User,
	roles []string,
	sessionID string,
	expiresAt time.Time,
) (domain.TokenPair, error) {
	access, err := s.Codec.SignAccessToken(user.Username, user.ID, roles)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.Codec.SignRefreshToken(sessionID, user.ID, expiresAt)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
