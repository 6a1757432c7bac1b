package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/cryptox"
)

func TestRegisterAssignsDefaultRole(t *testing.T) {
	auth, st := newAuthStack(t)
	ctx := t.Context()

	user, err := auth.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "bob", user.Username)

	roles, err := st.Users().GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleEventUser}, roles)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	auth, _ := newAuthStack(t)
	ctx := t.Context()

	_, err := auth.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "bob", "other@example.com", "hunter23")
	require.ErrorIs(t, err, service.ErrUsernameAlreadyTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newAuthStack(t)
	ctx := t.Context()

	_, err := auth.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "bob", "wrong-password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	// Unknown users fail with the same error so responses cannot be used to
	// probe for accounts.
	_, _, err = auth.Login(ctx, "nobody", "hunter22")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginIssuesUsablePair(t *testing.T) {
	auth, _ := newAuthStack(t)
	ctx := t.Context()

	user, err := auth.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	pair, expiresAt, err := auth.Login(ctx, "bob", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := auth.Codec.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "bob", claims.Username)
	assert.Contains(t, claims.Roles, domain.RoleEventUser)
}

func TestRefreshRotatesAndRetiresOldToken(t *testing.T) {
	auth, _ := newAuthStack(t)
	ctx := t.Context()

	_, err := auth.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	pair, _, err := auth.Login(ctx, "bob", "hunter22")
	require.NoError(t, err)

	rotated, _, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// By the time Refresh returns, the old token is already dead.
	_, _, err = auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)

	// The rotated token stays good for the next exchange.
	_, _, err = auth.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	auth, _ := newAuthStack(t)

	_, _, err := auth.Refresh(t.Context(), "not-a-jwt")
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestLogoutKillsSession(t *testing.T) {
	auth, _ := newAuthStack(t)
	ctx := t.Context()

	_, err := auth.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	pair, _, err := auth.Login(ctx, "bob", "hunter22")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, pair.RefreshToken))

	_, _, err = auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)

	// Logging out again is fine.
	require.NoError(t, auth.Logout(ctx, pair.RefreshToken))
}

func TestLogoutRejectsUnparsableToken(t *testing.T) {
	auth, _ := newAuthStack(t)

	err := auth.Logout(t.Context(), "not-a-jwt")
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	auth, _ := newAuthStack(t)
	ctx := t.Context()

	_, err := auth.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	pair, _, err := auth.Login(ctx, "bob", "hunter22")
	require.NoError(t, err)

	// Two refreshes race on the same token. The store serializes the row
	// writes; the last fingerprint written is the only one that stays valid.
	results := make(chan struct {
		token string
		err   error
	}, 2)
	for range 2 {
		go func() {
			rotated, _, err := auth.Refresh(ctx, pair.RefreshToken)
			results <- struct {
				token string
				err   error
			}{rotated.RefreshToken, err}
		}()
	}

	var issued []string
	for range 2 {
		res := <-results
		if res.err == nil {
			issued = append(issued, res.token)
		} else {
			require.ErrorIs(t, res.err, service.ErrInvalidRefresh)
		}
	}
	require.NotEmpty(t, issued, "at least one refresh must win")

	// Of everything handed out, exactly one token is still usable.
	usable := 0
	for _, token := range issued {
		if _, _, err := auth.Refresh(ctx, token); err == nil {
			usable++
		}
	}
	assert.Equal(t, 1, usable)
}

func TestRejectedRefreshLeavesSessionUntouched(t *testing.T) {
	auth, st := newAuthStack(t)
	ctx := t.Context()

	_, err := auth.Register(ctx, "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	pair, _, err := auth.Login(ctx, "bob", "hunter22")
	require.NoError(t, err)

	claims, err := auth.Codec.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, pair.RefreshToken))
	before, err := st.Sessions().GetSessionByID(ctx, claims.SID)
	require.NoError(t, err)

	_, _, err = auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)

	after, err := st.Sessions().GetSessionByID(ctx, claims.SID)
	require.NoError(t, err)
	assert.Equal(t, before.LastRefreshHash, after.LastRefreshHash,
		"a rejected refresh must not rotate the stored fingerprint")
	assert.Equal(t, cryptox.FingerprintToken(pair.RefreshToken), after.LastRefreshHash)
}
