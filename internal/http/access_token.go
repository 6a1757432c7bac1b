package http

import (
	"errors"
	"net/http"

	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/slogx"
)

// AccessTokenHandler serves POST /api/accessToken: it exchanges the refresh
// cookie for a fresh access+refresh pair, rotating the session's token.
type AccessTokenHandler struct {
	Auth *service.AuthService
}

func (h *AccessTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "invalid refresh token")
		return
	}

	// The session row is rotated inside Refresh before it returns, so the
	// cookie written below never races a still-valid predecessor.
	pair, expiresAt, err := h.Auth.Refresh(ctx, cookie.Value)
	if err != nil {
		// Deliberately the same client error for every failure mode; the
		// reason is logged server-side only.
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnprocessableEntity, "invalid refresh token")
			return
		}
		log.Error("token refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setRefreshCookie(w, pair.RefreshToken, expiresAt)
	// The body carries the rotated refresh token, matching the cookie.
	httpx.WriteJSON(w, http.StatusOK, pair)
}
