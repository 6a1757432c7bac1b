package http

import (
	"errors"
	"net/http"

	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/slogx"
)

// LogoutHandler serves POST /api/logout. A missing or unparsable cookie is
// a failed logout: without a session id there is nothing to invalidate.
type LogoutHandler struct {
	Auth *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "invalid refresh token")
		return
	}

	if err := h.Auth.Logout(ctx, cookie.Value); err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnprocessableEntity, "invalid refresh token")
			return
		}
		log.Error("logout failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	clearRefreshCookie(w)
	w.WriteHeader(http.StatusOK)
}
