package http

import (
	"errors"
	"net/http"

	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/slogx"
)

// LoginHandler serves POST /api/login.
type LoginHandler struct {
	Auth *service.AuthService
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	pair, expiresAt, err := h.Auth.Login(ctx, req.UserName, req.Password)
	if err != nil {
		// One message for unknown user and wrong password alike, so the
		// endpoint cannot be used to probe for account existence.
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnprocessableEntity, "Username or password was incorrect.")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setRefreshCookie(w, pair.RefreshToken, expiresAt)
	httpx.WriteJSON(w, http.StatusOK, pair)
}
