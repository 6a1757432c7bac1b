package http

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/slogx"
)

// AccountsHandler serves POST /api/accounts (registration).
type AccountsHandler struct {
	Auth *service.AuthService
}

type registerUserRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *AccountsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	if msg := validateRegister(req); msg != "" {
		httpx.WriteError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	user, err := h.Auth.Register(ctx, req.UserName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameAlreadyTaken) {
			httpx.WriteError(w, http.StatusUnprocessableEntity, "Username already taken")
			return
		}
		log.Error("register failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func validateRegister(req registerUserRequest) string {
	if strings.TrimSpace(req.UserName) == "" {
		return "userName is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "email is invalid"
	}
	if len(req.Password) < 4 {
		return "password is too short"
	}
	return ""
}
