package http

import (
	"net/http"

	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/pkg/httpx"
)

// LivezHandler reports process liveness.
type LivezHandler struct{}

func (h *LivezHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyzHandler reports readiness by pinging the backing store.
type ReadyzHandler struct {
	Store store.Store
}

func (h *ReadyzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
