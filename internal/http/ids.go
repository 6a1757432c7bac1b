package http

import (
	"net/http"

	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/idx"
)

// pathID reads a ULID path value. An id that does not even parse cannot name
// a row, so it reads as absent without a store round trip.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	id, err := idx.Parse(r.PathValue(name))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, label+" not found")
		return "", false
	}
	return id.String(), true
}
