package http

import (
	"net/http"
	"time"
)

// RefreshCookieName is the cookie carrying the refresh token between the
// browser and the auth endpoints.
const RefreshCookieName = "RefreshToken"

// setRefreshCookie installs the refresh token as an HttpOnly cookie whose
// lifetime matches the session expiry. SameSite=Lax keeps it off
// cross-site POSTs while still riding top-level navigations.
func setRefreshCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
