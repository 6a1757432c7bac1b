package httpx

import (
	"net/http"
	"strings"
)

// RequireAnyRole guards a route with a declared role set: the caller must
// hold at least one of the listed roles. Dispatch is an explicit set check
// against the authenticated claims, nothing reflective.
func RequireAnyRole(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, role := range required {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, role := range rolesFromCtx(r.Context()) {
				if _, ok := want[role]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeRoleError(w, required...)
		})
	}
}

func writeRoleError(w http.ResponseWriter, required ...string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteError(w, http.StatusForbidden, "insufficient role")
}
