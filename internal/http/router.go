package http

import (
	"log/slog"
	"net/http"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/pkg/httpx"
	"github.com/openvenue/eventd/pkg/jwtx"
	"github.com/openvenue/eventd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec  *jwtx.Codec
	logger *slog.Logger

	store store.Store

	AuthService     *service.AuthService
	CategoryService *service.CategoryService
	EventService    *service.EventService
	RatingService   *service.RatingService
}

func NewRouter(codec *jwtx.Codec, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:    http.NewServeMux(),
		codec:  codec,
		store:  st,
		logger: logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCategories()
	r.registerEvents()
	r.registerRatings()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /api/accounts - strict rate limit by IP (public signup endpoint)
	accountsHandler := &AccountsHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/accounts",
		httpx.Chain(accountsHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /api/login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /api/accessToken - moderate rate limit (refresh rotation)
	accessTokenHandler := &AccessTokenHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/accessToken",
		httpx.Chain(accessTokenHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /api/logout - moderate rate limit
	logoutHandler := &LogoutHandler{Auth: r.AuthService}
	r.Mux.Handle("POST /api/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

// writer wraps a mutating handler with authentication and the role check
// for content authors. Reads stay public.
func (r *Router) writer(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.codec),
		httpx.RequireAnyRole(domain.RoleEventUser, domain.RoleAdmin),
	)
}

// admin wraps a handler that only administrators may reach.
func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.codec),
		httpx.RequireAnyRole(domain.RoleAdmin),
	)
}

func (r *Router) registerCategories() {
	h := &CategoriesHandler{Categories: r.CategoryService}

	r.Mux.Handle("GET /api/categories", http.HandlerFunc(h.List))
	r.Mux.Handle("GET /api/categories/{categoryId}", http.HandlerFunc(h.Get))
	r.Mux.Handle("POST /api/categories", r.writer(h.Create))
	r.Mux.Handle("PUT /api/categories/{categoryId}", r.writer(h.Update))
	r.Mux.Handle("DELETE /api/categories/{categoryId}", r.admin(h.Delete))
}

func (r *Router) registerEvents() {
	h := &EventsHandler{Events: r.EventService}

	r.Mux.Handle("GET /api/categories/{categoryId}/events", http.HandlerFunc(h.List))
	r.Mux.Handle("GET /api/categories/{categoryId}/events/{eventId}", http.HandlerFunc(h.Get))
	r.Mux.Handle("POST /api/categories/{categoryId}/events", r.writer(h.Create))
	r.Mux.Handle("PUT /api/categories/{categoryId}/events/{eventId}", r.writer(h.Update))
	r.Mux.Handle("DELETE /api/categories/{categoryId}/events/{eventId}", r.admin(h.Delete))
}

func (r *Router) registerRatings() {
	h := &RatingsHandler{Ratings: r.RatingService}

	r.Mux.Handle("GET /api/categories/{categoryId}/events/{eventId}/ratings", http.HandlerFunc(h.List))
	r.Mux.Handle("GET /api/categories/{categoryId}/events/{eventId}/ratings/{ratingId}", http.HandlerFunc(h.Get))
	r.Mux.Handle("POST /api/categories/{categoryId}/events/{eventId}/ratings", r.writer(h.Create))
	r.Mux.Handle("PUT /api/categories/{categoryId}/events/{eventId}/ratings/{ratingId}", r.writer(h.Update))
	r.Mux.Handle("DELETE /api/categories/{categoryId}/events/{eventId}/ratings/{ratingId}", r.admin(h.Delete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(&LivezHandler{},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(&ReadyzHandler{Store: r.store},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
