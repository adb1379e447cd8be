package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/guzellestir/tenantgate/internal/api/middleware"
	"github.com/guzellestir/tenantgate/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
// Gateway, SessionGuard, and LookupLimit are required; handler slots left
// nil answer 501 until wired.
type Dependencies struct {
	Gateway      *Gateway
	SessionGuard *mw.SessionGuard
	LookupLimit  *mw.LookupRateLimit

	HealthHandler http.HandlerFunc

	// Tenant directory + feature flag collaborator APIs.
	ValidateSubdomain http.HandlerFunc
	TenantFeatures    http.HandlerFunc

	// Super-admin console API.
	AdminLogin            http.HandlerFunc
	AdminLogout           http.HandlerFunc
	ListRestaurants       http.HandlerFunc
	CreateRestaurant      http.HandlerFunc
	SetRestaurantActive   http.HandlerFunc
	SetRestaurantFeatures http.HandlerFunc

	// Proxied application areas, reached only through gateway rewrites.
	// These front the actual web apps (menu, dashboards, consoles); the
	// gate ships placeholders until an upstream is attached.
	TenantApp    http.HandlerFunc
	AdminConsole http.HandlerFunc
	TenantLogin  http.HandlerFunc
	LandingPage  http.HandlerFunc
}

// NewRouter builds the chi router with the gateway in front of every route.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(deps.Gateway.Handle)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Collaborator APIs, rate-limited per client host
	r.Group(func(r chi.Router) {
		r.Use(deps.LookupLimit.Limit)

		r.Get("/api/subdomains/validate/{slug}", orNotImplemented(deps.ValidateSubdomain))
		r.Get("/api/restaurants/{slug}/features", orNotImplemented(deps.TenantFeatures))
	})

	// Operator console API
	r.Post("/api/admin/login", orNotImplemented(deps.AdminLogin))
	r.Post("/api/admin/logout", orNotImplemented(deps.AdminLogout))

	r.Group(func(r chi.Router) {
		r.Use(deps.SessionGuard.RequireAdmin)

		r.Get("/api/admin/restaurants", orNotImplemented(deps.ListRestaurants))
		r.Post("/api/admin/restaurants", orNotImplemented(deps.CreateRestaurant))
		r.Patch("/api/admin/restaurants/{slug}/active", orNotImplemented(deps.SetRestaurantActive))
		r.Put("/api/admin/restaurants/{slug}/features", orNotImplemented(deps.SetRestaurantFeatures))
	})

	// Application areas behind the gateway
	r.HandleFunc("/admin/login", orNotImplemented(deps.AdminConsole))
	r.HandleFunc("/admin", orNotImplemented(deps.AdminConsole))
	r.HandleFunc("/admin/*", orNotImplemented(deps.AdminConsole))
	r.HandleFunc("/login", orNotImplemented(deps.TenantLogin))
	r.HandleFunc("/t/{slug}/*", orNotImplemented(deps.TenantApp))
	r.HandleFunc("/*", orNotImplemented(deps.LandingPage))

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
