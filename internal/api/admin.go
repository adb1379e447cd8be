package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/guzellestir/tenantgate/internal/api/response"
	"github.com/guzellestir/tenantgate/internal/cache"
	"github.com/guzellestir/tenantgate/internal/hostname"
	"github.com/guzellestir/tenantgate/internal/session"
	"github.com/guzellestir/tenantgate/internal/store"
	"github.com/guzellestir/tenantgate/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// Invalidator drops a cached tenant lookup so admin changes take effect
// before the cache TTL elapses.
type Invalidator interface {
	Invalidate(ctx context.Context, slug string) error
}

// Admin serves the super-admin console API: operator login and restaurant
// lifecycle management.
type Admin struct {
	store       store.Store
	sessions    *session.Manager
	rules       hostname.Rules
	invalidator Invalidator
	cache       cache.Cache
}

// NewAdmin creates the admin handlers. invalidator may be nil when no
// lookup cache is in front of the store.
func NewAdmin(st store.Store, sessions *session.Manager, rules hostname.Rules, inv Invalidator, c cache.Cache) *Admin {
	return &Admin{store: st, sessions: sessions, rules: rules, invalidator: inv, cache: c}
}

// Login handles POST /api/admin/login: verifies operator credentials and
// sets the session cookie.
func (a *Admin) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest,
			"INVALID_REQUEST", "email and password are required", nil)
		return
	}

	user, err := a.store.GetAdminUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		// Same answer as a wrong password.
		response.Error(w, http.StatusUnauthorized,
			"INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Login failed", nil)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		response.Error(w, http.StatusUnauthorized,
			"INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}

	token, err := a.sessions.Issue(uuid.Nil, "", session.RoleAdmin, user.Email)
	if err != nil {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Login failed", nil)
		return
	}

	go a.store.UpdateAdminLastLogin(context.Background(), user.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, map[string]string{"email": user.Email, "role": string(session.RoleAdmin)})
}

// Logout handles POST /api/admin/logout by expiring the session cookie.
func (a *Admin) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, map[string]string{"status": "logged_out"})
}

// ListRestaurants handles GET /api/admin/restaurants.
func (a *Admin) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.TenantFilter{
		ActiveOnly: q.Get("active") == "true",
		Plan:       models.Plan(q.Get("plan")),
		Page:       intParam(q.Get("page"), 1),
		Limit:      intParam(q.Get("limit"), 50),
	}

	tenants, total, err := a.store.ListTenants(r.Context(), filter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Listing failed", nil)
		return
	}

	response.Collection(w, tenants, response.PaginationMeta{
		Page:    filter.Page,
		Limit:   filter.Limit,
		Total:   total,
		HasNext: filter.Page*filter.Limit < total,
	})
}

// CreateRestaurant handles POST /api/admin/restaurants. The slug must pass
// the same rules the hostname parser applies, so every created tenant is
// reachable as a subdomain.
func (a *Admin) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug        string      `json:"slug"`
		DisplayName string      `json:"display_name"`
		Plan        models.Plan `json:"plan"`
		OwnerEmail  string      `json:"owner_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			"INVALID_REQUEST", "Malformed body", nil)
		return
	}

	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if !a.rules.ValidSlug(req.Slug) {
		response.Error(w, http.StatusBadRequest,
			"INVALID_SLUG", "Slug is reserved or fails subdomain rules", map[string]string{"slug": req.Slug})
		return
	}
	if req.DisplayName == "" || req.OwnerEmail == "" {
		response.Error(w, http.StatusBadRequest,
			"INVALID_REQUEST", "display_name and owner_email are required", nil)
		return
	}
	if req.Plan == "" {
		req.Plan = models.PlanBasic
	}
	if !req.Plan.Valid() {
		response.Error(w, http.StatusBadRequest,
			"INVALID_PLAN", "Unknown plan", map[string]string{"plan": string(req.Plan)})
		return
	}

	now := time.Now().UTC()
	tenant := &models.Tenant{
		ID:          uuid.New(),
		Slug:        req.Slug,
		DisplayName: req.DisplayName,
		Plan:        req.Plan,
		Active:      true,
		OwnerEmail:  req.OwnerEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.store.CreateTenant(r.Context(), tenant); err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			response.Error(w, http.StatusConflict,
				"SLUG_TAKEN", "Slug already in use", map[string]string{"slug": req.Slug})
			return
		}
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Create failed", nil)
		return
	}

	a.invalidate(r.Context(), req.Slug)
	response.Created(w, tenant)
}

// SetRestaurantActive handles PATCH /api/admin/restaurants/{slug}/active.
func (a *Admin) SetRestaurantActive(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			"INVALID_REQUEST", "Malformed body", nil)
		return
	}

	if err := a.store.SetTenantActive(r.Context(), slug, req.Active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound,
				"TENANT_NOT_FOUND", "No such restaurant", nil)
			return
		}
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Update failed", nil)
		return
	}

	a.invalidate(r.Context(), slug)
	response.JSON(w, map[string]any{"slug": slug, "active": req.Active})
}

// SetRestaurantFeatures handles PUT /api/admin/restaurants/{slug}/features.
func (a *Admin) SetRestaurantFeatures(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req struct {
		Features []string `json:"features"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			"INVALID_REQUEST", "Malformed body", nil)
		return
	}

	t, err := a.store.GetTenantBySlug(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		response.Error(w, http.StatusNotFound,
			"TENANT_NOT_FOUND", "No such restaurant", nil)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Lookup failed", nil)
		return
	}

	if req.Features == nil {
		req.Features = []string{}
	}
	if err := a.store.SetTenantFeatures(r.Context(), t.ID, req.Features); err != nil {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Update failed", nil)
		return
	}

	if a.cache != nil {
		a.cache.Delete(r.Context(), cache.FeaturesKey(slug))
	}
	response.JSON(w, map[string]any{"slug": slug, "features": req.Features})
}

func (a *Admin) invalidate(ctx context.Context, slug string) {
	if a.invalidator == nil {
		return
	}
	if err := a.invalidator.Invalidate(ctx, slug); err != nil {
		// The cache TTL still bounds staleness.
		return
	}
}

func intParam(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
