package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/guzellestir/tenantgate/internal/api/response"
	"github.com/guzellestir/tenantgate/internal/cache"
	"github.com/guzellestir/tenantgate/internal/hostname"
	"github.com/guzellestir/tenantgate/internal/store"
)

// Directory serves the tenant-directory collaborator API: the endpoints
// edge deployments and downstream services use to validate subdomains and
// fetch feature flags. Body shapes here are published contracts, served
// without the envelope.
type Directory struct {
	store store.Store
	rules hostname.Rules
	cache cache.Cache
	ttl   time.Duration
}

// NewDirectory creates the directory handlers. Feature flag reads are cached
// for ttl, the same staleness bound tenant lookups get.
func NewDirectory(st store.Store, rules hostname.Rules, c cache.Cache, ttl time.Duration) *Directory {
	return &Directory{store: st, rules: rules, cache: c, ttl: ttl}
}

// validationBody mirrors tenantsvc.Validation on the serving side.
type validationBody struct {
	Exists         bool      `json:"exists"`
	Active         bool      `json:"active"`
	RestaurantID   string    `json:"restaurantId"`
	RestaurantName string    `json:"restaurantName"`
	Plan           string    `json:"plan"`
	OwnerEmail     string    `json:"ownerEmail"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ValidateSubdomain handles GET /api/subdomains/validate/{slug}.
func (d *Directory) ValidateSubdomain(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	switch d.rules.ClassifyLabel(slug).Kind {
	case hostname.KindTenant:
		// Well-formed candidate; look it up.
	case hostname.KindMalformed:
		response.Error(w, http.StatusBadRequest,
			"MALFORMED_SLUG", "Slug fails subdomain rules", nil)
		return
	default:
		// Reserved labels answer exactly like unknown slugs.
		response.Error(w, http.StatusNotFound,
			"TENANT_NOT_FOUND", "No such restaurant", nil)
		return
	}

	t, err := d.store.GetTenantBySlug(r.Context(), slug)
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

	response.Plain(w, http.StatusOK, validationBody{
		Exists:         true,
		Active:         t.Active,
		RestaurantID:   t.ID.String(),
		RestaurantName: t.DisplayName,
		Plan:           string(t.Plan),
		OwnerEmail:     t.OwnerEmail,
		CreatedAt:      t.CreatedAt,
	})
}

// TenantFeatures handles GET /api/restaurants/{slug}/features.
func (d *Directory) TenantFeatures(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	key := cache.FeaturesKey(slug)
	if raw, hit, err := d.cache.Get(r.Context(), key); err == nil && hit {
		var features []string
		if json.Unmarshal(raw, &features) == nil {
			response.Plain(w, http.StatusOK, map[string][]string{"features": features})
			return
		}
	}

	t, err := d.store.GetTenantBySlug(r.Context(), slug)
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

	features, err := d.store.GetTenantFeatures(r.Context(), t.ID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Lookup failed", nil)
		return
	}

	if raw, err := json.Marshal(features); err == nil {
		d.cache.Set(r.Context(), key, raw, d.ttl)
	}

	response.Plain(w, http.StatusOK, map[string][]string{"features": features})
}
