package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/guzellestir/tenantgate/internal/store"
	"github.com/guzellestir/tenantgate/internal/tenantsvc"
	"github.com/guzellestir/tenantgate/pkg/models"
)

// StaticSource answers positively for a fixed allow-list of tenants and
// defers everything else. Used at the edge as a fast path in front of the
// authoritative store; it can confirm a tenant but never deny one.
type StaticSource struct {
	tenants map[string]*models.Tenant
}

// NewStaticSource builds a StaticSource from the given tenants, keyed by slug.
func NewStaticSource(tenants []models.Tenant) *StaticSource {
	m := make(map[string]*models.Tenant, len(tenants))
	for i := range tenants {
		t := tenants[i]
		m[t.Slug] = &t
	}
	return &StaticSource{tenants: m}
}

// NewStaticSlugSource builds a StaticSource from bare slugs, all treated as
// active tenants with no further identity. Suits allow-list config where
// only the slug is known.
func NewStaticSlugSource(slugs []string) *StaticSource {
	tenants := make([]models.Tenant, 0, len(slugs))
	for _, s := range slugs {
		tenants = append(tenants, models.Tenant{Slug: s, DisplayName: s, Active: true, Plan: models.PlanBasic})
	}
	return NewStaticSource(tenants)
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Resolve(_ context.Context, slug string) (Result, error) {
	t, ok := s.tenants[slug]
	if !ok {
		return Result{}, ErrDefer
	}
	if !t.Active {
		return Result{Outcome: OutcomeInactive, Tenant: t}, nil
	}
	return Result{Outcome: OutcomeFound, Tenant: t}, nil
}

// StoreSource resolves against the authoritative tenant store.
type StoreSource struct {
	store store.Store
}

func NewStoreSource(st store.Store) *StoreSource {
	return &StoreSource{store: st}
}

func (s *StoreSource) Name() string { return "store" }

func (s *StoreSource) Resolve(ctx context.Context, slug string) (Result, error) {
	t, err := s.store.GetTenantBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Outcome: OutcomeNotFound}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("store lookup for %q: %w", slug, err)
	}
	if !t.Active {
		return Result{Outcome: OutcomeInactive, Tenant: t}, nil
	}
	return Result{Outcome: OutcomeFound, Tenant: t}, nil
}

// RemoteSource resolves via the remote tenant directory API.
type RemoteSource struct {
	client tenantsvc.Client
}

func NewRemoteSource(client tenantsvc.Client) *RemoteSource {
	return &RemoteSource{client: client}
}

func (s *RemoteSource) Name() string { return "remote" }

func (s *RemoteSource) Resolve(ctx context.Context, slug string) (Result, error) {
	v, err := s.client.Validate(ctx, slug)
	if err != nil {
		return Result{}, fmt.Errorf("remote lookup for %q: %w", slug, err)
	}
	if !v.Exists {
		return Result{Outcome: OutcomeNotFound}, nil
	}

	t := &models.Tenant{
		Slug:        slug,
		DisplayName: v.RestaurantName,
		Plan:        models.Plan(v.Plan),
		Active:      v.Active,
		OwnerEmail:  v.OwnerEmail,
		CreatedAt:   v.CreatedAt,
	}
	if id, err := uuid.Parse(v.RestaurantID); err == nil {
		t.ID = id
	}

	if !v.Active {
		return Result{Outcome: OutcomeInactive, Tenant: t}, nil
	}
	return Result{Outcome: OutcomeFound, Tenant: t}, nil
}

var (
	_ Source = (*StaticSource)(nil)
	_ Source = (*StoreSource)(nil)
	_ Source = (*RemoteSource)(nil)
)
