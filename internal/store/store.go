package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/guzellestir/tenantgate/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateSlug = errors.New("slug already taken")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	CreateTenant(ctx context.Context, t *models.Tenant) error
	ListTenants(ctx context.Context, filter TenantFilter) ([]*models.Tenant, int, error)
	SetTenantActive(ctx context.Context, slug string, active bool) error

	GetTenantFeatures(ctx context.Context, tenantID uuid.UUID) ([]string, error)
	SetTenantFeatures(ctx context.Context, tenantID uuid.UUID, features []string) error

	GetAdminUserByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UpdateAdminLastLogin(ctx context.Context, id uuid.UUID) error
}

// TenantFilter narrows and pages tenant listings for the admin console.
type TenantFilter struct {
	ActiveOnly bool
	Plan       models.Plan
	Page       int
	Limit      int
}
