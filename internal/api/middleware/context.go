package middleware

import (
	"context"
	"net/http"

	"github.com/guzellestir/tenantgate/pkg/models"
)

type contextKey string

const tenantKey contextKey = "tenant"

// SetTenant attaches the resolved tenant to the request context. The gateway
// calls this on every tenant-host rewrite.
func SetTenant(ctx context.Context, t *models.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// GetTenant returns the tenant resolved for this request, if any.
func GetTenant(r *http.Request) (*models.Tenant, bool) {
	t, ok := r.Context().Value(tenantKey).(*models.Tenant)
	return t, ok
}
