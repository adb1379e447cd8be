package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a tenant's subscription tier.
type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
	PlanPro     Plan = "pro"
)

// Valid reports whether p is one of the known subscription tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanBasic, PlanPremium, PlanPro:
		return true
	}
	return false
}

// Tenant represents a single restaurant account. The slug doubles as the
// tenant's subdomain label and is immutable once assigned. Tenants are
// deactivated rather than deleted.
type Tenant struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	Slug        string    `db:"slug"         json:"slug"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Plan        Plan      `db:"plan"         json:"plan"`
	Active      bool      `db:"active"       json:"active"`
	OwnerEmail  string    `db:"owner_email"  json:"owner_email"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}
