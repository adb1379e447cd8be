// Package resolver answers the question "is this slug an active tenant?".
// Resolution strategies (static allow-list, authoritative store, remote
// directory) share one Source interface and compose into an ordered chain,
// so every entry point applies the same policy.
package resolver

import (
	"context"
	"errors"

	"github.com/guzellestir/tenantgate/pkg/models"
)

// Outcome classifies the result of a tenant lookup.
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeInactive Outcome = "inactive"
	// OutcomeError means no strategy could answer. The dispatcher fails
	// closed on it; it is never treated as a valid tenant.
	OutcomeError Outcome = "error"
)

// Result is a definitive lookup answer. Tenant is set for OutcomeFound and
// OutcomeInactive.
type Result struct {
	Outcome Outcome        `json:"outcome"`
	Tenant  *models.Tenant `json:"tenant,omitempty"`
}

// ErrDefer signals that a source has no opinion on a slug and the next
// source in the chain should be consulted.
var ErrDefer = errors.New("defer to next resolution source")

// Source is a single tenant resolution strategy. Resolve returns either a
// definitive Result, ErrDefer, or a lookup failure.
type Source interface {
	Name() string
	Resolve(ctx context.Context, slug string) (Result, error)
}
