package routing

import (
	"net/http"

	"github.com/guzellestir/tenantgate/pkg/models"
)

// Kind is the terminal action for a request. Every request maps to exactly
// one Decision; nothing escapes the dispatcher as an error.
type Kind int

const (
	// KindPassThrough serves the request unchanged.
	KindPassThrough Kind = iota
	// KindRewrite serves the request under an internal path, invisible to
	// the client.
	KindRewrite
	// KindRedirect sends the client to another URL.
	KindRedirect
	// KindReject terminates the request with a branded error response.
	KindReject
)

func (k Kind) String() string {
	switch k {
	case KindPassThrough:
		return "pass_through"
	case KindRewrite:
		return "rewrite"
	case KindRedirect:
		return "redirect"
	case KindReject:
		return "reject"
	}
	return "unknown"
}

// Machine-readable rejection codes. Reserved and unknown slugs share one
// code on purpose: the split must not leak which slugs exist.
const (
	CodeMalformedHostname = "MALFORMED_HOSTNAME"
	CodeTenantNotFound    = "TENANT_NOT_FOUND"
	CodeTenantInactive    = "TENANT_INACTIVE"
	CodeLookupFailed      = "LOOKUP_FAILED"
)

// Decision is the dispatcher's verdict for a single request.
type Decision struct {
	Kind Kind

	// Path is the internal rewrite target (KindRewrite).
	Path string
	// Location and Status describe a redirect (KindRedirect).
	Location string
	// Status is the HTTP status for redirects and rejections.
	Status int
	// Code classifies a rejection for logs and JSON bodies.
	Code string
	// Slug is the attempted subdomain label, echoed on branded error pages.
	Slug string
	// Tenant is the resolved identity carried forward on tenant rewrites
	// (and, name-only, on inactive rejections).
	Tenant *models.Tenant
}

func passThrough() Decision {
	return Decision{Kind: KindPassThrough}
}

func rewriteTo(path string, tenant *models.Tenant) Decision {
	return Decision{Kind: KindRewrite, Path: path, Tenant: tenant}
}

func redirectTo(location string) Decision {
	return Decision{Kind: KindRedirect, Location: location, Status: http.StatusFound}
}

func reject(status int, code, slug string) Decision {
	return Decision{Kind: KindReject, Status: status, Code: code, Slug: slug}
}
