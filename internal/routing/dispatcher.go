// Package routing turns a hostname classification, a tenant lookup result,
// the request path, and the session credential into a single route decision.
// The dispatcher is stateless; decisions are deterministic per request.
package routing

import (
	"net/http"
	"strings"

	"github.com/guzellestir/tenantgate/internal/hostname"
	"github.com/guzellestir/tenantgate/internal/resolver"
	"github.com/guzellestir/tenantgate/internal/session"
)

const (
	// AdminLoginPath is the operator console login, served on the admin host.
	AdminLoginPath = "/admin/login"
	// TenantLoginPath is the business login, served on tenant hosts.
	TenantLoginPath = "/login"
	// TenantPathPrefix is the canonical internal carrier of tenant identity:
	// every tenant-scoped request is rewritten under /t/{slug}/...
	TenantPathPrefix = "/t/"
)

// roleAreas maps a public path prefix on a tenant host to the business roles
// allowed into it. Owners reach every area.
var roleAreas = map[string][]session.Role{
	"/admin":  {session.RoleOwner},
	"/garson": {session.RoleGarson, session.RoleOwner},
	"/mutfak": {session.RoleMutfak, session.RoleOwner},
	"/kasa":   {session.RoleKasa, session.RoleOwner},
}

// Dispatcher implements the routing state machine.
type Dispatcher struct {
	apex     string
	sessions *session.Manager
}

// NewDispatcher creates a Dispatcher for the given apex domain. sessions
// verifies role-guard credentials.
func NewDispatcher(apex string, sessions *session.Manager) *Dispatcher {
	return &Dispatcher{apex: apex, sessions: sessions}
}

// Dispatch decides the fate of one request. rawSession is the session cookie
// value, empty when absent.
func (d *Dispatcher) Dispatch(c hostname.Classification, res resolver.Result, path, rawSession string) Decision {
	switch c.Kind {
	case hostname.KindApex, hostname.KindWWW:
		return d.dispatchApex(path)
	case hostname.KindAdmin:
		return d.dispatchAdmin(path, rawSession)
	case hostname.KindAPI:
		return d.dispatchAPI(path)
	case hostname.KindMalformed:
		return reject(http.StatusBadRequest, CodeMalformedHostname, c.Label)
	case hostname.KindReserved:
		// Indistinguishable from an unknown tenant by design.
		return reject(http.StatusNotFound, CodeTenantNotFound, c.Label)
	case hostname.KindTenant:
		return d.dispatchTenant(c.Slug, res, path, rawSession)
	}
	return reject(http.StatusNotFound, CodeTenantNotFound, c.Label)
}

// dispatchApex: the marketing site passes through; admin paths belong on the
// admin host and get sent there.
func (d *Dispatcher) dispatchApex(path string) Decision {
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return redirectTo("https://admin." + d.apex + path)
	}
	return passThrough()
}

// dispatchAdmin: the admin host serves only the operator console and the
// platform APIs. Everything else lands on the login page.
func (d *Dispatcher) dispatchAdmin(path, rawSession string) Decision {
	switch {
	case path == "/":
		return redirectTo(AdminLoginPath)
	case path == AdminLoginPath || path == "/api"+AdminLoginPath:
		return passThrough()
	case path == "/api/v1/health":
		return passThrough()
	case strings.HasPrefix(path, "/api/subdomains/") || strings.HasPrefix(path, "/api/restaurants/"):
		// Tenant directory and feature-flag collaborator APIs.
		return passThrough()
	case path == "/admin" || strings.HasPrefix(path, "/admin/") || strings.HasPrefix(path, "/api/admin/"):
		if !d.allowed(rawSession, "", session.RoleAdmin) {
			return redirectTo(AdminLoginPath)
		}
		return passThrough()
	default:
		return redirectTo(AdminLoginPath)
	}
}

// dispatchAPI: the api host is an alias that fronts the platform API.
func (d *Dispatcher) dispatchAPI(path string) Decision {
	if strings.HasPrefix(path, "/api/") || path == "/api" {
		return passThrough()
	}
	return rewriteTo("/api"+path, nil)
}

func (d *Dispatcher) dispatchTenant(slug string, res resolver.Result, path, rawSession string) Decision {
	switch res.Outcome {
	case resolver.OutcomeNotFound:
		return reject(http.StatusNotFound, CodeTenantNotFound, slug)
	case resolver.OutcomeInactive:
		dec := reject(http.StatusForbidden, CodeTenantInactive, slug)
		dec.Tenant = res.Tenant
		return dec
	case resolver.OutcomeFound:
		// Handled below.
	default:
		// Lookup failure or unknown outcome: fail closed.
		return reject(http.StatusServiceUnavailable, CodeLookupFailed, slug)
	}

	tenant := res.Tenant
	internal := TenantPathPrefix + slug

	if path == TenantLoginPath {
		return passThrough()
	}

	for prefix, roles := range roleAreas {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			if !d.allowed(rawSession, slug, roles...) {
				return redirectTo(TenantLoginPath)
			}
			return rewriteTo(internal+path, tenant)
		}
	}

	// Everything else is the customer-facing menu.
	if path == "/" {
		return rewriteTo(internal+"/menu", tenant)
	}
	return rewriteTo(internal+"/menu"+path, tenant)
}

// allowed verifies the session credential and checks its role against the
// allowed set. Platform operators pass every guard; business sessions are
// additionally pinned to their own tenant.
func (d *Dispatcher) allowed(rawSession, slug string, roles ...session.Role) bool {
	claims, err := d.sessions.Verify(rawSession)
	if err != nil {
		return false
	}
	if claims.Role == session.RoleAdmin {
		return true
	}
	if claims.TenantSlug != slug {
		return false
	}
	for _, r := range roles {
		if claims.Role == r {
			return true
		}
	}
	return false
}
