package api

import (
	"log/slog"
	"net/http"
	"strings"

	mw "github.com/guzellestir/tenantgate/internal/api/middleware"
	"github.com/guzellestir/tenantgate/internal/api/response"
	"github.com/guzellestir/tenantgate/internal/hostname"
	"github.com/guzellestir/tenantgate/internal/resolver"
	"github.com/guzellestir/tenantgate/internal/routing"
	"github.com/guzellestir/tenantgate/internal/session"
)

// Tenant identity headers set on rewritten requests. The rewritten path is
// the canonical carrier; these mirror it for downstream convenience and are
// never read back as routing input.
const (
	HeaderTenantID   = "X-Tenant-ID"
	HeaderTenantSlug = "X-Tenant-Slug"
)

// Gateway is the single entry point of the tenant resolution protocol:
// classify the hostname, resolve the slug, dispatch, apply the decision.
// Every request goes through it before reaching any handler.
type Gateway struct {
	rules      hostname.Rules
	source     resolver.Source
	dispatcher *routing.Dispatcher
	pages      *response.Pages
}

// NewGateway wires the gateway middleware. source is typically a cached
// resolution chain; it is only consulted for candidate tenant hosts.
func NewGateway(rules hostname.Rules, source resolver.Source, dispatcher *routing.Dispatcher, pages *response.Pages) *Gateway {
	return &Gateway{rules: rules, source: source, dispatcher: dispatcher, pages: pages}
}

// Handle is the chi middleware implementing the protocol.
func (g *Gateway) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := g.rules.Classify(r.Host)

		// Legacy signal: on the apex, an explicit ?subdomain= parameter is
		// treated like a parsed Host label.
		if class.Kind == hostname.KindApex {
			if sub := r.URL.Query().Get("subdomain"); sub != "" {
				class = g.rules.ClassifyLabel(sub)
			}
		}

		var res resolver.Result
		if class.Kind == hostname.KindTenant {
			var err error
			res, err = g.source.Resolve(r.Context(), class.Slug)
			if err != nil {
				res = resolver.Result{Outcome: resolver.OutcomeError}
			}
		}

		dec := g.dispatcher.Dispatch(class, res, r.URL.Path, sessionCookie(r))

		slog.Debug("route decision",
			"host", r.Host,
			"path", r.URL.Path,
			"class", class.Kind.String(),
			"decision", dec.Kind.String(),
			"slug", class.Slug,
		)

		g.apply(w, r, dec, next)
	})
}

// apply executes a decision. Rejections render branded HTML for browsers and
// JSON for API callers.
func (g *Gateway) apply(w http.ResponseWriter, r *http.Request, dec routing.Decision, next http.Handler) {
	switch dec.Kind {
	case routing.KindPassThrough:
		next.ServeHTTP(w, r)

	case routing.KindRewrite:
		r2 := r.Clone(r.Context())
		r2.URL.Path = dec.Path
		r2.URL.RawPath = ""
		if dec.Tenant != nil {
			r2.Header.Set(HeaderTenantID, dec.Tenant.ID.String())
			r2.Header.Set(HeaderTenantSlug, dec.Tenant.Slug)
			r2 = r2.WithContext(mw.SetTenant(r2.Context(), dec.Tenant))
		}
		next.ServeHTTP(w, r2)

	case routing.KindRedirect:
		http.Redirect(w, r, dec.Location, dec.Status)

	case routing.KindReject:
		if wantsJSON(r) {
			response.Error(w, dec.Status, dec.Code, rejectMessage(dec), map[string]string{"subdomain": dec.Slug})
			return
		}
		switch dec.Code {
		case routing.CodeMalformedHostname:
			g.pages.BadHostname(w, dec.Slug)
		case routing.CodeTenantInactive:
			g.pages.TenantInactive(w, dec.Slug)
		case routing.CodeLookupFailed:
			g.pages.ServiceUnavailable(w)
		default:
			g.pages.TenantNotFound(w, dec.Slug)
		}
	}
}

func rejectMessage(dec routing.Decision) string {
	switch dec.Code {
	case routing.CodeMalformedHostname:
		return "Invalid subdomain"
	case routing.CodeTenantInactive:
		return "Restaurant is not currently active"
	case routing.CodeLookupFailed:
		return "Tenant lookup unavailable, try again"
	default:
		return "No such restaurant"
	}
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func sessionCookie(r *http.Request) string {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
