// Package hostname classifies inbound request hostnames against the
// platform's apex domain. Classification is a pure function of the Host
// header and the injected Rules; nothing here touches the network.
package hostname

import (
	"net"
	"regexp"
	"strings"
)

// Kind enumerates the possible classifications of a request hostname.
type Kind int

const (
	// KindApex is the bare registered domain, localhost, an IP literal, or
	// any host outside the apex zone entirely.
	KindApex Kind = iota
	// KindWWW is the www alias of the apex.
	KindWWW
	// KindAdmin is the platform operator console host.
	KindAdmin
	// KindAPI is the platform API host alias.
	KindAPI
	// KindReserved is a subdomain label held back for platform
	// infrastructure; never assignable to a tenant.
	KindReserved
	// KindTenant is a well-formed candidate tenant slug. Whether the slug
	// maps to a real tenant is the resolver's business.
	KindTenant
	// KindMalformed is a label that fails the slug charset or length rules,
	// or a nested multi-label subdomain.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindApex:
		return "apex"
	case KindWWW:
		return "www"
	case KindAdmin:
		return "admin"
	case KindAPI:
		return "api"
	case KindReserved:
		return "reserved"
	case KindTenant:
		return "tenant"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

// Classification is the per-request result of parsing the Host header.
// Slug is set only for KindTenant; Label is the raw leading label for every
// kind that has one (including reserved and malformed, for error pages).
type Classification struct {
	Kind  Kind
	Slug  string
	Label string
}

// Slug shape shared by every entry point: lowercase alphanumerics and
// hyphens, no leading or trailing hyphen.
var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

const (
	// MinSlugLen and MaxSlugLen bound tenant slug length.
	MinSlugLen = 3
	MaxSlugLen = 20

	adminLabel = "admin"
	apiLabel   = "api"
)

// defaultReserved is the built-in reserved-word list: common infrastructure
// labels plus the platform's own role and asset hosts. Operators extend it
// via configuration, never by editing code.
var defaultReserved = []string{
	"admin", "api", "www", "mail", "ftp", "support", "help", "docs",
	"blog", "shop", "store",
	// product hosts
	"app", "panel", "menu", "garson", "mutfak", "kasa", "demo",
	"static", "cdn", "assets", "status",
}

// Rules is an immutable hostname classification policy. Construct with
// NewRules; the zero value classifies everything as apex.
type Rules struct {
	apex     string
	reserved map[string]struct{}
}

// NewRules builds classification rules for the given apex domain. The
// reserved list is the built-in default set plus extra, matched
// case-insensitively.
func NewRules(apex string, extra []string) Rules {
	reserved := make(map[string]struct{}, len(defaultReserved)+len(extra))
	for _, w := range defaultReserved {
		reserved[w] = struct{}{}
	}
	for _, w := range extra {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			reserved[w] = struct{}{}
		}
	}
	return Rules{apex: strings.ToLower(apex), reserved: reserved}
}

// Apex returns the configured apex domain.
func (r Rules) Apex() string { return r.apex }

// Classify maps a raw Host header to a Classification.
func (r Rules) Classify(host string) Classification {
	host = normalizeHost(host)

	if host == "" || r.apex == "" {
		return Classification{Kind: KindApex}
	}
	if host == r.apex {
		return Classification{Kind: KindApex}
	}
	if host == "www."+r.apex {
		return Classification{Kind: KindWWW}
	}
	if host == "localhost" || net.ParseIP(host) != nil {
		return Classification{Kind: KindApex}
	}

	label, ok := strings.CutSuffix(host, "."+r.apex)
	if !ok {
		// Foreign host; not ours to route.
		return Classification{Kind: KindApex}
	}
	if strings.Contains(label, ".") {
		// Nested subdomains are never valid tenant hosts.
		return Classification{Kind: KindMalformed, Label: label}
	}

	return r.classifyLabel(label)
}

// ClassifyLabel classifies a bare subdomain label, used for the legacy
// ?subdomain= query parameter. The label goes through the same reserved and
// slug rules as a Host label.
func (r Rules) ClassifyLabel(label string) Classification {
	return r.classifyLabel(strings.ToLower(strings.TrimSpace(label)))
}

func (r Rules) classifyLabel(label string) Classification {
	switch label {
	case adminLabel:
		return Classification{Kind: KindAdmin, Label: label}
	case apiLabel:
		return Classification{Kind: KindAPI, Label: label}
	}
	if _, ok := r.reserved[label]; ok {
		return Classification{Kind: KindReserved, Label: label}
	}
	if len(label) < MinSlugLen || len(label) > MaxSlugLen || !slugPattern.MatchString(label) {
		return Classification{Kind: KindMalformed, Label: label}
	}
	return Classification{Kind: KindTenant, Slug: label, Label: label}
}

// ValidSlug reports whether s is assignable as a tenant slug: correct shape,
// correct length, and not reserved. Used by the admin console at signup time
// so the store never accepts a slug the parser would reject.
func (r Rules) ValidSlug(s string) bool {
	return r.classifyLabel(strings.ToLower(s)).Kind == KindTenant
}

// normalizeHost lowercases the host and strips an optional port.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
