package cache

import "fmt"

// TenantLookupKey caches the resolver outcome for a candidate slug.
func TenantLookupKey(slug string) string {
	return fmt.Sprintf("tenant:lookup:%s", slug)
}

// LookupRateKey rate-limits directory validation calls per client host.
func LookupRateKey(clientHost string) string {
	return fmt.Sprintf("ratelimit:lookup:%s", clientHost)
}

// FeaturesKey caches a tenant's feature flag set.
func FeaturesKey(slug string) string {
	return fmt.Sprintf("tenant:features:%s", slug)
}
