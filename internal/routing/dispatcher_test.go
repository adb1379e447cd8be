package routing_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/guzellestir/tenantgate/internal/hostname"
	"github.com/guzellestir/tenantgate/internal/resolver"
	"github.com/guzellestir/tenantgate/internal/routing"
	"github.com/guzellestir/tenantgate/internal/session"
	"github.com/guzellestir/tenantgate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newDispatcher() (*routing.Dispatcher, *session.Manager) {
	mgr := session.NewManager(testSecret, time.Hour)
	return routing.NewDispatcher("guzellestir.com", mgr), mgr
}

func kardesler() resolver.Result {
	return resolver.Result{
		Outcome: resolver.OutcomeFound,
		Tenant: &models.Tenant{
			ID:          uuid.New(),
			Slug:        "kardesler",
			DisplayName: "Kardeşler Lokantası",
			Plan:        models.PlanPremium,
			Active:      true,
		},
	}
}

func classify(host string) hostname.Classification {
	return hostname.NewRules("guzellestir.com", nil).Classify(host)
}

// --- Apex / WWW ---

func TestDispatch_ApexPassesThrough(t *testing.T) {
	d, _ := newDispatcher()

	for _, host := range []string{"guzellestir.com", "www.guzellestir.com"} {
		for _, path := range []string{"/", "/hakkimizda", "/api/v1/health"} {
			dec := d.Dispatch(classify(host), resolver.Result{}, path, "")
			assert.Equal(t, routing.KindPassThrough, dec.Kind, "%s %s", host, path)
		}
	}
}

func TestDispatch_ApexAdminRedirectsToAdminHost(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("guzellestir.com"), resolver.Result{}, "/admin", "")
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, "https://admin.guzellestir.com/admin", dec.Location)
	assert.Equal(t, http.StatusFound, dec.Status)

	dec = d.Dispatch(classify("guzellestir.com"), resolver.Result{}, "/admin/restaurants", "")
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, "https://admin.guzellestir.com/admin/restaurants", dec.Location)
}

// --- Admin host ---

func TestDispatch_AdminRootRedirectsToLogin(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/", "")
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, routing.AdminLoginPath, dec.Location)
}

func TestDispatch_AdminWithoutSessionRedirects(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/admin/restaurants", "")
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, routing.AdminLoginPath, dec.Location)
}

func TestDispatch_AdminWithSessionPasses(t *testing.T) {
	d, mgr := newDispatcher()
	tok, err := mgr.Issue(uuid.Nil, "", session.RoleAdmin, "ops@guzellestir.com")
	require.NoError(t, err)

	dec := d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/admin/restaurants", tok)
	assert.Equal(t, routing.KindPassThrough, dec.Kind)

	dec = d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/api/admin/restaurants", tok)
	assert.Equal(t, routing.KindPassThrough, dec.Kind)
}

func TestDispatch_AdminBusinessSessionRejected(t *testing.T) {
	d, mgr := newDispatcher()
	tok, err := mgr.Issue(uuid.New(), "kardesler", session.RoleOwner, "owner")
	require.NoError(t, err)

	// A restaurant owner's session opens nothing on the operator console.
	dec := d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/admin/restaurants", tok)
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, routing.AdminLoginPath, dec.Location)
}

func TestDispatch_AdminExpiredSessionRedirects(t *testing.T) {
	d, _ := newDispatcher()
	expired := session.NewManager(testSecret, -time.Minute)
	tok, err := expired.Issue(uuid.Nil, "", session.RoleAdmin, "ops")
	require.NoError(t, err)

	dec := d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/admin/restaurants", tok)
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, routing.AdminLoginPath, dec.Location)
}

func TestDispatch_AdminLoginAlwaysReachable(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/admin/login", "")
	assert.Equal(t, routing.KindPassThrough, dec.Kind)

	dec = d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/api/admin/login", "")
	assert.Equal(t, routing.KindPassThrough, dec.Kind)
}

func TestDispatch_AdminHostServesDirectoryAPI(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/api/subdomains/validate/kardesler", "")
	assert.Equal(t, routing.KindPassThrough, dec.Kind)

	dec = d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/api/restaurants/kardesler/features", "")
	assert.Equal(t, routing.KindPassThrough, dec.Kind)
}

func TestDispatch_AdminStrayPathRedirectsToLogin(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("admin.guzellestir.com"), resolver.Result{}, "/menu", "")
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, routing.AdminLoginPath, dec.Location)
}

// --- API host ---

func TestDispatch_APIHostRewrites(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("api.guzellestir.com"), resolver.Result{}, "/subdomains/validate/kardesler", "")
	require.Equal(t, routing.KindRewrite, dec.Kind)
	assert.Equal(t, "/api/subdomains/validate/kardesler", dec.Path)

	dec = d.Dispatch(classify("api.guzellestir.com"), resolver.Result{}, "/api/v1/health", "")
	assert.Equal(t, routing.KindPassThrough, dec.Kind)
}

// --- Reserved / malformed / unknown ---

func TestDispatch_ReservedAndUnknownAreIdentical(t *testing.T) {
	d, _ := newDispatcher()

	reserved := d.Dispatch(classify("mail.guzellestir.com"), resolver.Result{}, "/", "")
	unknown := d.Dispatch(classify("unknown123.guzellestir.com"),
		resolver.Result{Outcome: resolver.OutcomeNotFound}, "/", "")

	require.Equal(t, routing.KindReject, reserved.Kind)
	require.Equal(t, routing.KindReject, unknown.Kind)
	assert.Equal(t, http.StatusNotFound, reserved.Status)
	assert.Equal(t, http.StatusNotFound, unknown.Status)
	// Same code for both so responses don't reveal which slugs exist.
	assert.Equal(t, unknown.Code, reserved.Code)
	assert.Equal(t, "mail", reserved.Slug)
	assert.Equal(t, "unknown123", unknown.Slug)
}

func TestDispatch_MalformedHostRejected400(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("a!.guzellestir.com"), resolver.Result{}, "/", "")
	require.Equal(t, routing.KindReject, dec.Kind)
	assert.Equal(t, http.StatusBadRequest, dec.Status)
	assert.Equal(t, routing.CodeMalformedHostname, dec.Code)
}

func TestDispatch_InactiveTenant403(t *testing.T) {
	d, _ := newDispatcher()
	res := kardesler()
	res.Outcome = resolver.OutcomeInactive
	res.Tenant.Active = false

	dec := d.Dispatch(classify("kardesler.guzellestir.com"), res, "/", "")
	require.Equal(t, routing.KindReject, dec.Kind)
	assert.Equal(t, http.StatusForbidden, dec.Status)
	assert.Equal(t, routing.CodeTenantInactive, dec.Code)
}

func TestDispatch_LookupFailureFailsClosed(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("kardesler.guzellestir.com"),
		resolver.Result{Outcome: resolver.OutcomeError}, "/", "")
	require.Equal(t, routing.KindReject, dec.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, dec.Status)
	assert.Equal(t, routing.CodeLookupFailed, dec.Code)
}

// --- Tenant host, found ---

func TestDispatch_TenantRootRewritesToMenu(t *testing.T) {
	d, _ := newDispatcher()
	res := kardesler()

	dec := d.Dispatch(classify("kardesler.guzellestir.com"), res, "/", "")
	require.Equal(t, routing.KindRewrite, dec.Kind)
	assert.Equal(t, "/t/kardesler/menu", dec.Path)
	require.NotNil(t, dec.Tenant)
	assert.Equal(t, res.Tenant.ID, dec.Tenant.ID, "identity must survive dispatch end to end")
}

func TestDispatch_TenantMenuPathsCarrySuffix(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("kardesler.guzellestir.com"), kardesler(), "/tatlilar", "")
	require.Equal(t, routing.KindRewrite, dec.Kind)
	assert.Equal(t, "/t/kardesler/menu/tatlilar", dec.Path)
}

func TestDispatch_TenantLoginPassesThrough(t *testing.T) {
	d, _ := newDispatcher()

	dec := d.Dispatch(classify("kardesler.guzellestir.com"), kardesler(), "/login", "")
	assert.Equal(t, routing.KindPassThrough, dec.Kind)
}

func TestDispatch_TenantAdminRequiresOwnerSession(t *testing.T) {
	d, mgr := newDispatcher()
	res := kardesler()

	dec := d.Dispatch(classify("kardesler.guzellestir.com"), res, "/admin", "")
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, routing.TenantLoginPath, dec.Location)

	tok, err := mgr.Issue(res.Tenant.ID, "kardesler", session.RoleOwner, "owner")
	require.NoError(t, err)

	dec = d.Dispatch(classify("kardesler.guzellestir.com"), res, "/admin", tok)
	require.Equal(t, routing.KindRewrite, dec.Kind)
	assert.Equal(t, "/t/kardesler/admin", dec.Path)
}

func TestDispatch_RoleAreas(t *testing.T) {
	d, mgr := newDispatcher()
	res := kardesler()

	tests := []struct {
		path string
		role session.Role
	}{
		{"/garson", session.RoleGarson},
		{"/mutfak", session.RoleMutfak},
		{"/kasa", session.RoleKasa},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			// No session: off to login.
			dec := d.Dispatch(classify("kardesler.guzellestir.com"), res, tt.path, "")
			require.Equal(t, routing.KindRedirect, dec.Kind)
			assert.Equal(t, routing.TenantLoginPath, dec.Location)

			// Matching role: rewritten into the internal area.
			tok, err := mgr.Issue(res.Tenant.ID, "kardesler", tt.role, string(tt.role))
			require.NoError(t, err)
			dec = d.Dispatch(classify("kardesler.guzellestir.com"), res, tt.path, tok)
			require.Equal(t, routing.KindRewrite, dec.Kind)
			assert.Equal(t, "/t/kardesler"+tt.path, dec.Path)

			// Owner reaches every area.
			owner, err := mgr.Issue(res.Tenant.ID, "kardesler", session.RoleOwner, "owner")
			require.NoError(t, err)
			dec = d.Dispatch(classify("kardesler.guzellestir.com"), res, tt.path, owner)
			assert.Equal(t, routing.KindRewrite, dec.Kind)
		})
	}
}

func TestDispatch_WrongRoleRedirects(t *testing.T) {
	d, mgr := newDispatcher()
	res := kardesler()

	tok, err := mgr.Issue(res.Tenant.ID, "kardesler", session.RoleGarson, "garson")
	require.NoError(t, err)

	dec := d.Dispatch(classify("kardesler.guzellestir.com"), res, "/mutfak", tok)
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, routing.TenantLoginPath, dec.Location)
}

func TestDispatch_SessionPinnedToTenant(t *testing.T) {
	d, mgr := newDispatcher()
	res := kardesler()

	// A session issued for another restaurant opens nothing here.
	tok, err := mgr.Issue(uuid.New(), "meydan", session.RoleOwner, "owner")
	require.NoError(t, err)

	dec := d.Dispatch(classify("kardesler.guzellestir.com"), res, "/admin", tok)
	require.Equal(t, routing.KindRedirect, dec.Kind)
	assert.Equal(t, routing.TenantLoginPath, dec.Location)
}

func TestDispatch_PlatformAdminPassesTenantGuards(t *testing.T) {
	d, mgr := newDispatcher()
	res := kardesler()

	tok, err := mgr.Issue(uuid.Nil, "", session.RoleAdmin, "ops")
	require.NoError(t, err)

	dec := d.Dispatch(classify("kardesler.guzellestir.com"), res, "/admin/menu-duzenle", tok)
	require.Equal(t, routing.KindRewrite, dec.Kind)
	assert.Equal(t, "/t/kardesler/admin/menu-duzenle", dec.Path)
}

func TestDispatch_Deterministic(t *testing.T) {
	d, _ := newDispatcher()
	res := kardesler()

	a := d.Dispatch(classify("kardesler.guzellestir.com"), res, "/", "")
	b := d.Dispatch(classify("kardesler.guzellestir.com"), res, "/", "")
	assert.Equal(t, a, b)
}
