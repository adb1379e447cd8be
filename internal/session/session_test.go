package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/guzellestir/tenantgate/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueVerify_Roundtrip(t *testing.T) {
	m := session.NewManager(testSecret, time.Hour)
	tenantID := uuid.New()

	raw, err := m.Issue(tenantID, "kardesler", session.RoleOwner, "owner@kardesler.example")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "kardesler", claims.TenantSlug)
	assert.Equal(t, session.RoleOwner, claims.Role)
	assert.Equal(t, "owner@kardesler.example", claims.Subject)
}

func TestVerify_Empty(t *testing.T) {
	m := session.NewManager(testSecret, time.Hour)

	_, err := m.Verify("")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	m := session.NewManager(testSecret, time.Hour)

	_, err := m.Verify("not-a-jwt")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	m := session.NewManager(testSecret, -time.Minute)

	raw, err := m.Issue(uuid.New(), "kardesler", session.RoleGarson, "garson")
	require.NoError(t, err)

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, session.ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := session.NewManager(testSecret, time.Hour)
	verifier := session.NewManager("another-secret-another-secret-xx", time.Hour)

	raw, err := issuer.Issue(uuid.New(), "kardesler", session.RoleKasa, "kasa")
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestVerify_RejectsUnsignedToken(t *testing.T) {
	m := session.NewManager(testSecret, time.Hour)

	// alg=none tokens must never verify, even with a plausible payload.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestPlatformAdminSession_NoTenant(t *testing.T) {
	m := session.NewManager(testSecret, time.Hour)

	raw, err := m.Issue(uuid.Nil, "", session.RoleAdmin, "ops@guzellestir.com")
	require.NoError(t, err)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, claims.TenantID)
	assert.Empty(t, claims.TenantSlug)
	assert.Equal(t, session.RoleAdmin, claims.Role)
}
