// Package session issues and verifies the signed role-guard credential that
// gates business and admin areas. Tokens are HS256 JWTs with an expiry; a
// missing, tampered, or expired token never passes verification.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session token.
const CookieName = "gate_session"

// Role is the business role a session grants.
type Role string

const (
	// RoleAdmin is a platform operator (super-admin console).
	RoleAdmin Role = "admin"
	// RoleOwner is a restaurant owner (business admin area).
	RoleOwner Role = "owner"
	// RoleGarson, RoleMutfak, RoleKasa are the waiter, kitchen, and cashier
	// dashboards respectively.
	RoleGarson Role = "garson"
	RoleMutfak Role = "mutfak"
	RoleKasa   Role = "kasa"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("expired session token")
)

// Claims are the verified contents of a session token. TenantID and
// TenantSlug are zero for platform operator sessions.
type Claims struct {
	TenantID   uuid.UUID `json:"tenant_id,omitempty"`
	TenantSlug string    `json:"tenant_slug,omitempty"`
	Role       Role      `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a Manager signing with secret; issued tokens expire
// after ttl.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a new session token for the given subject.
func (m *Manager) Issue(tenantID uuid.UUID, tenantSlug string, role Role, subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		TenantID:   tenantID,
		TenantSlug: tenantSlug,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token string, enforcing the HS256
// signing method and expiry.
func (m *Manager) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }
