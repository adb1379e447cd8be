package middleware

import (
	"net/http"

	"github.com/guzellestir/tenantgate/internal/api/response"
	"github.com/guzellestir/tenantgate/internal/session"
)

// SessionGuard enforces session roles on API routes. The gateway already
// redirects browser traffic to login pages; this guard is the backstop for
// direct API calls, which get JSON errors instead of redirects.
type SessionGuard struct {
	sessions *session.Manager
}

// NewSessionGuard creates a SessionGuard.
func NewSessionGuard(m *session.Manager) *SessionGuard {
	return &SessionGuard{sessions: m}
}

// RequireAdmin admits only platform operator sessions.
func (g *SessionGuard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.sessions.Verify(sessionCookie(r))
		if err != nil {
			response.Error(w, http.StatusUnauthorized,
				"SESSION_REQUIRED", "Missing or invalid session", nil)
			return
		}
		if claims.Role != session.RoleAdmin {
			response.Error(w, http.StatusForbidden,
				"FORBIDDEN", "Insufficient permissions", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionCookie(r *http.Request) string {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
