package middleware

import (
	"context"
	"net/http"

	"pedlop-auth/internal/cookie"
	"pedlop-auth/internal/model"
)

// sessionResolver is the slice of the auth service this middleware consumes.
type sessionResolver interface {
	Resolve(ctx context.Context, tokenString string, requiredRole model.Role) (model.AuthUser, error)
}

type contextKey string

const authUserContextKey contextKey = "auth_user"

// AuthMiddleware extracts the access token from the session cookies and
// resolves it to a live user before the handler runs.
type AuthMiddleware struct {
	sessions sessionResolver
	cookies  *cookie.Transport
}

func NewAuthMiddleware(sessions sessionResolver, cookies *cookie.Transport) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cookies: cookies}
}

// Authenticate guards a route without a role requirement.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.require("")(next)
}

// RequireRole guards a route and demands an exact role match. A mismatch is
// reported exactly like a missing session.
func (m *AuthMiddleware) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return m.require(role)
}

func (m *AuthMiddleware) require(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := m.sessions.Resolve(r.Context(), m.cookies.Token(r), role)
			if err != nil {
				writeFailure(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), authUserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user resolved by Authenticate/RequireRole.
func UserFromContext(ctx context.Context) (model.AuthUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(model.AuthUser)
	return user, ok
}
