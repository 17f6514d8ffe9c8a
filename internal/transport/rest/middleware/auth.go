package middleware

import (
	"context"
	"net/http"
	"strings"

	"vozgestora/internal/model"
	"vozgestora/internal/service"
)

type contextKey string

const SessionKey contextKey = "session"

// AuthMiddleware provides session authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireSession validates the bearer token and its live session
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		session, err := m.authSvc.Validate(r.Context(), token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireTab rejects sessions whose role cannot see the tab. It must run after RequireSession.
func RequireTab(tab model.Tab) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			if !session.User.Role.CanAccess(tab) {
				http.Error(w, `{"error":"role cannot access this area"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSession extracts the session from context
func GetSession(ctx context.Context) *model.Session {
	if v, ok := ctx.Value(SessionKey).(*model.Session); ok {
		return v
	}
	return nil
}

// WithSession stores a session in ctx
func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
