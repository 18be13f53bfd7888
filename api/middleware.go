package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/models"
)

type sessionContextKey struct{}

// ContextWithSession attaches a verified identity to the request context
func ContextWithSession(ctx context.Context, user *models.SessionUser) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, user)
}

// SessionFromContext returns the identity attached by RequireAuth/RequireAdmin
func SessionFromContext(ctx context.Context) (*models.SessionUser, bool) {
	user, ok := ctx.Value(sessionContextKey{}).(*models.SessionUser)
	return user, ok
}

// RequireAuth rejects requests without a valid session before the handler
// touches the store. The verified identity is attached to the request context.
func (s *SessionManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := s.FromRequest(r)
		if err != nil {
			zap.S().Debugw("unauthorized",
				"url", r.URL,
				"reason", err.Error(),
			)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "Unauthorized, please login first"}`))
			return
		}
		ctx := ContextWithSession(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin is RequireAuth plus an admin role check. Delete operations on
// all record types go through this gate; any authenticated officer may
// create and modify, only admins may delete.
func (s *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := s.FromRequest(r)
		if err != nil {
			zap.S().Debugw("unauthorized",
				"url", r.URL,
				"reason", err.Error(),
			)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "Unauthorized, please login first"}`))
			return
		}
		if user.Role != config.RoleAdmin {
			zap.S().Warnw("forbidden",
				"url", r.URL,
				"username", user.Username,
				"role", user.Role,
			)
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "Forbidden, admin access required"}`))
			return
		}
		ctx := ContextWithSession(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
