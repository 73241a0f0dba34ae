package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey struct{}

// FromContext returns the identity stored by Middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Middleware verifies the Authorization bearer token. teacherOnly also
// rejects non-teacher roles.
func (s *Service) Middleware(teacherOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				deny(w, http.StatusForbidden, "access denied, no token provided")
				return
			}
			raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

			id, err := s.Verify(raw)
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if teacherOnly && id.Role != RoleTeacher {
				deny(w, http.StatusForbidden, "teacher only route")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
