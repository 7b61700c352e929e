package api

import (
	"context"
	"net/http"
	"strings"

	"scholarboard/pkg/types"
)

type contextKey string

const identityKey contextKey = "identity"

// identityFrom returns the authenticated identity placed by requireAuth.
func identityFrom(ctx context.Context) (*types.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*types.Identity)
	return identity, ok
}

// requireAuth resolves the Bearer token to an identity. Invalid tokens get
// 401, not an error payload with detail.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.sendError(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		identity, err := s.auth.Verify(r.Context(), token)
		if err != nil {
			s.sendError(w, "Failed to verify token", http.StatusInternalServerError)
			return
		}
		if identity == nil {
			s.sendError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates admin-only routes. Runs after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok || identity.Role != types.RoleAdmin {
			s.sendError(w, "Admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
