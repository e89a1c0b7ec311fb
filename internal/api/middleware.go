// Package api implements the Laguz REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/starford/laguz/internal/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// AuthMiddleware resolves the authenticated user id for every request and
// stores it in the request context.
// If enabled is false, all requests run as devUserID (local dev mode).
// If enabled is true, requests must carry "Authorization: Bearer <jwt>"
// signed with secret; anything else is rejected before reaching a handler.
func AuthMiddleware(enabled bool, secret []byte, devUserID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), devUserID)))
				return
			}
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			claims, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), claims.UserID)))
		})
	}
}

func withUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the authenticated user id stored by AuthMiddleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
