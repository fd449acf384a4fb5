package middleware

import (
	"context"
	"net/http"
	"strings"
)

const userIDHeader = "user-id"

const userIDContextKey contextKey = "user_id"

// RequireUserID gates the cart routes on the caller-supplied user-id header.
func RequireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(userIDHeader))
		if userID == "" {
			writeAuthError(w, http.StatusBadRequest, "BAD_REQUEST", "user ID is required")
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}
