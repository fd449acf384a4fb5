package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-shop-api/internal/model"
)

type tokenValidator interface {
	ValidateToken(tokenString string) (model.Principal, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

// AuthMiddleware is the admin gate: it validates the bearer token and only
// lets requests with an admin principal through.
type AuthMiddleware struct {
	validator tokenValidator
}

func NewAuthMiddleware(validator tokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "token not provided")
			return
		}

		// Header form is "<scheme> <token>"; only the token part matters.
		parts := strings.Fields(header)
		if len(parts) < 2 {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header")
			return
		}

		// Malformed, badly signed and expired tokens are all rejected the
		// same way here.
		principal, err := m.validator.ValidateToken(parts[1])
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		if !principal.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "not an admin")
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(model.Principal)
	return principal, ok
}

func writeAuthError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
