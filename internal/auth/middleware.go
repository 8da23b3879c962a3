package auth

import (
	"context"
	"fmt"
	"net/http"

	"voice-of-rajkot/internal/utils"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Middleware verifies the bearer token against the shared secret and puts
// the claims into the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		panic("JWT_SECRET env var not set")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", err.Error()))
				return
			}

			claims, err := VerifyToken(secret, rawToken)
			if err != nil {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", fmt.Sprintf("invalid token: %v", err)))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the verified claims, or nil on unauthenticated requests.
func FromContext(ctx context.Context) *Claims {
	if c, ok := ctx.Value(claimsKey).(*Claims); ok {
		return c
	}
	return nil
}

// UserID is a shortcut for handlers that only need the requester identity.
func UserID(ctx context.Context) string {
	if c := FromContext(ctx); c != nil {
		return c.UserID
	}
	return ""
}

// RequirePerformer gates routes on the performer flag.
func RequirePerformer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := FromContext(r.Context())
		if claims == nil || !claims.IsPerformer {
			utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("Forbidden", "performer access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates routes on the admin flag.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := FromContext(r.Context())
		if claims == nil || !claims.IsAdmin {
			utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("Forbidden", "admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
