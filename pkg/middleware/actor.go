package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/marketsquare/fundsledger/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ActorKey is the context key for the acting user identity
	ActorKey ContextKey = "actor"
)

// Actor identifies who initiated a request. Identity comes from the upstream
// gateway; this service does not verify it (authn is out of scope here).
type Actor struct {
	UserID string
	Role   string
}

// Known roles forwarded by the gateway
const (
	RoleAdmin  = "Admin"
	RoleSeller = "Seller"
	RoleBuyer  = "Buyer"
	RoleSystem = "System"
)

// ActorMiddleware extracts the acting user from the X-User-ID and X-User-Role
// headers set by the API gateway and stores it in the request context
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		role := strings.TrimSpace(r.Header.Get("X-User-Role"))

		if userID == "" {
			response.Unauthorized(w, "X-User-ID header required")
			return
		}
		if role == "" {
			role = RoleSystem
		}

		ctx := context.WithValue(r.Context(), ActorKey, Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor extracts the acting user from the request context
func GetActor(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(Actor)
	return actor, ok
}

// RequireRole guards a subtree so only the given roles can reach it
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				response.Unauthorized(w, "Missing actor identity")
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				response.Forbidden(w, "Insufficient role for this operation")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
