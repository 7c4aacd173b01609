package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// identityKey is the context key for the authenticated identity.
const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context.
// Token and ExpiresAt are kept so logout can revoke the exact token.
type Identity struct {
	UserID    uuid.UUID
	Name      string
	Token     string
	ExpiresAt time.Time
}

// Authenticate parses a Bearer token from the Authorization header and, if
// it is valid and not revoked, stores the caller's Identity in the request
// context. It does NOT enforce authentication — per-operation enforcement
// happens in the resolvers, mirroring the per-operation auth middleware of
// the GraphQL surface.
func Authenticate(tokens *auth.TokenService, revoked *auth.Blacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			if revoked != nil && revoked.IsRevoked(r.Context(), raw) {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ident := &Identity{
				UserID:    claims.UserID,
				Name:      claims.Name,
				Token:     raw,
				ExpiresAt: claims.ExpiresAt.Time,
			}
			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromCtx extracts the authenticated identity from the request
// context. Returns nil if the caller is not authenticated.
func IdentityFromCtx(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityKey).(*Identity)
	return ident
}
