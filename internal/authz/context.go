package authz

import (
	"context"

	"github.com/skillport/skillport/internal/auth"
)

type claimsContextKey struct{}

// ContextWithClaims stores the edge-verified claims so the facade does not
// re-parse the token on the same request.
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts verified claims, if the gate stored any.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims
}
