package auth

import "context"

type claimsKey struct{}

// WithClaims attaches verified bearer claims to ctx. The middleware is the
// only production caller; handlers read them back with FromContext.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// FromContext reports the claims attached to ctx. A nil *Claims counts as
// absent so handlers answer 401 rather than dereferencing it.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, _ := ctx.Value(claimsKey{}).(*Claims)
	if claims == nil {
		return nil, false
	}
	return claims, true
}
