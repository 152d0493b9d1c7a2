package lms

import "context"

type tokenCtxKey struct{}

// WithToken returns a context carrying the learner's raw bearer token. The
// REST client forwards it upstream on every call so the LMS applies its own
// enrollment checks.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

// TokenFromContext extracts the learner bearer token, if any.
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tokenCtxKey{}).(string); ok {
		return v
	}
	return ""
}
