package middleware

import "context"

type contextKey string

const (
	ctxAccessToken  contextKey = "access_token"
	ctxSessionToken contextKey = "session_token"
)

// AccessTokenFromContext returns the caller's Google access token, or
// the empty string when the request has not passed Auth.
func AccessTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessToken).(string); ok {
		return v
	}
	return ""
}

// SessionTokenFromContext returns the opaque identity-session token.
func SessionTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionToken).(string); ok {
		return v
	}
	return ""
}

// WithAccessToken injects the caller's access token into the context.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessToken, token)
}

// WithSessionToken injects the identity-session token into the context.
func WithSessionToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionToken, token)
}
