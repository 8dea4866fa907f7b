package middleware

import (
	"net/http"
	"strings"

	"github.com/sheetbooks/sheetbooks-backend/api/responses"
	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
	"github.com/sheetbooks/sheetbooks-backend/pkg/logger"
)

const sessionTokenHeader = "X-Session-Token"

// Auth extracts the caller's credentials and seeds the request context.
// Both tokens are opaque here: the access token is handed to the Sheets
// client as-is, and the session token is only checked for presence.
func Auth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			session := strings.TrimSpace(r.Header.Get(sessionTokenHeader))
			if session == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token"))
				return
			}

			ctx := WithAccessToken(r.Context(), token)
			ctx = WithSessionToken(ctx, session)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
