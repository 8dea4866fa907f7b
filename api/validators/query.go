package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
)

// RequireQuery returns the trimmed value of a query parameter, failing
// with a validation error when it is absent or blank.
func RequireQuery(r *http.Request, key string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter required").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// OptionalQuery returns the trimmed value of a query parameter, or the
// empty string when it is absent.
func OptionalQuery(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
