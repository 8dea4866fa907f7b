package sheets

import (
	"regexp"

	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
)

// Spreadsheet ids are 25+ characters drawn from the Drive file-id
// alphabet. The canonical /spreadsheets/d/<id> form is preferred; any
// embedded id-like token is accepted as a fallback so pasted links
// with extra path segments or query strings still resolve.
var (
	canonicalIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9\-_]{25,})`)
	embeddedIDPattern  = regexp.MustCompile(`[a-zA-Z0-9\-_]{25,}`)
)

// ExtractSpreadsheetID pulls the spreadsheet id out of a user-supplied URL.
func ExtractSpreadsheetID(rawURL string) (string, error) {
	if m := canonicalIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}
	if m := embeddedIDPattern.FindString(rawURL); m != "" {
		return m, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "no spreadsheet id found in url").
		WithDetails(map[string]any{"url": rawURL})
}
