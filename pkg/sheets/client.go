package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
)

// Client wraps the Sheets API for row-oriented access to a single tab.
// Rows are addressed by zero-based index; tabs have no header row, so
// data row 0 lives at A1.
type Client struct {
	svc *gsheets.Service
}

// NewClient builds a Sheets client from the caller's own access token.
// The token is treated as an opaque pass-through credential.
func NewClient(ctx context.Context, accessToken string) (*Client, error) {
	if accessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing provider access token")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gsheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sheets service")
	}
	return &Client{svc: svc}, nil
}

// Tab identifies one resolved sub-sheet.
type Tab struct {
	SpreadsheetID string
	SheetID       int64
	Title         string
}

// ResolveTab looks a tab up by exact title. A missing spreadsheet and a
// missing tab surface as distinct not-found errors.
func (c *Client) ResolveTab(ctx context.Context, spreadsheetID, title string) (Tab, error) {
	spreadsheet, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return Tab{}, mapGoogleError(err, "spreadsheet", spreadsheetID)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return Tab{
				SpreadsheetID: spreadsheetID,
				SheetID:       sheet.Properties.SheetId,
				Title:         title,
			}, nil
		}
	}
	return Tab{}, pkgerrors.New(pkgerrors.CodeNotFound, "tab not found").
		WithDetails(map[string]any{"tab": title})
}

// ReadRows fetches every data row, padded or truncated to width cells.
func (c *Client) ReadRows(ctx context.Context, tab Tab, width int) ([][]string, error) {
	rng := fmt.Sprintf("'%s'!A:%s", tab.Title, columnLetter(width-1))
	resp, err := c.svc.Spreadsheets.Values.Get(tab.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, mapGoogleError(err, "tab", tab.Title)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, width)
		for i := 0; i < width && i < len(raw); i++ {
			row[i] = cellString(raw[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadColumn fetches a single column as strings, one entry per row.
func (c *Client) ReadColumn(ctx context.Context, tab Tab, col string) ([]string, error) {
	rng := fmt.Sprintf("'%s'!%s:%s", tab.Title, col, col)
	resp, err := c.svc.Spreadsheets.Values.Get(tab.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, mapGoogleError(err, "tab", tab.Title)
	}
	values := make([]string, len(resp.Values))
	for i, raw := range resp.Values {
		if len(raw) > 0 {
			values[i] = cellString(raw[0])
		}
	}
	return values, nil
}

// ReadCell fetches one cell by column letter and zero-based row index.
func (c *Client) ReadCell(ctx context.Context, tab Tab, col string, rowIndex int) (string, error) {
	rng := fmt.Sprintf("'%s'!%s%d", tab.Title, col, rowIndex+1)
	resp, err := c.svc.Spreadsheets.Values.Get(tab.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", mapGoogleError(err, "tab", tab.Title)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return cellString(resp.Values[0][0]), nil
}

// AppendRow adds cells after the last data row of the tab.
func (c *Client) AppendRow(ctx context.Context, tab Tab, cells []string) error {
	rng := fmt.Sprintf("'%s'!A:%s", tab.Title, columnLetter(len(cells)-1))
	vr := &gsheets.ValueRange{Values: [][]any{toAnyRow(cells)}}
	_, err := c.svc.Spreadsheets.Values.Append(tab.SpreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return mapGoogleError(err, "tab", tab.Title)
	}
	return nil
}

// OverwriteRow replaces the full cell range of one row.
func (c *Client) OverwriteRow(ctx context.Context, tab Tab, rowIndex int, cells []string) error {
	rng := fmt.Sprintf("'%s'!A%d:%s%d", tab.Title, rowIndex+1, columnLetter(len(cells)-1), rowIndex+1)
	vr := &gsheets.ValueRange{Values: [][]any{toAnyRow(cells)}}
	_, err := c.svc.Spreadsheets.Values.Update(tab.SpreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return mapGoogleError(err, "tab", tab.Title)
	}
	return nil
}

// UpdateCell rewrites a single cell.
func (c *Client) UpdateCell(ctx context.Context, tab Tab, col string, rowIndex int, value string) error {
	rng := fmt.Sprintf("'%s'!%s%d", tab.Title, col, rowIndex+1)
	vr := &gsheets.ValueRange{Values: [][]any{{value}}}
	_, err := c.svc.Spreadsheets.Values.Update(tab.SpreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return mapGoogleError(err, "tab", tab.Title)
	}
	return nil
}

// DeleteRow removes the row structurally; subsequent rows shift up.
func (c *Client) DeleteRow(ctx context.Context, tab Tab, rowIndex int) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{
			{
				DeleteDimension: &gsheets.DeleteDimensionRequest{
					Range: &gsheets.DimensionRange{
						SheetId:    tab.SheetID,
						Dimension:  "ROWS",
						StartIndex: int64(rowIndex),
						EndIndex:   int64(rowIndex + 1),
					},
				},
			},
		},
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(tab.SpreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return mapGoogleError(err, "tab", tab.Title)
	}
	return nil
}

func mapGoogleError(err error, kind, ref string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 404:
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, kind+" not found").
				WithDetails(map[string]any{kind: ref})
		case 401, 403:
			return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "sheets access denied")
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sheets api call failed").
		WithDetails(map[string]any{"upstream": err.Error()})
}

func cellString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

func toAnyRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}

func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}
