package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
)

// Party is one side of a ledger record, used for both the issuing
// business and the customer.
type Party struct {
	Name    string
	Email   string
	Address string
}

// LineItem is a single billable line.
type LineItem struct {
	Name        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    Money
	Tax         Money
}

// Record is an invoice or quotation. The two kinds share a shape and
// differ only in status vocabulary.
//
// Total is always calculator output; it is recomputed on every save
// and update, never taken from the caller. ColorHint is an API-level
// presentation hint with no backing column, so it does not persist.
type Record struct {
	ID              string
	Kind            enums.RecordKind
	IssueDate       time.Time
	DueDate         time.Time
	Customer        Party
	Items           []LineItem
	Total           decimal.Decimal
	TaxSummary      Money
	DiscountSummary Money
	Notes           string
	TemplateID      string
	Status          string
	ColorHint       string
}

// DateLayout is the wire format for the two date cells.
const DateLayout = "2006-01-02"
