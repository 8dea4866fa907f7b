package enums

import "fmt"

// RecordKind distinguishes the two ledger record flavors. They share a
// shape; only the status vocabulary differs.
type RecordKind string

const (
	RecordKindInvoice   RecordKind = "invoice"
	RecordKindQuotation RecordKind = "quotation"
)

var validRecordKinds = []RecordKind{
	RecordKindInvoice,
	RecordKindQuotation,
}

// String implements fmt.Stringer.
func (r RecordKind) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RecordKind.
func (r RecordKind) IsValid() bool {
	for _, candidate := range validRecordKinds {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecordKind converts raw input into a RecordKind.
func ParseRecordKind(value string) (RecordKind, error) {
	for _, candidate := range validRecordKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record kind %q", value)
}
