package ledger

import (
	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
)

// StatusMachine holds the legal status transitions for one record
// kind. Invoices flip freely between pending and paid; quotations move
// forward only: draft to sent, sent to accepted or rejected. Setting a
// record to its current status is always a legal no-op.
type StatusMachine struct {
	kind enums.RecordKind
}

// NewStatusMachine builds the machine for a record kind.
func NewStatusMachine(kind enums.RecordKind) StatusMachine {
	return StatusMachine{kind: kind}
}

// DefaultStatus is the status a newly created record receives when the
// caller supplies none.
func (m StatusMachine) DefaultStatus() string {
	if m.kind == enums.RecordKindQuotation {
		return string(enums.QuotationStatusDraft)
	}
	return string(enums.InvoiceStatusPending)
}

// IsKnown reports whether the status string belongs to this kind's
// vocabulary.
func (m StatusMachine) IsKnown(status string) bool {
	if m.kind == enums.RecordKindQuotation {
		return enums.QuotationStatus(status).IsValid()
	}
	return enums.InvoiceStatus(status).IsValid()
}

// Validate checks a transition. Unknown statuses are validation
// errors; known but illegal transitions are state conflicts. A current
// status outside the vocabulary (legacy data) permits any known next
// status, so malformed rows can always be repaired.
func (m StatusMachine) Validate(current, next string) error {
	if !m.IsKnown(next) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown status").
			WithDetails(map[string]any{"status": next, "kind": string(m.kind)})
	}
	if current == next {
		return nil
	}
	if !m.IsKnown(current) {
		return nil
	}
	if m.kind == enums.RecordKindInvoice {
		// pending and paid flip freely; no terminal state.
		return nil
	}
	if legal, ok := quotationTransitions[enums.QuotationStatus(current)]; ok {
		for _, candidate := range legal {
			if candidate == enums.QuotationStatus(next) {
				return nil
			}
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "illegal status transition").
		WithDetails(map[string]any{"from": current, "to": next})
}

var quotationTransitions = map[enums.QuotationStatus][]enums.QuotationStatus{
	enums.QuotationStatusDraft: {enums.QuotationStatusSent},
	enums.QuotationStatusSent:  {enums.QuotationStatusAccepted, enums.QuotationStatusRejected},
}
