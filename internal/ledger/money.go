package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
)

// Money is a discriminated amount: either a percentage or a fixed
// quantity. The zero value is an unset percentage. Unset is a named
// sentinel rather than the numeric zero so a cleared field can be told
// apart from an explicit 0 by the layers above.
type Money struct {
	Kind  enums.MoneyKind
	Value decimal.Decimal
	Set   bool
}

// Percentage builds a set percentage amount.
func Percentage(value decimal.Decimal) Money {
	return Money{Kind: enums.MoneyKindPercentage, Value: value, Set: true}
}

// Fixed builds a set fixed amount.
func Fixed(value decimal.Decimal) Money {
	return Money{Kind: enums.MoneyKindFixed, Value: value, Set: true}
}

// UnsetMoney builds the unset sentinel for the given kind.
func UnsetMoney(kind enums.MoneyKind) Money {
	if !kind.IsValid() {
		kind = enums.MoneyKindPercentage
	}
	return Money{Kind: kind}
}

// IsUnset reports whether the amount is the cleared-field sentinel.
func (m Money) IsUnset() bool {
	return !m.Set
}

// Amount returns the numeric value, zero when unset.
func (m Money) Amount() decimal.Decimal {
	if !m.Set {
		return decimal.Zero
	}
	return m.Value
}

// Equal compares kind, setness, and value.
func (m Money) Equal(other Money) bool {
	if m.Kind != other.Kind || m.Set != other.Set {
		return false
	}
	if !m.Set {
		return true
	}
	return m.Value.Equal(other.Value)
}
