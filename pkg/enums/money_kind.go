package enums

import "fmt"

// MoneyKind discriminates a percentage amount from a fixed quantity.
type MoneyKind string

const (
	MoneyKindPercentage MoneyKind = "percentage"
	MoneyKindFixed      MoneyKind = "fixed"
)

var validMoneyKinds = []MoneyKind{
	MoneyKindPercentage,
	MoneyKindFixed,
}

// String implements fmt.Stringer.
func (m MoneyKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MoneyKind.
func (m MoneyKind) IsValid() bool {
	for _, candidate := range validMoneyKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMoneyKind converts raw input into a MoneyKind.
func ParseMoneyKind(value string) (MoneyKind, error) {
	for _, candidate := range validMoneyKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid money kind %q", value)
}
