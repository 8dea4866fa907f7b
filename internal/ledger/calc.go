package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// LineTotals is the financial breakdown of one line item.
type LineTotals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Totals aggregates every line of a record.
type Totals struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

// LineTotalsFor computes one line. A percentage discount takes
// subtotal*v/100; a fixed discount is capped at the line subtotal so a
// discount can never push a single line negative. Tax applies to the
// discounted amount: proportional for percentage, raw for fixed.
func LineTotalsFor(item LineItem) LineTotals {
	subtotal := decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice)

	discount := amountOf(item.Discount, subtotal)
	if item.Discount.Kind == enums.MoneyKindFixed && discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	afterDiscount := subtotal.Sub(discount)
	tax := amountOf(item.Tax, afterDiscount)

	return LineTotals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    afterDiscount.Add(tax),
	}
}

// TotalsFor sums every line. An empty item list yields an all-zero
// result. The grand total is returned as computed; a negative value is
// never clamped here, callers decide how to surface it.
func TotalsFor(items []LineItem) Totals {
	totals := Totals{
		Subtotal:   decimal.Zero,
		Discount:   decimal.Zero,
		Tax:        decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for _, item := range items {
		line := LineTotalsFor(item)
		totals.Subtotal = totals.Subtotal.Add(line.Subtotal)
		totals.Discount = totals.Discount.Add(line.Discount)
		totals.Tax = totals.Tax.Add(line.Tax)
	}
	totals.GrandTotal = totals.Subtotal.Sub(totals.Discount).Add(totals.Tax)
	return totals
}

func amountOf(m Money, base decimal.Decimal) decimal.Decimal {
	if m.IsUnset() {
		return decimal.Zero
	}
	if m.Kind == enums.MoneyKindPercentage {
		return base.Mul(m.Value).Div(oneHundred)
	}
	return m.Value
}
