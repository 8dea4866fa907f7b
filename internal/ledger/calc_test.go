package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotalsPercentageDiscountAndTax(t *testing.T) {
	item := LineItem{
		Quantity:  2,
		UnitPrice: dec("50"),
		Discount:  Percentage(dec("10")),
		Tax:       Percentage(dec("5")),
	}

	line := LineTotalsFor(item)

	assert.True(t, line.Subtotal.Equal(dec("100")), "subtotal %s", line.Subtotal)
	assert.True(t, line.Discount.Equal(dec("10")), "discount %s", line.Discount)
	assert.True(t, line.Tax.Equal(dec("4.5")), "tax %s", line.Tax)
	assert.True(t, line.Total.Equal(dec("94.5")), "total %s", line.Total)
}

func TestLineTotalsFullPercentageDiscountZeroesTheLine(t *testing.T) {
	tests := []struct {
		quantity int
		price    string
	}{
		{1, "10"},
		{3, "19.99"},
		{50, "0.01"},
	}
	for _, tt := range tests {
		item := LineItem{
			Quantity:  tt.quantity,
			UnitPrice: dec(tt.price),
			Discount:  Percentage(dec("100")),
		}
		line := LineTotalsFor(item)
		require.True(t, line.Subtotal.Sub(line.Discount).IsZero(),
			"qty=%d price=%s left %s", tt.quantity, tt.price, line.Subtotal.Sub(line.Discount))
	}
}

// A fixed discount larger than the line is capped at the subtotal; the
// uncapped reading would let one line go negative on its own.
func TestLineTotalsFixedDiscountCappedAtSubtotal(t *testing.T) {
	item := LineItem{
		Quantity:  1,
		UnitPrice: dec("100"),
		Discount:  Fixed(dec("150")),
	}

	line := LineTotalsFor(item)

	assert.True(t, line.Discount.Equal(dec("100")), "discount %s", line.Discount)
	assert.True(t, line.Total.IsZero(), "total %s", line.Total)
}

func TestLineTotalsFixedDiscountWithinSubtotalNotCapped(t *testing.T) {
	item := LineItem{
		Quantity:  2,
		UnitPrice: dec("40"),
		Discount:  Fixed(dec("15")),
		Tax:       Fixed(dec("3")),
	}

	line := LineTotalsFor(item)

	assert.True(t, line.Discount.Equal(dec("15")), "discount %s", line.Discount)
	assert.True(t, line.Tax.Equal(dec("3")), "fixed tax is raw, got %s", line.Tax)
	assert.True(t, line.Total.Equal(dec("68")), "total %s", line.Total)
}

func TestTotalsForEmptyItemsAllZero(t *testing.T) {
	totals := TotalsFor(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestTotalsForAggregatesLines(t *testing.T) {
	items := []LineItem{
		{Quantity: 2, UnitPrice: dec("50"), Discount: Percentage(dec("10")), Tax: Percentage(dec("5"))},
		{Quantity: 1, UnitPrice: dec("200"), Discount: Fixed(dec("20"))},
	}

	totals := TotalsFor(items)

	assert.True(t, totals.Subtotal.Equal(dec("300")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Discount.Equal(dec("30")), "discount %s", totals.Discount)
	assert.True(t, totals.Tax.Equal(dec("4.5")), "tax %s", totals.Tax)
	assert.True(t, totals.GrandTotal.Equal(dec("274.5")), "grand total %s", totals.GrandTotal)
}

func TestTotalsForIsIdempotent(t *testing.T) {
	items := []LineItem{
		{Quantity: 3, UnitPrice: dec("12.34"), Discount: Percentage(dec("7")), Tax: Percentage(dec("19"))},
	}

	first := TotalsFor(items)
	second := TotalsFor(items)

	require.True(t, first.GrandTotal.Equal(second.GrandTotal))
	require.True(t, first.Subtotal.Equal(second.Subtotal))
	require.True(t, first.Discount.Equal(second.Discount))
	require.True(t, first.Tax.Equal(second.Tax))
}

func TestTotalsForUnsetMoneyContributesNothing(t *testing.T) {
	items := []LineItem{
		{Quantity: 4, UnitPrice: dec("25")},
	}

	totals := TotalsFor(items)

	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.GrandTotal.Equal(dec("100")))
}

// Percentage discounts above 100 are not capped, so the grand total can
// go negative; the calculator reports it as computed and leaves the
// clamp decision to callers.
func TestTotalsForNegativeGrandTotalNotClamped(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, UnitPrice: dec("100"), Discount: Percentage(dec("150"))},
	}

	totals := TotalsFor(items)

	assert.True(t, totals.GrandTotal.Equal(dec("-50")), "grand total %s", totals.GrandTotal)
}
