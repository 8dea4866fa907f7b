package controllers

import (
	"time"

	"github.com/sheetbooks/sheetbooks-backend/internal/ledger"
)

type moneyResponse struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type customerResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type lineItemResponse struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Quantity    int            `json:"quantity"`
	Price       string         `json:"price"`
	Discount    *moneyResponse `json:"discount,omitempty"`
	Tax         *moneyResponse `json:"tax,omitempty"`
}

type totalsResponse struct {
	Subtotal   string `json:"subtotal"`
	Discount   string `json:"discount"`
	Tax        string `json:"tax"`
	GrandTotal string `json:"grand_total"`
}

type recordResponse struct {
	ID              string             `json:"id"`
	Kind            string             `json:"kind"`
	IssueDate       string             `json:"issue_date,omitempty"`
	DueDate         string             `json:"due_date,omitempty"`
	Customer        customerResponse   `json:"customer"`
	Items           []lineItemResponse `json:"items"`
	Totals          totalsResponse     `json:"totals"`
	TaxSummary      *moneyResponse     `json:"tax_summary,omitempty"`
	DiscountSummary *moneyResponse     `json:"discount_summary,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	TemplateID      string             `json:"template_id,omitempty"`
	Status          string             `json:"status"`
	ColorHint       string             `json:"color_hint,omitempty"`
	Warnings        []string           `json:"warnings,omitempty"`
}

func toRecordResponse(result *ledger.RecordResult) recordResponse {
	record := result.Record

	items := make([]lineItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, lineItemResponse{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice.String(),
			Discount:    toMoneyResponse(item.Discount),
			Tax:         toMoneyResponse(item.Tax),
		})
	}

	return recordResponse{
		ID:        record.ID,
		Kind:      record.Kind.String(),
		IssueDate: formatDate(record.IssueDate),
		DueDate:   formatDate(record.DueDate),
		Customer: customerResponse{
			Name:    record.Customer.Name,
			Email:   record.Customer.Email,
			Address: record.Customer.Address,
		},
		Items:           items,
		Totals:          toTotalsResponse(result.Totals),
		TaxSummary:      toMoneyResponse(record.TaxSummary),
		DiscountSummary: toMoneyResponse(record.DiscountSummary),
		Notes:           record.Notes,
		TemplateID:      record.TemplateID,
		Status:          record.Status,
		ColorHint:       record.ColorHint,
		Warnings:        result.Warnings,
	}
}

func toTotalsResponse(totals ledger.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:   totals.Subtotal.StringFixed(2),
		Discount:   totals.Discount.StringFixed(2),
		Tax:        totals.Tax.StringFixed(2),
		GrandTotal: totals.GrandTotal.StringFixed(2),
	}
}

func toMoneyResponse(m ledger.Money) *moneyResponse {
	if m.IsUnset() {
		return nil
	}
	return &moneyResponse{Kind: m.Kind.String(), Value: m.Value.String()}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ledger.DateLayout)
}
