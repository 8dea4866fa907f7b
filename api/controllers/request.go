package controllers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheetbooks/sheetbooks-backend/internal/ledger"
	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
)

type moneyRequest struct {
	Kind  string      `json:"kind" validate:"required,oneof=percentage fixed"`
	Value json.Number `json:"value" validate:"required"`
}

type customerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
}

type lineItemRequest struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description,omitempty"`
	Quantity    int           `json:"quantity" validate:"min=0"`
	Price       json.Number   `json:"price" validate:"required"`
	Discount    *moneyRequest `json:"discount,omitempty"`
	Tax         *moneyRequest `json:"tax,omitempty"`
}

type saveRecordRequest struct {
	SheetURL        string            `json:"sheet_url" validate:"required"`
	SheetTab        string            `json:"sheet_tab,omitempty"`
	ID              string            `json:"id,omitempty"`
	IssueDate       string            `json:"issue_date" validate:"required"`
	DueDate         string            `json:"due_date,omitempty"`
	Customer        customerRequest   `json:"customer" validate:"required"`
	Items           []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxSummary      *moneyRequest     `json:"tax_summary,omitempty"`
	DiscountSummary *moneyRequest     `json:"discount_summary,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	TemplateID      string            `json:"template_id,omitempty"`
	Status          string            `json:"status,omitempty"`
	ColorHint       string            `json:"color_hint,omitempty"`
}

type setStatusRequest struct {
	SheetURL string `json:"sheet_url" validate:"required"`
	SheetTab string `json:"sheet_tab,omitempty"`
	Status   string `json:"status" validate:"required"`
}

type previewRequest struct {
	Items []lineItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (req saveRecordRequest) toRecord() (ledger.Record, error) {
	issueDate, err := parseDateField("issue_date", req.IssueDate)
	if err != nil {
		return ledger.Record{}, err
	}
	dueDate, err := parseDateField("due_date", req.DueDate)
	if err != nil {
		return ledger.Record{}, err
	}

	items, err := toLineItems(req.Items)
	if err != nil {
		return ledger.Record{}, err
	}

	taxSummary, err := toMoney("tax_summary", req.TaxSummary)
	if err != nil {
		return ledger.Record{}, err
	}
	discountSummary, err := toMoney("discount_summary", req.DiscountSummary)
	if err != nil {
		return ledger.Record{}, err
	}

	return ledger.Record{
		ID:        strings.TrimSpace(req.ID),
		IssueDate: issueDate,
		DueDate:   dueDate,
		Customer: ledger.Party{
			Name:    strings.TrimSpace(req.Customer.Name),
			Email:   strings.TrimSpace(req.Customer.Email),
			Address: strings.TrimSpace(req.Customer.Address),
		},
		Items:           items,
		TaxSummary:      taxSummary,
		DiscountSummary: discountSummary,
		Notes:           req.Notes,
		TemplateID:      strings.TrimSpace(req.TemplateID),
		Status:          strings.TrimSpace(req.Status),
		ColorHint:       strings.TrimSpace(req.ColorHint),
	}, nil
}

func toLineItems(reqs []lineItemRequest) ([]ledger.LineItem, error) {
	items := make([]ledger.LineItem, 0, len(reqs))
	for i, item := range reqs {
		price, err := parseDecimalField("price", i, item.Price)
		if err != nil {
			return nil, err
		}
		discount, err := toItemMoney("discount", i, item.Discount)
		if err != nil {
			return nil, err
		}
		tax, err := toItemMoney("tax", i, item.Tax)
		if err != nil {
			return nil, err
		}
		items = append(items, ledger.LineItem{
			Name:        strings.TrimSpace(item.Name),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   price,
			Discount:    discount,
			Tax:         tax,
		})
	}
	return items, nil
}

func toMoney(field string, req *moneyRequest) (ledger.Money, error) {
	if req == nil {
		return ledger.UnsetMoney(enums.MoneyKindPercentage), nil
	}
	kind, err := enums.ParseMoneyKind(strings.TrimSpace(req.Kind))
	if err != nil {
		return ledger.Money{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid money kind").
			WithDetails(map[string]any{"field": field})
	}
	value, err := decimal.NewFromString(req.Value.String())
	if err != nil {
		return ledger.Money{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid money value").
			WithDetails(map[string]any{"field": field})
	}
	return ledger.Money{Kind: kind, Value: value, Set: true}, nil
}

func toItemMoney(field string, index int, req *moneyRequest) (ledger.Money, error) {
	money, err := toMoney(field, req)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return ledger.Money{}, typed.WithDetails(map[string]any{"field": field, "item": index})
		}
		return ledger.Money{}, err
	}
	return money, nil
}

func parseDateField(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(ledger.DateLayout, value)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date").
			WithDetails(map[string]any{"field": field, "layout": ledger.DateLayout})
	}
	return parsed, nil
}

func parseDecimalField(field string, index int, value json.Number) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(value.String())
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount").
			WithDetails(map[string]any{"field": field, "item": index})
	}
	return parsed, nil
}
