package ledger

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
)

// RowWidth is the fixed cell count of a ledger row.
const RowWidth = 13

// Column positions inside a row. The store has no column names, so
// this order is the schema.
const (
	colID = iota
	colIssueDate
	colDueDate
	colCustomerName
	colCustomerEmail
	colCustomerAddress
	colItems
	colTotal
	colTaxSummary
	colDiscountSummary
	colNotes
	colTemplateID
	colStatus
)

// StatusColumn is the A1 letter of the status cell, used by the
// narrow status update.
const StatusColumn = "M"

// IDColumn is the A1 letter of the id cell.
const IDColumn = "A"

// Row is the positional string representation a tab understands.
type Row [RowWidth]string

// Codec maps records to rows and back. Decoding is defensive: it never
// fails, it substitutes defaults for malformed cells and reports which
// fields fell back so callers can log data-quality issues.
type Codec struct {
	kind          enums.RecordKind
	defaultStatus string
}

// NewCodec builds a codec for one record kind.
func NewCodec(kind enums.RecordKind) *Codec {
	return &Codec{
		kind:          kind,
		defaultStatus: NewStatusMachine(kind).DefaultStatus(),
	}
}

type moneyWire struct {
	Kind  string      `json:"kind"`
	Value json.Number `json:"value"`
}

type lineItemWire struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	Price       json.Number `json:"price"`
	Discount    any         `json:"discount"`
	Tax         any         `json:"tax"`
}

// Encode serializes a record into its row. The total cell carries the
// grand total formatted to two decimal places.
func (c *Codec) Encode(record Record) Row {
	var row Row
	row[colID] = record.ID
	row[colIssueDate] = formatDate(record.IssueDate)
	row[colDueDate] = formatDate(record.DueDate)
	row[colCustomerName] = record.Customer.Name
	row[colCustomerEmail] = record.Customer.Email
	row[colCustomerAddress] = record.Customer.Address
	row[colItems] = encodeItems(record.Items)
	row[colTotal] = record.Total.StringFixed(2)
	row[colTaxSummary] = encodeMoney(record.TaxSummary)
	row[colDiscountSummary] = encodeMoney(record.DiscountSummary)
	row[colNotes] = record.Notes
	row[colTemplateID] = record.TemplateID
	row[colStatus] = record.Status
	return row
}

// Decode reassembles a record from raw cells. Cells arrive as any
// because legacy writers sometimes stored the JSON fields as plain
// objects instead of serialized strings; both forms are accepted.
// Missing trailing cells are treated as blank.
func (c *Codec) Decode(cells []any) (Record, []string) {
	var warnings []string
	warn := func(field string) {
		warnings = append(warnings, field)
	}

	record := Record{Kind: c.kind}
	record.ID = strings.TrimSpace(cellText(at(cells, colID)))

	var ok bool
	if record.IssueDate, ok = parseDate(cellText(at(cells, colIssueDate))); !ok {
		warn("issue_date")
	}
	if record.DueDate, ok = parseDate(cellText(at(cells, colDueDate))); !ok {
		warn("due_date")
	}

	record.Customer = Party{
		Name:    cellText(at(cells, colCustomerName)),
		Email:   cellText(at(cells, colCustomerEmail)),
		Address: cellText(at(cells, colCustomerAddress)),
	}

	if record.Items, ok = decodeItems(at(cells, colItems)); !ok {
		warn("items")
	}

	if record.TaxSummary, ok = decodeMoney(at(cells, colTaxSummary)); !ok {
		warn("tax_summary")
	}
	if record.DiscountSummary, ok = decodeMoney(at(cells, colDiscountSummary)); !ok {
		warn("discount_summary")
	}

	totalText := strings.TrimSpace(cellText(at(cells, colTotal)))
	if total, err := decimal.NewFromString(totalText); err == nil {
		record.Total = total
	} else {
		record.Total = TotalsFor(record.Items).GrandTotal
		warn("total")
	}

	record.Notes = cellText(at(cells, colNotes))
	record.TemplateID = cellText(at(cells, colTemplateID))

	record.Status = strings.TrimSpace(cellText(at(cells, colStatus)))
	if record.Status == "" {
		record.Status = c.defaultStatus
		warn("status")
	}

	return record, warnings
}

// DecodeRow adapts a stored row for Decode.
func (c *Codec) DecodeRow(row Row) (Record, []string) {
	cells := make([]any, RowWidth)
	for i, cell := range row {
		cells[i] = cell
	}
	return c.Decode(cells)
}

func encodeItems(items []LineItem) string {
	wires := make([]lineItemWire, len(items))
	for i, item := range items {
		wires[i] = lineItemWire{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    json.Number(strconv.Itoa(item.Quantity)),
			Price:       json.Number(item.UnitPrice.String()),
			Discount:    json.RawMessage(encodeMoney(item.Discount)),
			Tax:         json.RawMessage(encodeMoney(item.Tax)),
		}
	}
	data, err := json.Marshal(wires)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeItems tolerates a serialized string, an already-decoded array,
// or garbage. A missing or unusable cell falls back to a single blank
// line item so the record always has somewhere to type.
func decodeItems(cell any) ([]LineItem, bool) {
	raw, ok := jsonBytes(cell)
	if !ok {
		return []LineItem{{}}, false
	}

	var wires []lineItemWire
	if err := json.Unmarshal(raw, &wires); err != nil || len(wires) == 0 {
		return []LineItem{{}}, false
	}

	items := make([]LineItem, len(wires))
	for i, wire := range wires {
		quantity := 0
		if q, err := wire.Quantity.Int64(); err == nil && q > 0 {
			quantity = int(q)
		}
		price := decimal.Zero
		if p, err := decimal.NewFromString(wire.Price.String()); err == nil && !p.IsNegative() {
			price = p
		}
		discount, _ := decodeMoney(wire.Discount)
		tax, _ := decodeMoney(wire.Tax)
		items[i] = LineItem{
			Name:        wire.Name,
			Description: wire.Description,
			Quantity:    quantity,
			UnitPrice:   price,
			Discount:    discount,
			Tax:         tax,
		}
	}
	return items, true
}

func encodeMoney(m Money) string {
	kind := m.Kind
	if !kind.IsValid() {
		kind = enums.MoneyKindPercentage
	}
	wire := moneyWire{
		Kind:  string(kind),
		Value: json.Number(m.Amount().String()),
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return `{"kind":"percentage","value":0}`
	}
	return string(data)
}

// decodeMoney coerces a money cell into the typed union. An unknown
// kind falls back to percentage. A value of exactly 0 becomes the
// unset sentinel: the legacy writer stored 0 for a cleared field, and
// reading it back as a hard 0 would erase a value the user is
// mid-typing. Negative values are also treated as unset.
func decodeMoney(cell any) (Money, bool) {
	raw, ok := jsonBytes(cell)
	if !ok {
		return UnsetMoney(enums.MoneyKindPercentage), false
	}

	var wire moneyWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return UnsetMoney(enums.MoneyKindPercentage), false
	}

	kind, err := enums.ParseMoneyKind(strings.TrimSpace(wire.Kind))
	if err != nil {
		kind = enums.MoneyKindPercentage
	}

	value, err := decimal.NewFromString(wire.Value.String())
	if err != nil || value.LessThanOrEqual(decimal.Zero) {
		return UnsetMoney(kind), true
	}
	return Money{Kind: kind, Value: value, Set: true}, true
}

// jsonBytes normalizes a cell into raw JSON. Strings are taken as
// serialized JSON; anything already decoded (map, slice, number) is
// re-marshaled and accepted directly.
func jsonBytes(cell any) ([]byte, bool) {
	switch value := cell.(type) {
	case nil:
		return nil, false
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, false
		}
		if !json.Valid([]byte(trimmed)) {
			return nil, false
		}
		return []byte(trimmed), true
	case json.RawMessage:
		if len(value) == 0 || !json.Valid(value) {
			return nil, false
		}
		return value, true
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, false
		}
		return data, true
	}
}

func cellText(cell any) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	data, err := json.Marshal(cell)
	if err != nil {
		return ""
	}
	return strings.Trim(string(data), `"`)
}

func at(cells []any, index int) any {
	if index < 0 || index >= len(cells) {
		return nil
	}
	return cells[index]
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func parseDate(text string) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
