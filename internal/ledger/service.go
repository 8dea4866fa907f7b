package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
	"github.com/sheetbooks/sheetbooks-backend/pkg/logger"
	"github.com/sheetbooks/sheetbooks-backend/pkg/sheets"
)

// Store is the per-request Sheets access the service needs: row
// operations plus tab resolution.
type Store interface {
	RowStore
	ResolveTab(ctx context.Context, spreadsheetID, title string) (sheets.Tab, error)
}

// StoreFactory builds a Store from the caller's access token. Sheets
// access always runs under the caller's own credential, so a fresh
// client is constructed per request.
type StoreFactory func(ctx context.Context, accessToken string) (Store, error)

// SheetRef points one request at a tab: the user-supplied spreadsheet
// URL, an optional tab title override, and the pass-through credential.
type SheetRef struct {
	SheetURL    string
	TabTitle    string
	AccessToken string
}

// SaveInput carries a new record.
type SaveInput struct {
	Ref    SheetRef
	Record Record
}

// UpdateInput carries a full replacement record for an existing id.
type UpdateInput struct {
	Ref    SheetRef
	ID     string
	Record Record
}

// RecordResult pairs a record with its computed totals and any decode
// fallbacks observed while reading it.
type RecordResult struct {
	Record   Record
	Totals   Totals
	Warnings []string
}

// Service exposes the ledger operations for one record kind.
type Service interface {
	Save(ctx context.Context, input SaveInput) (*RecordResult, error)
	Get(ctx context.Context, ref SheetRef, id string) (*RecordResult, error)
	Update(ctx context.Context, input UpdateInput) (*RecordResult, error)
	Delete(ctx context.Context, ref SheetRef, id string) error
	SetStatus(ctx context.Context, ref SheetRef, id, status string) error
	Preview(items []LineItem) Totals
}

type service struct {
	stores   StoreFactory
	kind     enums.RecordKind
	codec    *Codec
	machine  StatusMachine
	tabTitle string
	idPrefix string
	logg     *logger.Logger
}

// ServiceParams wires a ledger service.
type ServiceParams struct {
	Stores          StoreFactory
	Kind            enums.RecordKind
	DefaultTabTitle string
	IDPrefix        string
	Logger          *logger.Logger
}

// NewService builds the service for one record kind.
func NewService(params ServiceParams) (Service, error) {
	if params.Stores == nil {
		return nil, fmt.Errorf("store factory required")
	}
	if !params.Kind.IsValid() {
		return nil, fmt.Errorf("invalid record kind %q", params.Kind)
	}
	if params.DefaultTabTitle == "" {
		return nil, fmt.Errorf("default tab title required")
	}
	if params.IDPrefix == "" {
		return nil, fmt.Errorf("id prefix required")
	}
	return &service{
		stores:   params.Stores,
		kind:     params.Kind,
		codec:    NewCodec(params.Kind),
		machine:  NewStatusMachine(params.Kind),
		tabTitle: params.DefaultTabTitle,
		idPrefix: params.IDPrefix,
		logg:     params.Logger,
	}, nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (*RecordResult, error) {
	record := input.Record
	record.Kind = s.kind

	if err := s.validateRecord(record); err != nil {
		return nil, err
	}

	if strings.TrimSpace(record.ID) == "" {
		record.ID = s.generateID()
	}

	if record.Status == "" {
		record.Status = s.machine.DefaultStatus()
	} else if !s.machine.IsKnown(record.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status").
			WithDetails(map[string]any{"status": record.Status})
	}

	totals := TotalsFor(record.Items)
	record.Total = totals.GrandTotal

	ctx, repo, tab, err := s.open(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	s.warnIfNegative(ctx, record.ID, totals)
	if err := repo.Create(ctx, tab, record); err != nil {
		return nil, err
	}
	return &RecordResult{Record: record, Totals: totals}, nil
}

func (s *service) Get(ctx context.Context, ref SheetRef, id string) (*RecordResult, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	ctx, repo, tab, err := s.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	record, warnings, err := repo.FindByID(ctx, tab, id)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 && s.logg != nil {
		lctx := s.logg.WithRecordID(ctx, id)
		lctx = s.logg.WithField(lctx, "fields", warnings)
		s.logg.Warn(lctx, "ledger.decode_fallback")
	}
	return &RecordResult{
		Record:   record,
		Totals:   TotalsFor(record.Items),
		Warnings: warnings,
	}, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*RecordResult, error) {
	if err := requireID(input.ID); err != nil {
		return nil, err
	}
	record := input.Record
	record.Kind = s.kind
	record.ID = input.ID

	if err := s.validateRecord(record); err != nil {
		return nil, err
	}
	if record.Status != "" && !s.machine.IsKnown(record.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status").
			WithDetails(map[string]any{"status": record.Status})
	}
	if record.Status == "" {
		record.Status = s.machine.DefaultStatus()
	}

	totals := TotalsFor(record.Items)
	record.Total = totals.GrandTotal

	ctx, repo, tab, err := s.open(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	s.warnIfNegative(ctx, record.ID, totals)
	if err := repo.Update(ctx, tab, input.ID, record); err != nil {
		return nil, err
	}
	return &RecordResult{Record: record, Totals: totals}, nil
}

func (s *service) Delete(ctx context.Context, ref SheetRef, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	ctx, repo, tab, err := s.open(ctx, ref)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, tab, id)
}

func (s *service) SetStatus(ctx context.Context, ref SheetRef, id, status string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if strings.TrimSpace(status) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "status required")
	}
	ctx, repo, tab, err := s.open(ctx, ref)
	if err != nil {
		return err
	}
	return repo.SetStatus(ctx, tab, id, status)
}

func (s *service) Preview(items []LineItem) Totals {
	return TotalsFor(items)
}

// open resolves a sheet reference into a repository bound to its tab.
// The returned context carries the spreadsheet id for any logging that
// follows.
func (s *service) open(ctx context.Context, ref SheetRef) (context.Context, Repository, sheets.Tab, error) {
	spreadsheetID, err := sheets.ExtractSpreadsheetID(ref.SheetURL)
	if err != nil {
		return ctx, nil, sheets.Tab{}, err
	}
	if s.logg != nil {
		ctx = s.logg.WithSpreadsheetID(ctx, spreadsheetID)
	}
	store, err := s.stores(ctx, ref.AccessToken)
	if err != nil {
		return ctx, nil, sheets.Tab{}, err
	}
	title := ref.TabTitle
	if title == "" {
		title = s.tabTitle
	}
	tab, err := store.ResolveTab(ctx, spreadsheetID, title)
	if err != nil {
		return ctx, nil, sheets.Tab{}, err
	}
	return ctx, NewRepository(store, s.codec, s.machine), tab, nil
}

func (s *service) validateRecord(record Record) error {
	for i, item := range record.Items {
		if item.Quantity < 0 {
			return itemError(i, "quantity must not be negative")
		}
		if item.UnitPrice.IsNegative() {
			return itemError(i, "unit price must not be negative")
		}
		if item.Discount.Set && item.Discount.Value.IsNegative() {
			return itemError(i, "discount must not be negative")
		}
		if item.Tax.Set && item.Tax.Value.IsNegative() {
			return itemError(i, "tax must not be negative")
		}
	}
	return nil
}

func (s *service) warnIfNegative(ctx context.Context, id string, totals Totals) {
	if s.logg == nil || !totals.GrandTotal.IsNegative() {
		return
	}
	lctx := s.logg.WithRecordID(ctx, id)
	lctx = s.logg.WithField(lctx, "grand_total", totals.GrandTotal.String())
	s.logg.Warn(lctx, "ledger.negative_total")
}

func (s *service) generateID() string {
	return fmt.Sprintf("%s-%s", s.idPrefix, strings.ToUpper(uuid.NewString()[:8]))
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}
	return nil
}

func itemError(index int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"item": index})
}
