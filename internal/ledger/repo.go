package ledger

import (
	"context"
	"strings"

	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
	"github.com/sheetbooks/sheetbooks-backend/pkg/sheets"
)

// RowStore is the slice of the Sheets client the repository needs.
type RowStore interface {
	ReadRows(ctx context.Context, tab sheets.Tab, width int) ([][]string, error)
	ReadColumn(ctx context.Context, tab sheets.Tab, col string) ([]string, error)
	ReadCell(ctx context.Context, tab sheets.Tab, col string, rowIndex int) (string, error)
	AppendRow(ctx context.Context, tab sheets.Tab, cells []string) error
	OverwriteRow(ctx context.Context, tab sheets.Tab, rowIndex int, cells []string) error
	UpdateCell(ctx context.Context, tab sheets.Tab, col string, rowIndex int, value string) error
	DeleteRow(ctx context.Context, tab sheets.Tab, rowIndex int) error
}

// Repository runs CRUD against one tab. The store has no index, so
// every operation resolves the id by scanning the id column at call
// time; row numbers are never trusted across calls because deletes
// shift them.
type Repository interface {
	Create(ctx context.Context, tab sheets.Tab, record Record) error
	FindByID(ctx context.Context, tab sheets.Tab, id string) (Record, []string, error)
	Update(ctx context.Context, tab sheets.Tab, id string, record Record) error
	Delete(ctx context.Context, tab sheets.Tab, id string) error
	SetStatus(ctx context.Context, tab sheets.Tab, id, status string) error
}

type repository struct {
	store   RowStore
	codec   *Codec
	machine StatusMachine
}

// NewRepository binds a repository to a row store for one record kind.
func NewRepository(store RowStore, codec *Codec, machine StatusMachine) Repository {
	return &repository{store: store, codec: codec, machine: machine}
}

func (r *repository) Create(ctx context.Context, tab sheets.Tab, record Record) error {
	ids, err := r.store.ReadColumn(ctx, tab, IDColumn)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if strings.TrimSpace(existing) == record.ID {
			return pkgerrors.New(pkgerrors.CodeConflict, "record id already exists").
				WithDetails(map[string]any{"id": record.ID})
		}
	}
	row := r.codec.Encode(record)
	return r.store.AppendRow(ctx, tab, row[:])
}

func (r *repository) FindByID(ctx context.Context, tab sheets.Tab, id string) (Record, []string, error) {
	rows, err := r.store.ReadRows(ctx, tab, RowWidth)
	if err != nil {
		return Record{}, nil, err
	}
	for _, cells := range rows {
		if strings.TrimSpace(cells[colID]) != id {
			continue
		}
		var row Row
		copy(row[:], cells)
		record, warnings := r.codec.DecodeRow(row)
		return record, warnings, nil
	}
	return Record{}, nil, notFound(id)
}

func (r *repository) Update(ctx context.Context, tab sheets.Tab, id string, record Record) error {
	index, err := r.locate(ctx, tab, id)
	if err != nil {
		return err
	}
	if err := r.verifyRow(ctx, tab, index, id); err != nil {
		return err
	}
	row := r.codec.Encode(record)
	return r.store.OverwriteRow(ctx, tab, index, row[:])
}

func (r *repository) Delete(ctx context.Context, tab sheets.Tab, id string) error {
	index, err := r.locate(ctx, tab, id)
	if err != nil {
		return err
	}
	if err := r.verifyRow(ctx, tab, index, id); err != nil {
		return err
	}
	return r.store.DeleteRow(ctx, tab, index)
}

func (r *repository) SetStatus(ctx context.Context, tab sheets.Tab, id, status string) error {
	index, err := r.locate(ctx, tab, id)
	if err != nil {
		return err
	}
	current, err := r.store.ReadCell(ctx, tab, StatusColumn, index)
	if err != nil {
		return err
	}
	if err := r.machine.Validate(strings.TrimSpace(current), status); err != nil {
		return err
	}
	if err := r.verifyRow(ctx, tab, index, id); err != nil {
		return err
	}
	return r.store.UpdateCell(ctx, tab, StatusColumn, index, status)
}

// locate resolves an id to its current zero-based row index.
func (r *repository) locate(ctx context.Context, tab sheets.Tab, id string) (int, error) {
	ids, err := r.store.ReadColumn(ctx, tab, IDColumn)
	if err != nil {
		return 0, err
	}
	for index, existing := range ids {
		if strings.TrimSpace(existing) == id {
			return index, nil
		}
	}
	return 0, notFound(id)
}

// verifyRow re-reads the id cell immediately before a write. A
// concurrent delete or insert shifts row indices, and a stale index
// would silently hit an unrelated row; aborting on mismatch narrows
// the race to the gap between this read and the write, which is the
// best the Sheets API offers without compare-and-swap.
func (r *repository) verifyRow(ctx context.Context, tab sheets.Tab, index int, id string) error {
	actual, err := r.store.ReadCell(ctx, tab, IDColumn, index)
	if err != nil {
		return err
	}
	if strings.TrimSpace(actual) != id {
		return pkgerrors.New(pkgerrors.CodeConcurrentModification, "row moved during write").
			WithDetails(map[string]any{"id": id, "found": strings.TrimSpace(actual)})
	}
	return nil
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "record not found").
		WithDetails(map[string]any{"id": id})
}
