// Package sheets keeps client records in a spreadsheet. Rows are addressed
// purely by position: finding a record by id scans every row.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pysugar/channel-onboard/internal/logging"
)

var (
	ErrStoreRead      = errors.New("failed to read client records")
	ErrStoreWrite     = errors.New("failed to write client record")
	ErrRecordNotFound = errors.New("client record not found")
)

// RecordStore is what the rest of the service knows about client storage.
type RecordStore interface {
	AppendRecord(ctx context.Context, rec ClientRecord) error
	FetchAllRecords(ctx context.Context) ([]ClientRecord, error)
	FetchRecordByID(ctx context.Context, id string) (ClientRecord, bool, error)
	UpdateRecordFields(ctx context.Context, id string, fields Fields) error
}

// ValuesAPI is the subset of the spreadsheet values API the store needs.
// Ranges use A1 notation, e.g. "Clients!P7".
type ValuesAPI interface {
	Append(ctx context.Context, rng string, rows [][]interface{}) error
	Get(ctx context.Context, rng string) ([][]interface{}, error)
	Update(ctx context.Context, rng string, rows [][]interface{}) error
}

// SheetStore implements RecordStore over one sheet. Nothing is cached:
// every read goes to the remote sheet.
type SheetStore struct {
	values ValuesAPI
	sheet  string
}

var _ RecordStore = (*SheetStore)(nil)

func NewSheetStore(values ValuesAPI, sheetName string) *SheetStore {
	if sheetName == "" {
		sheetName = "Clients"
	}
	return &SheetStore{values: values, sheet: sheetName}
}

// AppendRecord writes the record as a new row. Id uniqueness is the
// caller's job.
func (s *SheetStore) AppendRecord(ctx context.Context, rec ClientRecord) error {
	last := columnLetter(appendWidth - 1)
	if err := s.values.Append(ctx, s.rangeOf("A:"+last), [][]interface{}{rec.row()}); err != nil {
		logging.Printf(ctx, "❌ Error adding client %s to sheet: %v", rec.ID, err)
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	logging.Printf(ctx, "✅ Client %s added to sheet", rec.ID)
	return nil
}

// FetchAllRecords reads every data row below the header. Blank rows are
// skipped.
func (s *SheetStore) FetchAllRecords(ctx context.Context) ([]ClientRecord, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]ClientRecord, 0, len(rows))
	for _, row := range rows {
		rec := recordFromRow(row)
		if rec.ID == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchRecordByID scans all rows. A missing id is reported through ok, not
// as an error.
func (s *SheetStore) FetchRecordByID(ctx context.Context, id string) (ClientRecord, bool, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return ClientRecord{}, false, err
	}
	if i := indexOf(rows, id); i >= 0 {
		return recordFromRow(rows[i]), true, nil
	}
	return ClientRecord{}, false, nil
}

// UpdateRecordFields writes each known field with its own cell update, in
// column order. Unknown fields are skipped. The updates are not atomic: the
// first failing write stops the sequence and earlier writes stay applied.
func (s *SheetStore) UpdateRecordFields(ctx context.Context, id string, fields Fields) error {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return err
	}
	i := indexOf(rows, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	rowNumber := i + 2 // header row + 1-based rows

	type cellWrite struct {
		field  Field
		column int
		value  string
	}
	writes := make([]cellWrite, 0, len(fields))
	for f, v := range fields {
		col, ok := columnIndex[f]
		if !ok {
			logging.Printf(ctx, "⚠️ Ignoring unknown client field %q", f)
			continue
		}
		writes = append(writes, cellWrite{field: f, column: col, value: v})
	}
	sort.Slice(writes, func(a, b int) bool { return writes[a].column < writes[b].column })

	for _, w := range writes {
		cell := fmt.Sprintf("%s%d", columnLetter(w.column), rowNumber)
		if err := s.values.Update(ctx, s.rangeOf(cell), [][]interface{}{{w.value}}); err != nil {
			logging.Printf(ctx, "❌ Error updating %s of client %s: %v", w.field, id, err)
			return fmt.Errorf("%w: %s of %s: %v", ErrStoreWrite, w.field, id, err)
		}
	}
	logging.Printf(ctx, "✅ Updated %d field(s) of client %s", len(writes), id)
	return nil
}

func (s *SheetStore) fetchRows(ctx context.Context) ([][]interface{}, error) {
	last := columnLetter(len(columnOrder) - 1)
	rows, err := s.values.Get(ctx, s.rangeOf("A2:"+last))
	if err != nil {
		logging.Printf(ctx, "❌ Error reading clients from sheet: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return rows, nil
}

func (s *SheetStore) rangeOf(cells string) string {
	return quoteSheet(s.sheet) + "!" + cells
}

// quoteSheet wraps sheet names that A1 notation cannot take bare.
func quoteSheet(name string) string {
	for _, r := range name {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return "'" + strings.ReplaceAll(name, "'", "''") + "'"
		}
	}
	return name
}

func indexOf(rows [][]interface{}, id string) int {
	if id == "" {
		return -1
	}
	for i, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == id {
			return i
		}
	}
	return -1
}
