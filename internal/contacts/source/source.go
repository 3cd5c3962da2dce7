package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contactnorm/pkg/model"
	"contactnorm/pkg/sanitizer"
)

const (
	ColumnID    = "id"
	ColumnPhone = "phone"
	ColumnDOB   = "dob"
)

var (
	ErrMissingHeader   = errors.New("missing header row")
	ErrNoKnownColumns  = errors.New("header has none of the id, phone, dob columns")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoSheets        = errors.New("no sheets found in workbook")
)

// Reader yields every data record of a source in order.
type Reader interface {
	Read(ctx context.Context) ([]model.RawContact, error)
}

// ReadFile picks the reader by extension: .xlsx is read as a workbook and
// anything else as delimited text.
func ReadFile(ctx context.Context, path string, delimiter rune) ([]model.RawContact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r Reader
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		r = NewXLSXReader(f, "")
	case ".xls":
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	default:
		r = NewCSVReader(f, delimiter)
	}

	contacts, err := r.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return contacts, nil
}

// columns maps the known columns to their index in a header row. Unknown
// columns are ignored; a known column missing from the header reads as "".
type columns struct {
	id, phone, dob int
}

func parseHeader(header []string) (columns, error) {
	cols := columns{id: -1, phone: -1, dob: -1}
	for i, name := range header {
		switch sanitizer.HeaderName(name) {
		case ColumnID:
			if cols.id < 0 {
				cols.id = i
			}
		case ColumnPhone:
			if cols.phone < 0 {
				cols.phone = i
			}
		case ColumnDOB:
			if cols.dob < 0 {
				cols.dob = i
			}
		}
	}
	if cols.id < 0 && cols.phone < 0 && cols.dob < 0 {
		return cols, ErrNoKnownColumns
	}
	return cols, nil
}

func (c columns) contact(record []string, row int) model.RawContact {
	return model.RawContact{
		ID:    field(record, c.id),
		Phone: field(record, c.phone),
		DOB:   field(record, c.dob),
		Row:   row,
	}
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
