package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"contactnorm/pkg/model"

	"github.com/xuri/excelize/v2"
)

type XLSXReader struct {
	r     io.Reader
	sheet string
}

// NewXLSXReader reads sheet, or the first sheet of the workbook when sheet
// is empty or absent.
func NewXLSXReader(r io.Reader, sheet string) *XLSXReader {
	return &XLSXReader{r: r, sheet: sheet}
}

func (x *XLSXReader) Read(ctx context.Context) ([]model.RawContact, error) {
	f, err := excelize.OpenReader(x.r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	sheetName := sheets[0]
	for _, name := range sheets {
		if x.sheet != "" && strings.EqualFold(name, x.sheet) {
			sheetName = name
			break
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}

	cols, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var contacts []model.RawContact
	for _, record := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blank(record) {
			continue
		}
		contacts = append(contacts, cols.contact(record, len(contacts)+1))
	}

	return contacts, nil
}
