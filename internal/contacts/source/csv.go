package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"contactnorm/pkg/model"
)

type CSVReader struct {
	r         io.Reader
	delimiter rune
}

func NewCSVReader(r io.Reader, delimiter rune) *CSVReader {
	if delimiter == 0 {
		delimiter = ';'
	}
	return &CSVReader{r: r, delimiter: delimiter}
}

// Read expects a header row. Records may be shorter or longer than the
// header. Empty lines are skipped but a line of empty fields is a record.
func (c *CSVReader) Read(ctx context.Context) ([]model.RawContact, error) {
	reader := csv.NewReader(c.r)
	reader.Comma = c.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var contacts []model.RawContact
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record %d: %w", len(contacts)+1, err)
		}
		contacts = append(contacts, cols.contact(record, len(contacts)+1))
	}

	return contacts, nil
}
