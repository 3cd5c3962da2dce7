package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"contactnorm/pkg/model"
)

const DefaultOutputName = "normalized_contacts.csv"

var (
	contactHeader   = []string{"id", "phone", "dob"}
	rejectionHeader = []string{"id", "row", "reason"}
)

// DefaultOutputPath places the output next to input.
func DefaultOutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), DefaultOutputName)
}

// CSVFile writes contacts to ContactsPath and, when RejectsPath is set,
// rejections to RejectsPath. Files are truncated on every write.
type CSVFile struct {
	ContactsPath string
	RejectsPath  string
	Delimiter    rune
}

func (f CSVFile) WriteContacts(ctx context.Context, contacts []model.Contact) error {
	if f.ContactsPath == "" {
		return nil
	}
	return writeFile(f.ContactsPath, func(w io.Writer) error {
		return WriteContactsCSV(ctx, w, f.Delimiter, contacts)
	})
}

func (f CSVFile) WriteRejections(ctx context.Context, rejections []model.Rejection) error {
	if f.RejectsPath == "" {
		return nil
	}
	return writeFile(f.RejectsPath, func(w io.Writer) error {
		return WriteRejectionsCSV(ctx, w, f.Delimiter, rejections)
	})
}

func WriteContactsCSV(ctx context.Context, w io.Writer, delimiter rune, contacts []model.Contact) error {
	cw := newWriter(w, delimiter)
	if err := cw.Write(contactHeader); err != nil {
		return err
	}
	for _, c := range contacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write([]string{c.ID, c.Phone, c.DOB}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteRejectionsCSV(ctx context.Context, w io.Writer, delimiter rune, rejections []model.Rejection) error {
	cw := newWriter(w, delimiter)
	if err := cw.Write(rejectionHeader); err != nil {
		return err
	}
	for _, r := range rejections {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write([]string{r.ID, strconv.Itoa(r.Row), r.Reason}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func newWriter(w io.Writer, delimiter rune) *csv.Writer {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	} else {
		cw.Comma = ';'
	}
	return cw
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
