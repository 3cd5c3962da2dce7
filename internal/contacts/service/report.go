package service

import (
	"fmt"
	"io"
)

// WriteReport prints the batch summary followed by up to limit skipped
// records. A non-positive limit prints no issue lines.
func WriteReport(w io.Writer, res *Result, limit int) error {
	if _, err := fmt.Fprintf(w, "Processed: %d\nNormalized: %d\nSkipped: %d\n",
		res.Processed, res.Normalized, res.Skipped); err != nil {
		return err
	}
	if res.Skipped == 0 || limit <= 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "First issues:"); err != nil {
		return err
	}
	printed := 0
	for _, o := range res.Outcomes {
		if o.Rejection == nil {
			continue
		}
		if printed == limit {
			break
		}
		if _, err := fmt.Fprintf(w, "- %s: %s\n", o.Rejection.ID, o.Rejection.Reason); err != nil {
			return err
		}
		printed++
	}
	return nil
}
