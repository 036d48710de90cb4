package tablesort

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table is a header row plus the sortable body rows.
type Table struct {
	Header Cells
	Rows   []Cells
}

// ReadTable reads a CSV table. The first record is the header and is never sorted.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("reading table CSV: %w", err)
	}

	if len(records) == 0 {
		return Table{}, nil
	}

	t := Table{Header: records[0]}
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// WriteTable writes the header (if any) followed by the rows.
func WriteTable(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}
