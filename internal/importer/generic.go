package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/id"
	"github.com/cleared-dev/recon/internal/model"
)

// GenericParser reads a headered CSV with at least date, description and
// amount columns. Optional columns: type, reference. Dates are month/day/year.
type GenericParser struct{}

const genericDateFormat = "1/2/2006"

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic statement CSV.
func (p *GenericParser) Parse(r io.Reader, journalID int) ([]model.StatementLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "description", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var lines []model.StatementLine
	for i, rec := range records[1:] {
		date, err := time.Parse(genericDateFormat, field(rec, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, field(rec, "date"), err)
		}
		amount, err := decimal.NewFromString(field(rec, "amount"))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, field(rec, "amount"), err)
		}

		ref := field(rec, "reference")
		if ref == "" {
			ref = id.FormatSeqRef("line", date, i+1)
		}

		lines = append(lines, model.StatementLine{
			Date:        date,
			Description: field(rec, "description"),
			Amount:      amount,
			Reference:   ref,
			Type:        field(rec, "type"),
			JournalID:   journalID,
		})
	}
	return lines, nil
}
