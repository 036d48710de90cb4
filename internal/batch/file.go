package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/recon/internal/model"
)

// RelPath is where batches live inside a review repo.
const RelPath = "batches/batches.yaml"

const dateFormat = "2006-01-02"

type fileDoc struct {
	Batches []batchDoc `yaml:"batches"`
}

type batchDoc struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Date      string        `yaml:"date"`
	JournalID int           `yaml:"journal_id"`
	Type      string        `yaml:"type"`
	Amount    string        `yaml:"amount"`
	Payments  []paymentDoc  `yaml:"payments,omitempty"`
	FundLines []fundLineDoc `yaml:"fund_lines,omitempty"`
}

type paymentDoc struct {
	Reference string `yaml:"reference"`
	Amount    string `yaml:"amount"`
	Currency  string `yaml:"currency,omitempty"`
	Matched   bool   `yaml:"matched,omitempty"`
	Draft     bool   `yaml:"draft,omitempty"`
}

type fundLineDoc struct {
	Reference string `yaml:"reference"`
	Amount    string `yaml:"amount"`
	Currency  string `yaml:"currency,omitempty"`
	Reviewed  bool   `yaml:"reviewed,omitempty"`
	Draft     bool   `yaml:"draft,omitempty"`
}

// Load reads <repoRoot>/batches/batches.yaml. A missing file means no batches.
func Load(repoRoot string) ([]model.Batch, error) {
	path := filepath.Join(repoRoot, RelPath)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading batches: %w", err)
	}
	return Unmarshal(data)
}

// Save writes batches to <repoRoot>/batches/batches.yaml.
func Save(repoRoot string, batches []model.Batch) error {
	dir := filepath.Join(repoRoot, filepath.Dir(RelPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating batches dir: %w", err)
	}

	data, err := Marshal(batches)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(repoRoot, RelPath), data, 0o644); err != nil {
		return fmt.Errorf("writing batches: %w", err)
	}
	return nil
}

// Marshal encodes batches as YAML.
func Marshal(batches []model.Batch) ([]byte, error) {
	doc := fileDoc{Batches: make([]batchDoc, 0, len(batches))}
	for _, b := range batches {
		bd := batchDoc{
			ID:        b.ID,
			Name:      b.Name,
			JournalID: b.JournalID,
			Type:      string(b.Type),
			Amount:    b.Amount.StringFixed(2),
		}
		if !b.Date.IsZero() {
			bd.Date = b.Date.Format(dateFormat)
		}
		for _, p := range b.Payments {
			bd.Payments = append(bd.Payments, paymentDoc{
				Reference: p.Reference,
				Amount:    p.Amount.StringFixed(2),
				Currency:  p.Currency,
				Matched:   p.Matched,
				Draft:     p.Draft,
			})
		}
		for _, f := range b.FundLines {
			bd.FundLines = append(bd.FundLines, fundLineDoc{
				Reference: f.Reference,
				Amount:    f.Amount.StringFixed(2),
				Currency:  f.Currency,
				Reviewed:  f.Reviewed,
				Draft:     f.Draft,
			})
		}
		doc.Batches = append(doc.Batches, bd)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling batches: %w", err)
	}
	return data, nil
}

// Unmarshal decodes YAML produced by Marshal.
func Unmarshal(data []byte) ([]model.Batch, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing batches: %w", err)
	}

	var batches []model.Batch
	for i, bd := range doc.Batches {
		b, err := bd.toModel()
		if err != nil {
			return nil, fmt.Errorf("batch %d (%s): %w", i+1, bd.ID, err)
		}
		batches = append(batches, b)
	}
	return batches, nil
}

func (bd batchDoc) toModel() (model.Batch, error) {
	typ := model.PaymentType(bd.Type)
	if !typ.Valid() {
		return model.Batch{}, fmt.Errorf("invalid type %q", bd.Type)
	}

	amount, err := parseAmount(bd.Amount)
	if err != nil {
		return model.Batch{}, err
	}

	var date time.Time
	if bd.Date != "" {
		date, err = time.Parse(dateFormat, bd.Date)
		if err != nil {
			return model.Batch{}, fmt.Errorf("parsing date %q: %w", bd.Date, err)
		}
	}

	b := model.Batch{
		ID:        bd.ID,
		Name:      bd.Name,
		Date:      date,
		JournalID: bd.JournalID,
		Type:      typ,
		Amount:    amount,
	}

	for _, p := range bd.Payments {
		amt, err := parseAmount(p.Amount)
		if err != nil {
			return model.Batch{}, fmt.Errorf("payment %s: %w", p.Reference, err)
		}
		b.Payments = append(b.Payments, model.BatchLine{
			Reference: p.Reference,
			Amount:    amt,
			Currency:  p.Currency,
			Matched:   p.Matched,
			Draft:     p.Draft,
		})
	}

	for _, f := range bd.FundLines {
		amt, err := parseAmount(f.Amount)
		if err != nil {
			return model.Batch{}, fmt.Errorf("fund line %s: %w", f.Reference, err)
		}
		b.FundLines = append(b.FundLines, model.FundLine{
			Reference: f.Reference,
			Amount:    amt,
			Currency:  f.Currency,
			Reviewed:  f.Reviewed,
			Draft:     f.Draft,
		})
	}

	return b, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
