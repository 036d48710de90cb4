// Package batch turns recorded batch payments into the candidates the
// suggestion filter works on.
package batch

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/config"
	"github.com/cleared-dev/recon/internal/model"
)

// Converter converts an amount between currencies.
type Converter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Currencies are the currencies a filter amount is worked out in.
type Currencies struct {
	Journal string // batch and filter amounts; empty means Company
	Company string // lines without a currency of their own
}

// ReviewInfo builds the suggestion candidate for b. The filter amount is what
// is left of the batch once matched or draft payments and reviewed or draft
// fund lines are taken out, in the journal's currency.
func ReviewInfo(b model.Batch, flags config.ReviewConfig, cur Currencies, conv Converter) (model.BatchPayment, error) {
	journal := currencyOr(cur.Journal, cur.Company)
	remaining := b.Amount
	if b.Type == model.PaymentOutbound {
		remaining = remaining.Neg()
	}

	for _, p := range b.Payments {
		if !p.Matched && !p.Draft {
			continue
		}
		amt, err := conv.Convert(p.Amount, currencyOr(p.Currency, cur.Company), journal)
		if err != nil {
			return model.BatchPayment{}, fmt.Errorf("batch %s payment %s: %w", b.ID, p.Reference, err)
		}
		remaining = remaining.Sub(amt)
	}

	for _, f := range b.FundLines {
		if !f.Reviewed && !f.Draft {
			continue
		}
		amt, err := conv.Convert(f.Amount, currencyOr(f.Currency, cur.Company), journal)
		if err != nil {
			return model.BatchPayment{}, fmt.Errorf("batch %s fund line %s: %w", b.ID, f.Reference, err)
		}
		remaining = remaining.Sub(amt)
	}

	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return model.BatchPayment{
		ID:                           b.ID,
		Name:                         b.Name,
		Date:                         b.Date,
		JournalID:                    b.JournalID,
		Type:                         b.Type,
		FilterAmount:                 remaining,
		AmountFilterEnabled:          flags.AmountFilter,
		TransactionTypeFilterEnabled: flags.TransactionTypeFilter,
	}, nil
}

// Candidates builds review info for every batch, with the review flags,
// rates and currencies from cfg.
func Candidates(batches []model.Batch, cfg *config.Config) ([]model.BatchPayment, error) {
	out := make([]model.BatchPayment, 0, len(batches))
	for _, b := range batches {
		cur := Currencies{
			Journal: cfg.JournalCurrency(b.JournalID),
			Company: cfg.Company.Currency,
		}
		p, err := ReviewInfo(b, cfg.Review, cur, cfg.Rates)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func currencyOr(c, fallback string) string {
	if c == "" {
		return fallback
	}
	return c
}
