package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one bank transaction awaiting reconciliation.
type StatementLine struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = outbound, otherwise inbound
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
	JournalID   int
}

// IsOutbound reports whether money left the account.
func (l StatementLine) IsOutbound() bool {
	return l.Amount.IsNegative()
}

// Direction returns the payment type a matching batch must have.
func (l StatementLine) Direction() PaymentType {
	if l.IsOutbound() {
		return PaymentOutbound
	}
	return PaymentInbound
}
