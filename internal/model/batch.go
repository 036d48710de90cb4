package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is the direction of a batch payment.
type PaymentType string

const (
	PaymentInbound  PaymentType = "inbound"
	PaymentOutbound PaymentType = "outbound"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	return t == PaymentInbound || t == PaymentOutbound
}

// BatchPayment is a candidate suggestion for a statement line.
type BatchPayment struct {
	ID                           string
	Name                         string
	Date                         time.Time
	JournalID                    int
	Type                         PaymentType
	FilterAmount                 decimal.Decimal // never negative
	AmountFilterEnabled          bool
	TransactionTypeFilterEnabled bool
}

// Batch is a recorded batch payment with the lines that make it up.
type Batch struct {
	ID        string
	Name      string
	Date      time.Time
	JournalID int
	Type      PaymentType
	Amount    decimal.Decimal // signed, in the journal's currency; outbound batches are negative
	Payments  []BatchLine
	FundLines []FundLine
}

// BatchLine is a payment grouped into a batch.
type BatchLine struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string // empty = company currency
	Matched   bool
	Draft     bool
}

// FundLine is an adjustment line attached to a batch.
type FundLine struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string // empty = company currency
	Reviewed  bool
	Draft     bool
}
