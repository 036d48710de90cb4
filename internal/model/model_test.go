package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatementLine_Direction(t *testing.T) {
	tests := []struct {
		amount   string
		outbound bool
		want     PaymentType
	}{
		{"-1250.50", true, PaymentOutbound},
		{"980", false, PaymentInbound},
		{"0", false, PaymentInbound},
		{"-0.01", true, PaymentOutbound},
	}
	for _, tt := range tests {
		l := StatementLine{Amount: decimal.RequireFromString(tt.amount)}
		assert.Equal(t, tt.outbound, l.IsOutbound(), "IsOutbound(%s)", tt.amount)
		assert.Equal(t, tt.want, l.Direction(), "Direction(%s)", tt.amount)
	}
}

func TestPaymentType_Valid(t *testing.T) {
	assert.True(t, PaymentInbound.Valid())
	assert.True(t, PaymentOutbound.Valid())
	assert.False(t, PaymentType("").Valid())
	assert.False(t, PaymentType("transfer").Valid())
}
