package utils

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.5", "INR", "₹1,234.50"},
		{"13", "inr", "₹13.00"},
		{"0", "USD", "$0.00"},
		{"1000000", "IDR", "Rp 1,000,000.00"},
		{"-42.129", "EUR", "-€42.13"},
		{"7.5", "GBP", "GBP 7.50"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://eat.example.com/join?table_id=T+1", JoinURL("https://eat.example.com/", "T 1"))
}

func TestTableQRCode(t *testing.T) {
	png, err := TableQRCode("https://eat.example.com", "T1", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
