package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{94.5, "USD", "$94.50"},
		{1234.5, "BDT", "৳1,234.50"},
		{1000000, "EUR", "€1,000,000.00"},
		{0, "GBP", "£0.00"},
		{-250.75, "USD", "$-250.75"},
		{99.99, "XYZ", "XYZ 99.99"},
		{10, "", "$10.00"},
		{500, "bdt", "৳500.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.amount, tt.code))
	}
}
