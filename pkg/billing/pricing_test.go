package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"floatbook_backend/internal/model"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		base         float64
		discountType model.DiscountType
		discount     float64
		taxEnabled   bool
		taxRate      float64
		advance      float64
		want         Quote
	}{
		{
			name:         "percentage discount with tax",
			base:         100,
			discountType: model.DiscountTypePercentage,
			discount:     10,
			taxEnabled:   true,
			taxRate:      5,
			advance:      50,
			want: Quote{
				BaseAmount:     100,
				DiscountAmount: 10,
				TaxAmount:      4.5,
				FinalTotal:     94.5,
				DueAmount:      44.5,
			},
		},
		{
			name:         "fixed discount no tax",
			base:         200,
			discountType: model.DiscountTypeFixed,
			discount:     25,
			advance:      0,
			want: Quote{
				BaseAmount:     200,
				DiscountAmount: 25,
				FinalTotal:     175,
				DueAmount:      175,
			},
		},
		{
			name:         "full percentage discount zeroes the total",
			base:         500,
			discountType: model.DiscountTypePercentage,
			discount:     100,
			want: Quote{
				BaseAmount:     500,
				DiscountAmount: 500,
			},
		},
		{
			name:         "overpaid advance clamps due at zero",
			base:         100,
			discountType: model.DiscountTypeFixed,
			advance:      150,
			want: Quote{
				BaseAmount: 100,
				FinalTotal: 100,
			},
		},
		{
			name:         "tax disabled ignores rate",
			base:         100,
			discountType: model.DiscountTypeFixed,
			taxEnabled:   false,
			taxRate:      15,
			want: Quote{
				BaseAmount: 100,
				FinalTotal: 100,
				DueAmount:  100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.base, tt.discountType, tt.discount, tt.taxEnabled, tt.taxRate, tt.advance)
			assert.InDelta(t, tt.want.DiscountAmount, got.DiscountAmount, 1e-9)
			assert.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 1e-9)
			assert.InDelta(t, tt.want.FinalTotal, got.FinalTotal, 1e-9)
			assert.InDelta(t, tt.want.DueAmount, got.DueAmount, 1e-9)
		})
	}
}

func TestQuoteInvariants(t *testing.T) {
	// due = max(0, finalTotal - advance) and finalTotal >= 0 for any
	// non-negative base with a sane discount.
	for _, advance := range []float64{0, 10, 94.5, 200} {
		q := Calculate(100, model.DiscountTypePercentage, 10, true, 5, advance)
		assert.GreaterOrEqual(t, q.FinalTotal, 0.0)
		expected := q.FinalTotal - advance
		if expected < 0 {
			expected = 0
		}
		assert.InDelta(t, expected, q.DueAmount, 1e-9)
	}
}

func TestPaidAtSave(t *testing.T) {
	paid := Calculate(100, model.DiscountTypeFixed, 0, false, 0, 100)
	assert.True(t, paid.PaidAtSave())

	unpaid := Calculate(100, model.DiscountTypeFixed, 0, false, 0, 99.99)
	assert.False(t, unpaid.PaidAtSave())
}

func TestQuoteBooking(t *testing.T) {
	company := &model.Company{TaxEnabled: true, TaxRate: 5}
	booking := &model.Booking{
		TotalAmount:   100,
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
		AdvancePaid:   50,
	}

	q := QuoteBooking(booking, company)
	assert.InDelta(t, 94.5, q.FinalTotal, 1e-9)
	assert.InDelta(t, 44.5, q.DueAmount, 1e-9)
}
