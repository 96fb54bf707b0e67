package billing

import "floatbook_backend/internal/model"

// Quote is the derived financial breakdown of a booking. It is computed on
// demand from the stored booking fields and the company's current tax
// settings, never persisted (except the is_paid snapshot taken at save time).
type Quote struct {
	BaseAmount     float64 `json:"base_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	FinalTotal     float64 `json:"final_total_amount"`
	DueAmount      float64 `json:"due_amount"`
}

// Calculate applies discount, then tax on the discounted amount, then the
// advance. Due is clamped at zero; nothing else is clamped, matching the
// form-level min="0" contract on inputs.
func Calculate(baseAmount float64, discountType model.DiscountType, discountValue float64, taxEnabled bool, taxRate float64, advancePaid float64) Quote {
	discountAmount := discountValue
	if discountType == model.DiscountTypePercentage {
		discountAmount = baseAmount * discountValue / 100
	}

	discountedAmount := baseAmount - discountAmount

	taxAmount := 0.0
	if taxEnabled {
		taxAmount = discountedAmount * taxRate / 100
	}

	finalTotal := discountedAmount + taxAmount

	dueAmount := finalTotal - advancePaid
	if dueAmount < 0 {
		dueAmount = 0
	}

	return Quote{
		BaseAmount:     baseAmount,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		FinalTotal:     finalTotal,
		DueAmount:      dueAmount,
	}
}

// QuoteBooking computes the quote for a stored booking against the owning
// company's tax settings.
func QuoteBooking(b *model.Booking, c *model.Company) Quote {
	return Calculate(b.TotalAmount, b.DiscountType, b.DiscountValue, c.TaxEnabled, c.TaxRate, b.AdvancePaid)
}

// PaidAtSave is the rule applied once when a booking is created or updated:
// the booking is marked paid when the advance covers the final total.
func (q Quote) PaidAtSave() bool {
	return q.DueAmount == 0
}
