package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/billing"
)

func validInput() *BookingInput {
	return &BookingInput{
		RoomID:       1,
		CheckInDate:  "2026-08-10",
		CheckOutDate: "2026-08-12",
		CustomerName: "Arif Hossain",
		TotalAmount:  100,
		DiscountType: model.DiscountTypePercentage,
	}
}

func TestValidateBookingInput(t *testing.T) {
	assert.Empty(t, validateBookingInput(validInput()))

	t.Run("same-day stay is allowed", func(t *testing.T) {
		in := validInput()
		in.CheckOutDate = in.CheckInDate
		assert.Empty(t, validateBookingInput(in))
	})

	t.Run("check-out before check-in is rejected", func(t *testing.T) {
		in := validInput()
		in.CheckOutDate = "2026-08-09"
		assert.Contains(t, validateBookingInput(in), "Check-out date")
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		for _, mutate := range []func(*BookingInput){
			func(in *BookingInput) { in.TotalAmount = -1 },
			func(in *BookingInput) { in.DiscountValue = -5 },
			func(in *BookingInput) { in.AdvancePaid = -0.01 },
		} {
			in := validInput()
			mutate(in)
			assert.Equal(t, "Amounts cannot be negative", validateBookingInput(in))
		}
	})

	t.Run("empty discount type defaults to fixed", func(t *testing.T) {
		in := validInput()
		in.DiscountType = ""
		assert.Empty(t, validateBookingInput(in))
		assert.Equal(t, model.DiscountTypeFixed, in.DiscountType)
	})

	t.Run("unknown discount type is rejected", func(t *testing.T) {
		in := validInput()
		in.DiscountType = "bogus"
		assert.Equal(t, "Invalid discount type", validateBookingInput(in))
	})

	t.Run("bad dates are rejected", func(t *testing.T) {
		in := validInput()
		in.CheckInDate = "10/08/2026"
		assert.Equal(t, "Invalid check-in date", validateBookingInput(in))
	})
}

func TestTogglePaidRoundTrip(t *testing.T) {
	for _, start := range []bool{true, false} {
		b := model.Booking{IsPaid: start}

		assert.Equal(t, !start, togglePaid(&b))
		assert.Equal(t, !start, b.IsPaid)

		assert.Equal(t, start, togglePaid(&b))
		assert.Equal(t, start, b.IsPaid, "two toggles restore the starting state")
	}
}

func TestBookingFromInput(t *testing.T) {
	in := validInput()
	in.DiscountValue = 10
	in.AdvancePaid = 94.5

	quote := billing.Calculate(in.TotalAmount, in.DiscountType, in.DiscountValue, true, 5, in.AdvancePaid)
	booking := bookingFromInput(in, 3, quote)

	assert.Equal(t, uint(3), booking.CompanyID)
	assert.True(t, booking.IsPaid, "advance covering the final total marks the booking paid")
	assert.Equal(t, 1, booking.GuestCount, "guest count defaults to 1")
	assert.Equal(t, "regular", booking.BookingType)

	in.AdvancePaid = 50
	quote = billing.Calculate(in.TotalAmount, in.DiscountType, in.DiscountValue, true, 5, in.AdvancePaid)
	booking = bookingFromInput(in, 3, quote)
	assert.False(t, booking.IsPaid)
}
