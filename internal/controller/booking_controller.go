package controller

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/billing"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/email"
	"floatbook_backend/pkg/utils/currency"
)

type BookingInput struct {
	RoomID        uint               `json:"room_id" validate:"required"`
	CheckInDate   string             `json:"check_in_date" validate:"required"`
	CheckOutDate  string             `json:"check_out_date" validate:"required"`
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	TotalAmount   float64            `json:"total_amount" validate:"required"`
	DiscountType  model.DiscountType `json:"discount_type"`
	DiscountValue float64            `json:"discount_value"`
	AdvancePaid   float64            `json:"advance_paid"`
	ReferredBy    string             `json:"referred_by"`
	Notes         string             `json:"notes"`
	GuestCount    int                `json:"guest_count"`
	BookingType   string             `json:"booking_type"`
}

// validateBookingInput checks required fields, non-negative amounts, a known
// discount type and an ordered date range.
func validateBookingInput(in *BookingInput) string {
	if in.RoomID == 0 {
		return "Room is required"
	}
	if in.CustomerName == "" {
		return "Customer name is required"
	}
	if in.TotalAmount < 0 || in.DiscountValue < 0 || in.AdvancePaid < 0 {
		return "Amounts cannot be negative"
	}
	if in.DiscountType == "" {
		in.DiscountType = model.DiscountTypeFixed
	}
	if in.DiscountType != model.DiscountTypeFixed && in.DiscountType != model.DiscountTypePercentage {
		return "Invalid discount type"
	}

	checkIn, err := time.Parse(model.DateLayout, in.CheckInDate)
	if err != nil {
		return "Invalid check-in date"
	}
	checkOut, err := time.Parse(model.DateLayout, in.CheckOutDate)
	if err != nil {
		return "Invalid check-out date"
	}
	if checkOut.Before(checkIn) {
		return "Check-out date cannot be before check-in date"
	}

	return ""
}

func ListBookings(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	query := database.DB.Where("company_id = ?", companyID).
		Preload("Room").
		Order("check_in_date DESC")

	if q := strings.TrimSpace(c.Query("query")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(customer_phone) LIKE ?",
			like, like, like,
		)
	}

	switch c.Query("payment_status", "all") {
	case "paid":
		query = query.Where("is_paid = ?", true)
	case "unpaid":
		query = query.Where("is_paid = ?", false)
	}

	var bookings []model.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch bookings",
		})
	}

	return c.JSON(bookings)
}

// GetBooking returns the booking with its derived financial breakdown
// computed from the company's current tax settings.
func GetBooking(c *fiber.Ctx) error {
	booking := c.Locals("booking").(*model.Booking)

	if err := database.DB.Preload("Room").First(booking, booking.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}

	var company model.Company
	if err := database.DB.First(&company, booking.CompanyID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch company",
		})
	}

	return c.JSON(fiber.Map{
		"booking": booking,
		"quote":   billing.QuoteBooking(booking, &company),
	})
}

func CreateBooking(c *fiber.Ctx) error {
	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if msg := validateBookingInput(input); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	companyID := middleware.CompanyID(c)

	var room model.Room
	if err := database.DB.Where("id = ? AND company_id = ?", input.RoomID, companyID).
		First(&room).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	var company model.Company
	if err := database.DB.First(&company, companyID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch company",
		})
	}

	quote := billing.Calculate(input.TotalAmount, input.DiscountType, input.DiscountValue,
		company.TaxEnabled, company.TaxRate, input.AdvancePaid)

	booking := bookingFromInput(input, companyID, quote)

	if err := database.DB.Create(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create booking",
		})
	}

	if email.GlobalEmailService != nil && booking.CustomerEmail != "" {
		err := email.GlobalEmailService.SendBookingConfirmationEmail(
			booking.CustomerEmail,
			booking.CustomerName,
			company.Name,
			room.Name,
			booking.CheckInDate,
			booking.CheckOutDate,
			currency.Format(quote.FinalTotal, company.Currency),
			currency.Format(quote.DueAmount, company.Currency),
		)
		if err != nil {
			log.Printf("Could not send booking confirmation email: %v", err)
		}
	}

	booking.Room = room
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func UpdateBooking(c *fiber.Ctx) error {
	existing := c.Locals("booking").(*model.Booking)

	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if msg := validateBookingInput(input); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	companyID := middleware.CompanyID(c)

	var room model.Room
	if err := database.DB.Where("id = ? AND company_id = ?", input.RoomID, companyID).
		First(&room).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	var company model.Company
	if err := database.DB.First(&company, companyID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch company",
		})
	}

	quote := billing.Calculate(input.TotalAmount, input.DiscountType, input.DiscountValue,
		company.TaxEnabled, company.TaxRate, input.AdvancePaid)

	updated := bookingFromInput(input, companyID, quote)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := database.DB.Save(&updated).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update booking",
		})
	}

	updated.Room = room
	return c.JSON(updated)
}

func DeleteBooking(c *fiber.Ctx) error {
	booking := c.Locals("booking").(*model.Booking)

	if err := database.DB.Delete(booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete booking",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Booking deleted successfully",
	})
}

// togglePaid flips the stored payment flag in place and reports the new
// value. Applying it twice restores the starting state.
func togglePaid(b *model.Booking) bool {
	b.IsPaid = !b.IsPaid
	return b.IsPaid
}

// TogglePaymentStatus flips the stored is_paid flag. Two toggles restore
// the original state.
func TogglePaymentStatus(c *fiber.Ctx) error {
	booking := c.Locals("booking").(*model.Booking)

	if err := database.DB.Model(booking).Update("is_paid", togglePaid(booking)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update payment status",
		})
	}

	return c.JSON(fiber.Map{
		"id":      booking.ID,
		"is_paid": booking.IsPaid,
	})
}

func bookingFromInput(input *BookingInput, companyID uint, quote billing.Quote) model.Booking {
	guestCount := input.GuestCount
	if guestCount <= 0 {
		guestCount = 1
	}
	bookingType := input.BookingType
	if bookingType == "" {
		bookingType = "regular"
	}

	return model.Booking{
		CompanyID:     companyID,
		RoomID:        input.RoomID,
		CheckInDate:   input.CheckInDate,
		CheckOutDate:  input.CheckOutDate,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		TotalAmount:   input.TotalAmount,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		AdvancePaid:   input.AdvancePaid,
		IsPaid:        quote.PaidAtSave(),
		ReferredBy:    input.ReferredBy,
		Notes:         input.Notes,
		GuestCount:    guestCount,
		BookingType:   bookingType,
	}
}
