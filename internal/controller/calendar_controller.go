package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
)

// GetCalendar returns the rooms plus all bookings whose check-in falls in
// the requested month, padded a week on both sides so leading/trailing
// cells of the grid are populated.
func GetCalendar(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	monthParam := c.Query("month", time.Now().Format("2006-01"))
	month, err := time.Parse("2006-01", monthParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month, expected YYYY-MM",
		})
	}

	startDate := month.AddDate(0, 0, -7).Format(model.DateLayout)
	endDate := month.AddDate(0, 1, 7).Format(model.DateLayout)

	var bookings []model.Booking
	if err := database.DB.Where("company_id = ? AND check_in_date >= ? AND check_in_date <= ?",
		companyID, startDate, endDate).
		Preload("Room").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch calendar bookings",
		})
	}

	var rooms []model.Room
	if err := database.DB.Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch rooms",
		})
	}

	return c.JSON(fiber.Map{
		"month":    monthParam,
		"bookings": bookings,
		"rooms":    rooms,
	})
}

// GetAvailability lists the rooms free on a given date alongside that
// date's bookings.
func GetAvailability(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	date := c.Query("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	var bookings []model.Booking
	if err := database.DB.Where("company_id = ? AND check_in_date = ?", companyID, date).
		Preload("Room").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch bookings",
		})
	}

	var rooms []model.Room
	if err := database.DB.Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch rooms",
		})
	}

	return c.JSON(fiber.Map{
		"date":            date,
		"bookings":        bookings,
		"available_rooms": availableRoomsForDate(rooms, bookings, date),
	})
}

// bookingsForDate filters bookings by exact check-in date.
func bookingsForDate(bookings []model.Booking, date string) []model.Booking {
	result := []model.Booking{}
	for _, b := range bookings {
		if b.CheckInDate == date {
			result = append(result, b)
		}
	}
	return result
}

// availableRoomsForDate returns all rooms minus those with a booking whose
// check-in equals the date. A room only becomes unavailable on the exact
// check-in day; multi-night spans do not block intermediate dates.
func availableRoomsForDate(rooms []model.Room, bookings []model.Booking, date string) []model.Room {
	booked := map[uint]bool{}
	for _, b := range bookingsForDate(bookings, date) {
		booked[b.RoomID] = true
	}

	available := []model.Room{}
	for _, room := range rooms {
		if !booked[room.ID] {
			available = append(available, room)
		}
	}
	return available
}
