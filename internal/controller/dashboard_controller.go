package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/billing"
	"floatbook_backend/pkg/database"
)

// GetDashboard returns the landing-page summary: today's arrivals, the next
// seven days of bookings, the day's occupancy rate and outstanding dues.
func GetDashboard(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	var company model.Company
	if err := database.DB.First(&company, companyID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load company",
		})
	}

	today := time.Now().Format(model.DateLayout)
	weekEnd := time.Now().AddDate(0, 0, 7).Format(model.DateLayout)

	var todayBookings []model.Booking
	if err := database.DB.Preload("Room").
		Where("company_id = ? AND check_in_date = ?", companyID, today).
		Order("created_at DESC").
		Find(&todayBookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch today's bookings",
		})
	}

	var upcomingBookings []model.Booking
	if err := database.DB.Preload("Room").
		Where("company_id = ? AND check_in_date > ? AND check_in_date <= ?", companyID, today, weekEnd).
		Order("check_in_date ASC").
		Find(&upcomingBookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch upcoming bookings",
		})
	}

	var roomCount int64
	database.DB.Model(&model.Room{}).Where("company_id = ?", companyID).Count(&roomCount)

	occupancyRate := 0.0
	if roomCount > 0 {
		occupancyRate = float64(len(todayBookings)) / float64(roomCount) * 100
		if occupancyRate > 100 {
			occupancyRate = 100
		}
	}

	todayRevenue := 0.0
	todayDue := 0.0
	for i := range todayBookings {
		q := billing.QuoteBooking(&todayBookings[i], &company)
		todayRevenue += q.FinalTotal
		todayDue += q.DueAmount
	}

	return c.JSON(fiber.Map{
		"today_bookings":    todayBookings,
		"upcoming_bookings": upcomingBookings,
		"room_count":        roomCount,
		"occupancy_rate":    occupancyRate,
		"today_revenue":     todayRevenue,
		"today_due":         todayDue,
	})
}
