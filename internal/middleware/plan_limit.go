package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/plan"
)

// ActivePlanLimits resolves the company's current limits: the active
// subscription's plan if one exists, otherwise the Free plan row, otherwise
// the built-in Free defaults.
func ActivePlanLimits(companyID uint) plan.Limits {
	var sub model.Subscription
	err := database.DB.Where("company_id = ? AND status = ? AND current_period_end > ?",
		companyID, model.SubscriptionStatusActive, time.Now()).
		Preload("Plan").
		Order("created_at DESC").
		First(&sub).Error
	if err == nil {
		return plan.ForPlan(&sub.Plan)
	}

	var freePlan model.Plan
	if err := database.DB.Where("name = ?", plan.FreePlanName).First(&freePlan).Error; err == nil {
		return plan.ForPlan(&freePlan)
	}

	return plan.FreeLimits
}

// CheckRoomLimit rejects room creation past the plan's room limit.
func CheckRoomLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := CompanyID(c)
		limits := ActivePlanLimits(companyID)

		var roomCount int64
		database.DB.Model(&model.Room{}).Where("company_id = ?", companyID).Count(&roomCount)

		if !plan.Allows(limits.MaxRooms, roomCount) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "You have reached your room limit. Please upgrade your plan.",
				"current_count": roomCount,
				"max_limit":     limits.MaxRooms,
			})
		}

		return c.Next()
	}
}

// CheckBookingLimit rejects booking creation past the plan's booking limit.
func CheckBookingLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := CompanyID(c)
		limits := ActivePlanLimits(companyID)

		var bookingCount int64
		database.DB.Model(&model.Booking{}).Where("company_id = ?", companyID).Count(&bookingCount)

		if !plan.Allows(limits.MaxBookings, bookingCount) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "You have reached your booking limit. Please upgrade your plan.",
				"current_count": bookingCount,
				"max_limit":     limits.MaxBookings,
			})
		}

		return c.Next()
	}
}

// CheckUserLimit rejects team member additions past the plan's user limit.
func CheckUserLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := CompanyID(c)
		limits := ActivePlanLimits(companyID)

		var memberCount int64
		database.DB.Model(&model.CompanyUser{}).Where("company_id = ?", companyID).Count(&memberCount)

		if !plan.Allows(limits.MaxUsers, memberCount) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "You have reached your team member limit. Please upgrade your plan.",
				"current_count": memberCount,
				"max_limit":     limits.MaxUsers,
			})
		}

		return c.Next()
	}
}
