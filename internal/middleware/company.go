package middleware

import (
	"github.com/gofiber/fiber/v2"

	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/utils/jwt"
)

// RequireCompany resolves the caller's single company membership and stores
// it in locals. Users without a membership are told to complete company
// setup; superadmins have no membership and cannot use tenant routes.
func RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		var membership model.CompanyUser
		if err := database.DB.Where("user_id = ?", claims.UserID).First(&membership).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "User is not associated with any company",
				"code":  "company_setup_required",
			})
		}

		c.Locals("company_id", membership.CompanyID)
		c.Locals("membership", &membership)
		return c.Next()
	}
}

// RequireCompanyAdmin runs after RequireCompany and rejects members without
// the admin role.
func RequireCompanyAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		membership := c.Locals("membership").(*model.CompanyUser)
		if membership.Role != model.CompanyRoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This action requires a company admin",
			})
		}
		return c.Next()
	}
}

// CompanyID reads the company resolved by RequireCompany.
func CompanyID(c *fiber.Ctx) uint {
	return c.Locals("company_id").(uint)
}

// CheckRoomOwnership ensures the :id room belongs to the caller's company.
func CheckRoomOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roomID := c.Params("id")

		var room model.Room
		if err := database.DB.First(&room, roomID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Room not found",
			})
		}

		if room.CompanyID != CompanyID(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this room",
			})
		}

		c.Locals("room", &room)
		return c.Next()
	}
}

// CheckBookingOwnership ensures the :id booking belongs to the caller's company.
func CheckBookingOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookingID := c.Params("id")

		var booking model.Booking
		if err := database.DB.First(&booking, bookingID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Booking not found",
			})
		}

		if booking.CompanyID != CompanyID(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this booking",
			})
		}

		c.Locals("booking", &booking)
		return c.Next()
	}
}
