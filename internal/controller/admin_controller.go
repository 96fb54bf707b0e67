package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/plan"
)

// Superadmin panel endpoints. All routes here sit behind SuperadminOnly.

func GetAdminStats(c *fiber.Ctx) error {
	var companyCount, userCount, bookingCount, activeSubCount int64

	database.DB.Model(&model.Company{}).Count(&companyCount)
	database.DB.Model(&model.User{}).Count(&userCount)
	database.DB.Model(&model.Booking{}).Count(&bookingCount)
	database.DB.Model(&model.Subscription{}).
		Where("status = ? AND current_period_end > NOW()", model.SubscriptionStatusActive).
		Count(&activeSubCount)

	type planBreakdown struct {
		PlanName string `json:"plan_name"`
		Count    int64  `json:"count"`
	}
	var breakdown []planBreakdown
	database.DB.Model(&model.Company{}).
		Select("plan_name, COUNT(*) as count").
		Group("plan_name").
		Order("count DESC").
		Scan(&breakdown)

	// Revenue collected through bKash; Stripe revenue lives in the Stripe
	// dashboard.
	var bkashRevenue float64
	database.DB.Model(&model.PaymentIntent{}).
		Where("status = ?", model.PaymentIntentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&bkashRevenue)

	var recentCompanies []model.Company
	database.DB.Order("created_at DESC").Limit(5).Find(&recentCompanies)

	return c.JSON(fiber.Map{
		"total_companies":      companyCount,
		"total_users":          userCount,
		"total_bookings":       bookingCount,
		"active_subscriptions": activeSubCount,
		"plan_breakdown":       breakdown,
		"bkash_revenue":        bkashRevenue,
		"recent_companies":     recentCompanies,
	})
}

func AdminListCompanies(c *fiber.Ctx) error {
	var companies []model.Company
	if err := database.DB.Order("created_at DESC").Find(&companies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch companies",
		})
	}
	return c.JSON(companies)
}

// AdminDeleteCompany removes a company and everything hanging off it in a
// single transaction.
func AdminDeleteCompany(c *fiber.Ctx) error {
	companyID := c.Params("id")

	var company model.Company
	if err := database.DB.First(&company, companyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company not found",
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", company.ID).Delete(&model.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", company.ID).Delete(&model.Room{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", company.ID).Delete(&model.CompanyUser{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", company.ID).Delete(&model.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", company.ID).Delete(&model.PaymentIntent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&company).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete company",
		})
	}

	return c.JSON(fiber.Map{"message": "Company deleted"})
}

func AdminListUsers(c *fiber.Ctx) error {
	var users []model.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch users",
		})
	}
	return c.JSON(users)
}

// AdminToggleUserActive flips a user's is_active flag. Disabled users can no
// longer log in; existing tokens expire on their own.
func AdminToggleUserActive(c *fiber.Ctx) error {
	var user model.User
	if err := database.DB.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.IsSuperadmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Superadmin accounts cannot be disabled",
		})
	}

	if err := database.DB.Model(&user).Update("is_active", !user.IsActive).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update user",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "User updated",
		"is_active": user.IsActive,
	})
}

// AdminListPlans returns every plan with its active subscription count.
func AdminListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.DB.Order("price ASC").Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch plans",
		})
	}

	type planRow struct {
		model.Plan
		ActiveSubscriptions int64 `json:"active_subscriptions"`
	}

	rows := make([]planRow, 0, len(plans))
	for _, p := range plans {
		var count int64
		database.DB.Model(&model.Subscription{}).
			Where("plan_id = ? AND status = ?", p.ID, model.SubscriptionStatusActive).
			Count(&count)
		rows = append(rows, planRow{Plan: p, ActiveSubscriptions: count})
	}

	return c.JSON(rows)
}

type PlanInput struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	RoomLimit     int     `json:"room_limit"`
	BookingLimit  int     `json:"booking_limit"`
	UserLimit     int     `json:"user_limit"`
	StripePriceID string  `json:"stripe_price_id"`
}

func AdminCreatePlan(c *fiber.Ctx) error {
	var input PlanInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Plan name is required",
		})
	}
	if input.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price cannot be negative",
		})
	}

	var existing model.Plan
	if err := database.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A plan with this name already exists",
		})
	}

	p := model.Plan{
		Name:          input.Name,
		Price:         input.Price,
		RoomLimit:     input.RoomLimit,
		BookingLimit:  input.BookingLimit,
		UserLimit:     input.UserLimit,
		StripePriceID: input.StripePriceID,
	}
	if err := database.DB.Create(&p).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create plan",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func AdminUpdatePlan(c *fiber.Ctx) error {
	var p model.Plan
	if err := database.DB.First(&p, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	var input PlanInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if input.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price cannot be negative",
		})
	}

	updates := map[string]interface{}{
		"price":           input.Price,
		"room_limit":      input.RoomLimit,
		"booking_limit":   input.BookingLimit,
		"user_limit":      input.UserLimit,
		"stripe_price_id": input.StripePriceID,
	}
	if input.Name != "" {
		updates["name"] = input.Name
	}

	if err := database.DB.Model(&p).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update plan",
		})
	}

	return c.JSON(p)
}

func AdminDeletePlan(c *fiber.Ctx) error {
	var p model.Plan
	if err := database.DB.First(&p, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	if p.Name == plan.FreePlanName {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "The Free plan cannot be deleted",
		})
	}

	var inUse int64
	database.DB.Model(&model.Subscription{}).
		Where("plan_id = ? AND status = ?", p.ID, model.SubscriptionStatusActive).
		Count(&inUse)
	if inUse > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Plan has active subscriptions",
		})
	}

	if err := database.DB.Delete(&p).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete plan",
		})
	}

	return c.JSON(fiber.Map{"message": "Plan deleted"})
}

func AdminListActivationKeys(c *fiber.Ctx) error {
	var keys []model.ActivationKey
	if err := database.DB.Preload("Plan").Order("created_at DESC").Find(&keys).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch activation keys",
		})
	}
	return c.JSON(keys)
}

// AdminGenerateActivationKeys mints a batch of single-use keys for a plan.
func AdminGenerateActivationKeys(c *fiber.Ctx) error {
	var input struct {
		PlanID uint `json:"plan_id"`
		Count  int  `json:"count"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Count < 1 {
		input.Count = 1
	}
	if input.Count > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot generate more than 100 keys at once",
		})
	}

	var p model.Plan
	if err := database.DB.First(&p, input.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	keys := make([]model.ActivationKey, 0, input.Count)
	for i := 0; i < input.Count; i++ {
		key, err := plan.GenerateKey(p.Name)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not generate keys",
			})
		}
		keys = append(keys, model.ActivationKey{
			Key:    key,
			PlanID: p.ID,
		})
	}

	if err := database.DB.Create(&keys).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save keys",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(keys)
}
