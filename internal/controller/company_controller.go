package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/utils/jwt"
	"floatbook_backend/pkg/utils/storage"
)

type CompanySetupInput struct {
	Name     string `json:"name" validate:"required"`
	Currency string `json:"currency"`
}

type CompanySettingsInput struct {
	Name       string  `json:"name"`
	LogoURL    string  `json:"logo_url"`
	Address    string  `json:"address"`
	Currency   string  `json:"currency"`
	TaxEnabled bool    `json:"tax_enabled"`
	TaxRate    float64 `json:"tax_rate"`
}

type AddCompanyUserInput struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"`
}

// CreateCompany runs the first-login setup flow. The company row and the
// owning admin membership are written in one transaction so a failed
// membership insert cannot leave an orphaned company behind.
func CreateCompany(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CompanySetupInput)
	if err := c.BodyParser(input); err != nil || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Company name is required",
		})
	}

	if claims.SystemRole == model.SystemRoleSuperadmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Superadmins cannot own a company",
		})
	}

	var existing model.CompanyUser
	if err := database.DB.Where("user_id = ?", claims.UserID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User already belongs to a company",
		})
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	company := model.Company{
		Name:     input.Name,
		Currency: currency,
	}

	tx := database.DB.Begin()

	if err := tx.Create(&company).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create company",
		})
	}

	membership := model.CompanyUser{
		CompanyID: company.ID,
		UserID:    claims.UserID,
		UserEmail: claims.Email,
		Role:      model.CompanyRoleAdmin,
	}

	if err := tx.Create(&membership).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create company membership",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create company",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Company created successfully",
		"company": company,
	})
}

func GetCompany(c *fiber.Ctx) error {
	var company model.Company
	if err := database.DB.First(&company, middleware.CompanyID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company not found",
		})
	}

	return c.JSON(company)
}

func UpdateCompany(c *fiber.Ctx) error {
	input := new(CompanySettingsInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.TaxRate < 0 || input.TaxRate > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Tax rate must be between 0 and 100",
		})
	}

	var company model.Company
	if err := database.DB.First(&company, middleware.CompanyID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Company not found",
		})
	}

	updates := map[string]interface{}{
		"logo_url":    input.LogoURL,
		"address":     input.Address,
		"tax_enabled": input.TaxEnabled,
		"tax_rate":    input.TaxRate,
	}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Currency != "" {
		updates["currency"] = input.Currency
	}

	if err := database.DB.Model(&company).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update company settings",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Company settings updated",
		"company": company,
	})
}

// UploadCompanyLogo stores the uploaded logo in S3 and saves its URL.
func UploadCompanyLogo(c *fiber.Ctx) error {
	file, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	companyID := middleware.CompanyID(c)

	url, err := storage.UploadCompanyLogo(file, companyID)
	if err != nil {
		log.Printf("Logo upload failed for company %d: %v", companyID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := database.DB.Model(&model.Company{}).
		Where("id = ?", companyID).
		Update("logo_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save logo URL",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Logo uploaded successfully",
		"logo_url": url,
	})
}

func ListCompanyUsers(c *fiber.Ctx) error {
	var members []model.CompanyUser
	if err := database.DB.Where("company_id = ?", middleware.CompanyID(c)).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch team members",
		})
	}

	return c.JSON(members)
}

// AddCompanyUser attaches an already-registered user to the company.
func AddCompanyUser(c *fiber.Ctx) error {
	input := new(AddCompanyUserInput)
	if err := c.BodyParser(input); err != nil || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	role := input.Role
	if role == "" {
		role = model.CompanyRoleMember
	}
	if role != model.CompanyRoleAdmin && role != model.CompanyRoleMember {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	var user model.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No registered user with that email",
		})
	}

	if user.IsSuperadmin() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Superadmins cannot join a company",
		})
	}

	var existing model.CompanyUser
	if err := database.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User already belongs to a company",
		})
	}

	membership := model.CompanyUser{
		CompanyID: middleware.CompanyID(c),
		UserID:    user.ID,
		UserEmail: user.Email,
		Role:      role,
	}

	if err := database.DB.Create(&membership).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add team member",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(membership)
}

func RemoveCompanyUser(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var membership model.CompanyUser
	if err := database.DB.Where("id = ? AND company_id = ?", c.Params("id"), middleware.CompanyID(c)).
		First(&membership).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team member not found",
		})
	}

	if membership.UserID == claims.UserID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot remove yourself from the company",
		})
	}

	if err := database.DB.Delete(&membership).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove team member",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Team member removed",
	})
}
