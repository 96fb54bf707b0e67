package controller

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/bkash"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/email"
	"floatbook_backend/pkg/utils/jwt"
)

type BkashPaymentInput struct {
	PlanID uint `json:"plan_id"`
}

// CreateBkashPayment opens a bKash checkout for a plan purchase and returns
// the redirect URL. The plan is applied only after VerifyBkashPayment sees
// the transaction complete.
func CreateBkashPayment(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)
	claims := c.Locals("user").(*jwt.Claims)

	input := new(BkashPaymentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var p model.Plan
	if err := database.DB.First(&p, input.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}
	if p.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This plan does not require payment",
		})
	}

	var activeCount int64
	database.DB.Model(&model.Subscription{}).
		Where("company_id = ? AND status = ? AND current_period_end > ?",
			companyID, model.SubscriptionStatusActive, time.Now()).
		Count(&activeCount)
	if activeCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Company already has an active subscription",
		})
	}

	intent := model.PaymentIntent{
		CompanyID:     companyID,
		PlanID:        p.ID,
		UserID:        claims.UserID,
		Amount:        p.Price,
		Currency:      "BDT",
		Status:        model.PaymentIntentStatusPending,
		InvoiceNumber: "FB-" + uuid.New().String()[:8],
	}
	if err := database.DB.Create(&intent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create payment record",
		})
	}

	client := bkash.NewClient()
	token, err := client.GrantToken()
	if err != nil {
		log.Printf("bKash token grant failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Payment provider is unavailable",
		})
	}

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:5173"
	}

	payment, err := client.CreatePayment(token, bkash.CreatePaymentRequest{
		CallbackURL:           siteURL + "/billing/bkash/callback",
		Amount:                fmt.Sprintf("%.2f", p.Price),
		Currency:              intent.Currency,
		MerchantInvoiceNumber: intent.InvoiceNumber,
	})
	if err != nil {
		log.Printf("bKash create payment failed: %v", err)
		database.DB.Model(&intent).Update("status", model.PaymentIntentStatusFailed)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not start bKash payment",
		})
	}

	if err := database.DB.Model(&intent).Update("bkash_payment_id", payment.PaymentID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save payment record",
		})
	}

	return c.JSON(fiber.Map{
		"payment_id": payment.PaymentID,
		"bkash_url":  payment.BkashURL,
	})
}

// VerifyBkashPayment checks a payment's status with bKash after the user
// returns from the checkout. Safe to call more than once; a completed intent
// short-circuits without another provider call.
func VerifyBkashPayment(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	var input struct {
		PaymentID string `json:"payment_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.PaymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Payment ID is required",
		})
	}

	var intent model.PaymentIntent
	err := database.DB.Preload("Plan").
		Where("bkash_payment_id = ? AND company_id = ?", input.PaymentID, companyID).
		First(&intent).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if intent.Status == model.PaymentIntentStatusCompleted {
		return c.JSON(fiber.Map{
			"message": "Payment already verified",
			"status":  intent.Status,
		})
	}

	client := bkash.NewClient()
	token, err := client.GrantToken()
	if err != nil {
		log.Printf("bKash token grant failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Payment provider is unavailable",
		})
	}

	status, err := client.QueryPayment(token, input.PaymentID)
	if err != nil {
		log.Printf("bKash status query failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not verify payment",
		})
	}

	if !status.Completed() {
		updates := map[string]interface{}{}
		if status.TransactionStatus != "" {
			updates["status"] = strings.ToLower(status.TransactionStatus)
		} else {
			updates["status"] = model.PaymentIntentStatusFailed
		}
		database.DB.Model(&intent).Updates(updates)

		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":  "Payment was not completed",
			"status": status.TransactionStatus,
		})
	}

	periodEnd := time.Now().AddDate(0, 0, 30)

	var sub *model.Subscription
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       model.PaymentIntentStatusCompleted,
			"bkash_trx_id": status.TrxID,
		}
		if err := tx.Model(&intent).Updates(updates).Error; err != nil {
			return err
		}

		var txErr error
		sub, txErr = applyPlanSubscription(tx, companyID, &intent.Plan, periodEnd, "")
		return txErr
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not activate subscription",
		})
	}

	var company model.Company
	database.DB.First(&company, companyID)

	if email.GlobalEmailService != nil {
		adminEmail := companyAdminEmail(companyID)
		if adminEmail != "" {
			err := email.GlobalEmailService.SendSubscriptionStartedEmail(
				adminEmail,
				company.Name,
				intent.Plan.Name,
				intent.Amount,
				intent.Currency,
				periodEnd,
				false,
			)
			if err != nil {
				log.Printf("Could not send subscription email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Payment verified successfully",
		"trx_id":       status.TrxID,
		"subscription": sub,
	})
}

// ListPaymentHistory returns the company's bKash payment intents, newest
// first.
func ListPaymentHistory(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	var intents []model.PaymentIntent
	err := database.DB.Preload("Plan").
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&intents).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch payment history",
		})
	}

	return c.JSON(intents)
}
