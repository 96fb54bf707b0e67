package controller

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/email"
	"floatbook_backend/pkg/plan"
	"floatbook_backend/pkg/utils/jwt"
)

func ListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.DB.Order("price ASC").Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch plans",
		})
	}

	return c.JSON(plans)
}

func GetMySubscription(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	var sub model.Subscription
	err := database.DB.Where("company_id = ? AND status = ? AND current_period_end > ?",
		companyID, model.SubscriptionStatusActive, time.Now()).
		Preload("Plan").
		Order("current_period_end DESC").
		First(&sub).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	return c.JSON(sub)
}

// applyPlanSubscription records a subscription for a company and moves the
// company onto the plan. Any previous active rows are marked canceled so a
// company never has two current subscriptions.
func applyPlanSubscription(tx *gorm.DB, companyID uint, p *model.Plan, periodEnd time.Time, stripeSubID string) (*model.Subscription, error) {
	err := tx.Model(&model.Subscription{}).
		Where("company_id = ? AND status = ?", companyID, model.SubscriptionStatusActive).
		Update("status", model.SubscriptionStatusCanceled).Error
	if err != nil {
		return nil, err
	}

	sub := model.Subscription{
		CompanyID:            companyID,
		PlanID:               p.ID,
		Status:               model.SubscriptionStatusActive,
		CurrentPeriodEnd:     periodEnd,
		StripeSubscriptionID: stripeSubID,
	}
	if err := tx.Create(&sub).Error; err != nil {
		return nil, err
	}

	err = tx.Model(&model.Company{}).Where("id = ?", companyID).
		Update("plan_name", p.Name).Error
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func companyAdminEmail(companyID uint) string {
	var membership model.CompanyUser
	err := database.DB.Where("company_id = ? AND role = ?", companyID, model.CompanyRoleAdmin).
		Order("created_at ASC").
		First(&membership).Error
	if err != nil {
		return ""
	}
	return membership.UserEmail
}

// ActivateKey redeems a one-time activation key for a 30 day subscription.
func ActivateKey(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	var input struct {
		Key string `json:"key"`
	}
	if err := c.BodyParser(&input); err != nil || input.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Activation key is required",
		})
	}

	var key model.ActivationKey
	if err := database.DB.Preload("Plan").Where("key = ?", input.Key).First(&key).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invalid activation key",
		})
	}
	if key.IsUsed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Activation key has already been used",
		})
	}

	periodEnd := time.Now().AddDate(0, 0, 30)

	var sub *model.Subscription
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Guard against two requests redeeming the same key.
		res := tx.Model(&model.ActivationKey{}).
			Where("id = ? AND is_used = FALSE", key.ID).
			Updates(map[string]interface{}{
				"is_used":            true,
				"used_by_company_id": companyID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var txErr error
		sub, txErr = applyPlanSubscription(tx, companyID, &key.Plan, periodEnd, "")
		return txErr
	})
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Activation key has already been used",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not activate key",
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
				key.Plan.Name,
				key.Plan.Price,
				company.Currency,
				periodEnd,
				false,
			)
			if err != nil {
				log.Printf("Could not send subscription email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Plan activated successfully",
		"subscription": sub,
	})
}

type CheckoutInput struct {
	PlanID uint `json:"plan_id"`
}

// CreateCheckoutSession starts a Stripe Checkout for a recurring plan. The
// subscription is recorded when the completed webhook arrives; nothing is
// written here.
func CreateCheckoutSession(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)
	claims := c.Locals("user").(*jwt.Claims)

	input := new(CheckoutInput)
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
	if p.StripePriceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Plan is not available for card checkout",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:5173"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(claims.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(siteURL + "/billing?checkout=success"),
		CancelURL:  stripe.String(siteURL + "/billing?checkout=cancelled"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"company_id": strconv.FormatUint(uint64(companyID), 10),
				"plan_id":    strconv.FormatUint(uint64(p.ID), 10),
			},
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": sess.URL,
		"session_id":   sess.ID,
	})
}

// CancelSubscription cancels the company's active Stripe subscription at the
// provider and marks the local row canceled. Key and bKash subscriptions just
// run out on their own.
func CancelSubscription(c *fiber.Ctx) error {
	companyID := middleware.CompanyID(c)

	var sub model.Subscription
	err := database.DB.Where("company_id = ? AND status = ?", companyID, model.SubscriptionStatusActive).
		Preload("Plan").
		First(&sub).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	if sub.StripeSubscriptionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This subscription cannot be cancelled; it expires on its own",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if _, err := subscription.Cancel(sub.StripeSubscriptionID, nil); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel Stripe subscription",
		})
	}

	// Provider cancellation triggers customer.subscription.deleted, which
	// downgrades the company. The webhook may race this response, so mark
	// the row here as well.
	database.DB.Model(&sub).Update("status", model.SubscriptionStatusCanceled)

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		var sessData struct {
			ID           string `json:"id"`
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(event.Data.Raw, &sessData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		if sessData.Subscription == "" {
			break
		}

		if err := recordStripeSubscription(sessData.Subscription, false); err != nil {
			log.Printf("Could not record subscription %s: %v", sessData.Subscription, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not record subscription",
			})
		}

	case "invoice.payment_succeeded":
		var invData struct {
			Subscription  string `json:"subscription"`
			BillingReason string `json:"billing_reason"`
		}
		if err := json.Unmarshal(event.Data.Raw, &invData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		if invData.Subscription == "" || invData.BillingReason == "subscription_create" {
			// The initial invoice is handled by checkout.session.completed.
			break
		}

		if err := recordStripeSubscription(invData.Subscription, true); err != nil {
			log.Printf("Could not renew subscription %s: %v", invData.Subscription, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not renew subscription",
			})
		}

	case "invoice.payment_failed":
		var invData struct {
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(event.Data.Raw, &invData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		if invData.Subscription == "" {
			break
		}

		err := database.DB.Model(&model.Subscription{}).
			Where("stripe_subscription_id = ? AND status = ?", invData.Subscription, model.SubscriptionStatusActive).
			Update("status", model.SubscriptionStatusPastDue).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}

	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		var sub model.Subscription
		if err := database.DB.Where("stripe_subscription_id = ?", subData.ID).
			Preload("Plan").
			Preload("Company").
			First(&sub).Error; err != nil {
			// Unknown subscription; acknowledge so Stripe stops retrying.
			break
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&sub).Update("status", model.SubscriptionStatusCanceled).Error; err != nil {
				return err
			}
			return tx.Model(&model.Company{}).Where("id = ?", sub.CompanyID).
				Update("plan_name", plan.FreePlanName).Error
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not downgrade company",
			})
		}

		if email.GlobalEmailService != nil {
			adminEmail := companyAdminEmail(sub.CompanyID)
			if adminEmail != "" {
				err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
					adminEmail,
					sub.Company.Name,
					sub.Plan.Name,
				)
				if err != nil {
					log.Printf("Could not send subscription cancellation email: %v", err)
				}
			}
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

// recordStripeSubscription fetches the subscription from Stripe and upserts
// the local row from its metadata. Used for both the initial checkout and
// later renewals, so it is safe to run twice for the same period.
func recordStripeSubscription(stripeSubID string, isRenewal bool) error {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	stripeSub, err := subscription.Get(stripeSubID, nil)
	if err != nil {
		return err
	}

	companyID64, err := strconv.ParseUint(stripeSub.Metadata["company_id"], 10, 64)
	if err != nil {
		return err
	}
	planID64, err := strconv.ParseUint(stripeSub.Metadata["plan_id"], 10, 64)
	if err != nil {
		return err
	}
	companyID := uint(companyID64)
	planID := uint(planID64)

	var p model.Plan
	if err := database.DB.First(&p, planID).Error; err != nil {
		return err
	}

	periodEnd := time.Unix(stripeSub.CurrentPeriodEnd, 0)

	var existing model.Subscription
	err = database.DB.Where("stripe_subscription_id = ?", stripeSubID).First(&existing).Error
	if err == nil {
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"status":             model.SubscriptionStatusActive,
				"current_period_end": periodEnd,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			return tx.Model(&model.Company{}).Where("id = ?", companyID).
				Update("plan_name", p.Name).Error
		})
	} else {
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			_, txErr := applyPlanSubscription(tx, companyID, &p, periodEnd, stripeSubID)
			return txErr
		})
	}
	if err != nil {
		return err
	}

	if email.GlobalEmailService != nil {
		var company model.Company
		if err := database.DB.First(&company, companyID).Error; err == nil {
			adminEmail := companyAdminEmail(companyID)
			if adminEmail != "" {
				err := email.GlobalEmailService.SendSubscriptionStartedEmail(
					adminEmail,
					company.Name,
					p.Name,
					p.Price,
					"USD",
					periodEnd,
					isRenewal,
				)
				if err != nil {
					log.Printf("Could not send subscription email: %v", err)
				}
			}
		}
	}

	return nil
}
