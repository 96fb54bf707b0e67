package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
	"floatbook_backend/pkg/email"
	"floatbook_backend/pkg/plan"
)

func InitSubscriptionExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		checkExpiringSubscriptions()
		expireLapsedSubscriptions()
	})

	if err != nil {
		log.Printf("Could not initialize subscription expiry cron: %v", err)
		return
	}

	c.Start()
}

func checkExpiringSubscriptions() {
	log.Println("Checking for expiring subscriptions...")

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		var subs []model.Subscription
		targetDate := time.Now().AddDate(0, 0, days).Format(model.DateLayout)

		err := database.DB.Where("DATE(current_period_end) = ? AND status = ?", targetDate, model.SubscriptionStatusActive).
			Preload("Company").
			Preload("Plan").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching expiring subscriptions: %v", err)
			continue
		}

		log.Printf("Found %d subscriptions expiring in %d days", len(subs), days)

		for _, sub := range subs {
			if email.GlobalEmailService == nil {
				continue
			}

			adminEmail, err := companyAdminEmail(sub.CompanyID)
			if err != nil {
				log.Printf("No admin email for company %d: %v", sub.CompanyID, err)
				continue
			}

			err = email.GlobalEmailService.SendSubscriptionExpiryWarning(
				adminEmail,
				sub.Company.Name,
				sub.Plan.Name,
				sub.CurrentPeriodEnd,
				days,
			)
			if err != nil {
				log.Printf("Error sending expiry warning to %s: %v", adminEmail, err)
			}
		}
	}
}

// expireLapsedSubscriptions closes out active subscriptions whose period has
// ended and reverts the company to the Free plan. Stripe subscriptions renew
// through the webhook; bKash and activation-key subscriptions have no
// provider-side lifecycle, so this sweep is their only exit path.
func expireLapsedSubscriptions() {
	var subs []model.Subscription
	err := database.DB.Where("status = ? AND current_period_end < ? AND stripe_subscription_id = ''",
		model.SubscriptionStatusActive, time.Now()).
		Preload("Company").
		Preload("Plan").
		Find(&subs).Error

	if err != nil {
		log.Printf("Error fetching lapsed subscriptions: %v", err)
		return
	}

	for _, sub := range subs {
		if err := database.DB.Model(&sub).Update("status", model.SubscriptionStatusExpired).Error; err != nil {
			log.Printf("Error expiring subscription %d: %v", sub.ID, err)
			continue
		}

		if err := database.DB.Model(&model.Company{}).
			Where("id = ?", sub.CompanyID).
			Update("plan_name", plan.FreePlanName).Error; err != nil {
			log.Printf("Error reverting company %d to the Free plan: %v", sub.CompanyID, err)
			continue
		}

		log.Printf("Subscription %d for company %d expired, reverted to Free", sub.ID, sub.CompanyID)

		if email.GlobalEmailService != nil {
			if adminEmail, err := companyAdminEmail(sub.CompanyID); err == nil {
				if err := email.GlobalEmailService.SendSubscriptionCancelledEmail(adminEmail, sub.Company.Name, sub.Plan.Name); err != nil {
					log.Printf("Error sending expiry notice to %s: %v", adminEmail, err)
				}
			}
		}
	}
}

func companyAdminEmail(companyID uint) (string, error) {
	var membership model.CompanyUser
	err := database.DB.Where("company_id = ? AND role = ?", companyID, model.CompanyRoleAdmin).
		First(&membership).Error
	if err != nil {
		return "", err
	}
	return membership.UserEmail, nil
}
