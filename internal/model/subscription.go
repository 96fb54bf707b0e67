package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription statuses
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

type Subscription struct {
	gorm.Model
	CompanyID        uint      `json:"company_id" gorm:"index;not null"`
	PlanID           uint      `json:"plan_id" gorm:"not null"`
	Status           string    `json:"status" gorm:"default:'active'"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`

	// Empty for bKash and activation-key subscriptions.
	StripeSubscriptionID string `json:"stripe_subscription_id" gorm:"index"`

	Company Company `json:"-" gorm:"foreignKey:CompanyID"`
	Plan    Plan    `json:"plan" gorm:"foreignKey:PlanID"`
}

// ActivationKey is a one-time code redeemable for a plan upgrade without
// going through a payment provider.
type ActivationKey struct {
	gorm.Model
	Key             string `json:"key" gorm:"uniqueIndex;not null"`
	PlanID          uint   `json:"plan_id" gorm:"not null"`
	IsUsed          bool   `json:"is_used" gorm:"default:false"`
	UsedByCompanyID *uint  `json:"used_by_company_id"`

	Plan Plan `json:"plan" gorm:"foreignKey:PlanID"`
}

// Payment intent statuses (bKash transaction statuses are lowercased into
// this column when verification does not complete).
const (
	PaymentIntentStatusPending   = "pending"
	PaymentIntentStatusCompleted = "completed"
	PaymentIntentStatusFailed    = "failed"
)

// PaymentIntent tracks an in-flight bKash checkout for a plan purchase.
type PaymentIntent struct {
	gorm.Model
	CompanyID uint    `json:"company_id" gorm:"index;not null"`
	PlanID    uint    `json:"plan_id" gorm:"not null"`
	UserID    uint    `json:"user_id" gorm:"index;not null"`
	Amount    float64 `json:"amount" gorm:"not null"`
	Currency  string  `json:"currency" gorm:"default:'BDT'"`
	Status    string  `json:"status" gorm:"default:'pending'"`

	// Sent to bKash as the merchant invoice number.
	InvoiceNumber  string `json:"invoice_number" gorm:"uniqueIndex"`
	BkashPaymentID string `json:"bkash_payment_id" gorm:"index"`
	BkashTrxID     string `json:"bkash_trx_id"`

	Company Company `json:"-" gorm:"foreignKey:CompanyID"`
	Plan    Plan    `json:"plan" gorm:"foreignKey:PlanID"`
}
