package model

import "gorm.io/gorm"

// Plan is a billing tier. A limit of 0 means unlimited.
type Plan struct {
	gorm.Model
	Name         string  `json:"name" gorm:"uniqueIndex;not null"`
	Price        float64 `json:"price" gorm:"not null"`
	RoomLimit    int     `json:"room_limit" gorm:"default:0"`
	BookingLimit int     `json:"booking_limit" gorm:"default:0"`
	UserLimit    int     `json:"user_limit" gorm:"default:0"`

	StripePriceID string `json:"stripe_price_id"`

	Subscriptions []Subscription `json:"-" gorm:"foreignKey:PlanID"`
}
