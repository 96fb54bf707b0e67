package model

import "gorm.io/gorm"

// Discount Types
type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypePercentage DiscountType = "percentage"
)

// Calendar dates are stored as plain YYYY-MM-DD strings; all availability
// checks compare them with string equality.
const DateLayout = "2006-01-02"

type Booking struct {
	gorm.Model
	CompanyID uint `json:"company_id" gorm:"index;not null"`
	RoomID    uint `json:"room_id" gorm:"index;not null"`

	CheckInDate  string `json:"check_in_date" gorm:"type:date;index;not null"`
	CheckOutDate string `json:"check_out_date" gorm:"type:date;not null"`

	CustomerName  string `json:"customer_name" gorm:"not null"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	TotalAmount   float64      `json:"total_amount" gorm:"not null"`
	DiscountType  DiscountType `json:"discount_type" gorm:"default:'fixed'"`
	DiscountValue float64      `json:"discount_value" gorm:"default:0"`
	AdvancePaid   float64      `json:"advance_paid" gorm:"default:0"`

	// Snapshot taken at save time from the company's tax settings; it is
	// not recomputed if those settings change later.
	IsPaid bool `json:"is_paid" gorm:"default:false"`

	ReferredBy  string `json:"referred_by"`
	Notes       string `json:"notes" gorm:"type:text"`
	GuestCount  int    `json:"guest_count" gorm:"default:1"`
	BookingType string `json:"booking_type" gorm:"default:'regular'"`

	Company Company `json:"-" gorm:"foreignKey:CompanyID"`
	Room    Room    `json:"room" gorm:"foreignKey:RoomID"`
}
