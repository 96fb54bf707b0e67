package model

import "gorm.io/gorm"

// Membership roles
const (
	CompanyRoleAdmin  = "admin"
	CompanyRoleMember = "member"
)

// Company is the tenant root. Every room, booking, membership and
// subscription hangs off exactly one company.
type Company struct {
	gorm.Model
	Name       string  `json:"name" gorm:"not null"`
	LogoURL    string  `json:"logo_url"`
	Address    string  `json:"address"`
	Currency   string  `json:"currency" gorm:"default:'USD'"`
	TaxEnabled bool    `json:"tax_enabled" gorm:"default:false"`
	TaxRate    float64 `json:"tax_rate" gorm:"default:0"`

	// Denormalized from the active subscription for quick reference.
	PlanName string `json:"plan_name" gorm:"default:'Free'"`

	Rooms         []Room         `json:"-" gorm:"foreignKey:CompanyID"`
	Bookings      []Booking      `json:"-" gorm:"foreignKey:CompanyID"`
	Users         []CompanyUser  `json:"-" gorm:"foreignKey:CompanyID"`
	Subscriptions []Subscription `json:"-" gorm:"foreignKey:CompanyID"`
}

// CompanyUser maps a user to the company they belong to. A regular user
// holds at most one membership; superadmins hold none.
type CompanyUser struct {
	gorm.Model
	CompanyID uint   `json:"company_id" gorm:"index;not null"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	UserEmail string `json:"user_email"`
	Role      string `json:"role" gorm:"default:'member'"`

	Company Company `json:"-" gorm:"foreignKey:CompanyID"`
	User    User    `json:"-" gorm:"foreignKey:UserID"`
}
