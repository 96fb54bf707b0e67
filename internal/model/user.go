package model

import "gorm.io/gorm"

const (
	SystemRoleUser       = "user"
	SystemRoleSuperadmin = "superadmin"
)

type User struct {
	gorm.Model
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   string `json:"-" gorm:"not null"`
	SystemRole string `json:"system_role" gorm:"default:'user'"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`

	Memberships []CompanyUser `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) IsSuperadmin() bool {
	return u.SystemRole == SystemRoleSuperadmin
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID,
		"email":       u.Email,
		"system_role": u.SystemRole,
		"is_active":   u.IsActive,
		"created_at":  u.CreatedAt,
	}
}
