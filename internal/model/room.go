package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model
	CompanyID   uint           `json:"company_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"not null"`
	Price       float64        `json:"price" gorm:"not null"`
	Capacity    int            `json:"capacity" gorm:"default:1"`
	Amenities   datatypes.JSON `json:"amenities"` // string array, e.g. ["AC","WiFi"]
	MealOptions string         `json:"meal_options"`

	Company Company `json:"-" gorm:"foreignKey:CompanyID"`
}
