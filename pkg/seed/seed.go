package seed

import (
	"log"

	"gorm.io/gorm"

	"floatbook_backend/internal/model"
)

// SeedPlans creates the default billing tiers. A limit of 0 means unlimited.
func SeedPlans(db *gorm.DB) {
	plans := []model.Plan{
		{
			Name:         "Free",
			Price:        0,
			RoomLimit:    2,
			BookingLimit: 20,
			UserLimit:    1,
		},
		{
			Name:          "Pro",
			Price:         49.99,
			RoomLimit:     20,
			BookingLimit:  500,
			UserLimit:     5,
			StripePriceID: "price_floatbook_pro",
		},
		{
			Name:          "Enterprise",
			Price:         149.99,
			RoomLimit:     0,
			BookingLimit:  0,
			UserLimit:     0,
			StripePriceID: "price_floatbook_enterprise",
		},
	}

	for _, plan := range plans {
		result := db.FirstOrCreate(&plan, model.Plan{Name: plan.Name})
		if result.Error != nil {
			log.Printf("Error creating plan %s: %v", plan.Name, result.Error)
		}
	}

	log.Println("Billing plans seeded successfully!")
}
