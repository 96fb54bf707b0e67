package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
)

type RoomInput struct {
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"required"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
	MealOptions string   `json:"meal_options"`
}

func (in *RoomInput) validate() string {
	if in.Name == "" {
		return "Room name is required"
	}
	if in.Price < 0 {
		return "Price cannot be negative"
	}
	if in.Capacity < 0 {
		return "Capacity cannot be negative"
	}
	return ""
}

func ListRooms(c *fiber.Ctx) error {
	var rooms []model.Room
	if err := database.DB.Where("company_id = ?", middleware.CompanyID(c)).
		Order("name ASC").
		Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch rooms",
		})
	}

	return c.JSON(rooms)
}

func CreateRoom(c *fiber.Ctx) error {
	input := new(RoomInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if msg := input.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	amenities, _ := json.Marshal(input.Amenities)

	capacity := input.Capacity
	if capacity == 0 {
		capacity = 1
	}

	room := model.Room{
		CompanyID:   middleware.CompanyID(c),
		Name:        input.Name,
		Price:       input.Price,
		Capacity:    capacity,
		Amenities:   datatypes.JSON(amenities),
		MealOptions: input.MealOptions,
	}

	if err := database.DB.Create(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create room",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

func UpdateRoom(c *fiber.Ctx) error {
	room := c.Locals("room").(*model.Room)

	input := new(RoomInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if msg := input.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	amenities, _ := json.Marshal(input.Amenities)

	room.Name = input.Name
	room.Price = input.Price
	if input.Capacity > 0 {
		room.Capacity = input.Capacity
	}
	room.Amenities = datatypes.JSON(amenities)
	room.MealOptions = input.MealOptions

	if err := database.DB.Save(room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update room",
		})
	}

	return c.JSON(room)
}

// DeleteRoom removes the room only; existing bookings keep their room
// reference for historical reporting.
func DeleteRoom(c *fiber.Ctx) error {
	room := c.Locals("room").(*model.Room)

	if err := database.DB.Delete(room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete room",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Room deleted successfully",
	})
}
