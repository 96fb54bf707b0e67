package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"floatbook_backend/internal/model"
)

func room(id uint, name string) model.Room {
	return model.Room{Model: gorm.Model{ID: id}, Name: name}
}

func bookingOn(roomID uint, checkIn, checkOut string) model.Booking {
	return model.Booking{RoomID: roomID, CheckInDate: checkIn, CheckOutDate: checkOut}
}

func TestAvailableRoomsForDate(t *testing.T) {
	rooms := []model.Room{room(1, "Deck A"), room(2, "Deck B"), room(3, "Cabin")}

	t.Run("no bookings leaves every room available", func(t *testing.T) {
		available := availableRoomsForDate(rooms, nil, "2026-08-10")
		assert.Len(t, available, 3)
	})

	t.Run("booking removes the room on its check-in date only", func(t *testing.T) {
		bookings := []model.Booking{bookingOn(2, "2026-08-10", "2026-08-12")}

		available := availableRoomsForDate(rooms, bookings, "2026-08-10")
		assert.Len(t, available, 2)
		for _, r := range available {
			assert.NotEqual(t, uint(2), r.ID)
		}

		// Adjacent dates are unaffected, including dates inside the stay.
		assert.Len(t, availableRoomsForDate(rooms, bookings, "2026-08-09"), 3)
		assert.Len(t, availableRoomsForDate(rooms, bookings, "2026-08-11"), 3)
	})

	t.Run("all rooms booked leaves an empty list", func(t *testing.T) {
		bookings := []model.Booking{
			bookingOn(1, "2026-08-10", "2026-08-10"),
			bookingOn(2, "2026-08-10", "2026-08-11"),
			bookingOn(3, "2026-08-10", "2026-08-15"),
		}
		assert.Empty(t, availableRoomsForDate(rooms, bookings, "2026-08-10"))
	})
}

func TestBookingsForDate(t *testing.T) {
	bookings := []model.Booking{
		bookingOn(1, "2026-08-10", "2026-08-12"),
		bookingOn(2, "2026-08-11", "2026-08-12"),
		bookingOn(3, "2026-08-10", "2026-08-10"),
	}

	assert.Len(t, bookingsForDate(bookings, "2026-08-10"), 2)
	assert.Len(t, bookingsForDate(bookings, "2026-08-11"), 1)
	assert.Empty(t, bookingsForDate(bookings, "2026-08-12"))
}
