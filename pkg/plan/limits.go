package plan

import "floatbook_backend/internal/model"

const FreePlanName = "Free"

type Limits struct {
	MaxRooms    int
	MaxBookings int
	MaxUsers    int
}

// FreeLimits applies when a company has no active subscription and no Free
// plan row exists in the database.
var FreeLimits = Limits{
	MaxRooms:    2,
	MaxBookings: 20,
	MaxUsers:    1,
}

// ForPlan reads the limits off a plan row. A limit of 0 means unlimited.
func ForPlan(p *model.Plan) Limits {
	if p == nil {
		return FreeLimits
	}
	return Limits{
		MaxRooms:    p.RoomLimit,
		MaxBookings: p.BookingLimit,
		MaxUsers:    p.UserLimit,
	}
}

func Unlimited(limit int) bool {
	return limit <= 0
}

// Allows reports whether one more resource fits under the limit.
func Allows(limit int, current int64) bool {
	return Unlimited(limit) || current < int64(limit)
}
