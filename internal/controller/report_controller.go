package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/internal/model"
	"floatbook_backend/pkg/database"
)

// Report row shapes, matching what the report screens consume. The client
// only sums these rows for its cards; all aggregation happens here.
type ReportDailyStat struct {
	ReportDate    string  `json:"report_date"`
	TotalBookings int64   `json:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue"`
	NewCustomers  int64   `json:"new_customers"`
}

type ReportRoomStat struct {
	RoomName      string  `json:"room_name"`
	TotalBookings int64   `json:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type ReportFinancialSummary struct {
	PaidRevenue   float64 `json:"paid_revenue"`
	UnpaidRevenue float64 `json:"unpaid_revenue"`
	TotalAdvance  float64 `json:"total_advance"`
	TotalDue      float64 `json:"total_due"`
}

type ReportDiscount struct {
	DiscountType    string  `json:"discount_type"`
	BookingCount    int64   `json:"booking_count"`
	TotalDiscounted float64 `json:"total_discounted"`
}

type ReportOccupancy struct {
	OccupancyRate float64 `json:"occupancy_rate"`
}

type reportFilters struct {
	companyID      uint
	startDate      string
	endDate        string
	roomID         string
	paymentStatus  string
	discountStatus string
	taxFactor      float64
}

// parseReportFilters reads the shared report query params and resolves the
// company's tax factor for revenue expressions. Defaults to the last 30 days.
func parseReportFilters(c *fiber.Ctx) (*reportFilters, error) {
	companyID := middleware.CompanyID(c)

	f := &reportFilters{
		companyID:      companyID,
		startDate:      c.Query("start_date", time.Now().AddDate(0, 0, -29).Format(model.DateLayout)),
		endDate:        c.Query("end_date", time.Now().Format(model.DateLayout)),
		roomID:         c.Query("room_id"),
		paymentStatus:  c.Query("payment_status", "all"),
		discountStatus: c.Query("discount_status", "all"),
		taxFactor:      1,
	}

	if _, err := time.Parse(model.DateLayout, f.startDate); err != nil {
		return nil, err
	}
	if _, err := time.Parse(model.DateLayout, f.endDate); err != nil {
		return nil, err
	}

	var company model.Company
	if err := database.DB.First(&company, companyID).Error; err != nil {
		return nil, err
	}
	if company.TaxEnabled {
		f.taxFactor = 1 + company.TaxRate/100
	}

	return f, nil
}

// finalTotalExpr is the per-booking discounted, taxed total used by the
// revenue reports; the tax factor is bound as an argument.
const finalTotalExpr = `(b.total_amount - CASE WHEN b.discount_type = 'percentage'
	THEN b.total_amount * b.discount_value / 100
	ELSE b.discount_value END) * ?`

func (f *reportFilters) whereClause() (string, []interface{}) {
	clause := "b.deleted_at IS NULL AND b.company_id = ? AND b.check_in_date >= ? AND b.check_in_date <= ?"
	args := []interface{}{f.companyID, f.startDate, f.endDate}

	if f.roomID != "" {
		clause += " AND b.room_id = ?"
		args = append(args, f.roomID)
	}

	switch f.paymentStatus {
	case "paid":
		clause += " AND b.is_paid = TRUE"
	case "unpaid":
		clause += " AND b.is_paid = FALSE"
	}

	switch f.discountStatus {
	case "discounted":
		clause += " AND b.discount_value > 0"
	case "not_discounted":
		clause += " AND COALESCE(b.discount_value, 0) = 0"
	}

	return clause, args
}

func GetDailyStats(c *fiber.Ctx) error {
	f, err := parseReportFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report filters",
		})
	}

	where, args := f.whereClause()
	args = append([]interface{}{f.taxFactor}, args...)

	var stats []ReportDailyStat
	err = database.DB.Raw(`
        SELECT
            b.check_in_date::text AS report_date,
            COUNT(*) AS total_bookings,
            COALESCE(SUM(`+finalTotalExpr+`), 0) AS total_revenue,
            COUNT(DISTINCT b.customer_name) AS new_customers
        FROM bookings b
        WHERE `+where+`
        GROUP BY b.check_in_date
        ORDER BY b.check_in_date
    `, args...).Scan(&stats).Error

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch daily stats",
		})
	}

	return c.JSON(stats)
}

func GetRoomStats(c *fiber.Ctx) error {
	f, err := parseReportFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report filters",
		})
	}

	where, args := f.whereClause()
	args = append([]interface{}{f.taxFactor}, args...)

	var stats []ReportRoomStat
	err = database.DB.Raw(`
        SELECT
            r.name AS room_name,
            COUNT(*) AS total_bookings,
            COALESCE(SUM(`+finalTotalExpr+`), 0) AS total_revenue
        FROM bookings b
        JOIN rooms r ON r.id = b.room_id
        WHERE `+where+`
        GROUP BY r.name
        ORDER BY total_revenue DESC
    `, args...).Scan(&stats).Error

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch room stats",
		})
	}

	return c.JSON(stats)
}

func GetFinancialSummary(c *fiber.Ctx) error {
	f, err := parseReportFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report filters",
		})
	}

	where, args := f.whereClause()
	args = append([]interface{}{f.taxFactor}, args...)

	var summary ReportFinancialSummary
	err = database.DB.Raw(`
        SELECT
            COALESCE(SUM(CASE WHEN t.is_paid THEN t.final_total ELSE 0 END), 0) AS paid_revenue,
            COALESCE(SUM(CASE WHEN NOT t.is_paid THEN t.final_total ELSE 0 END), 0) AS unpaid_revenue,
            COALESCE(SUM(t.advance_paid), 0) AS total_advance,
            COALESCE(SUM(GREATEST(t.final_total - t.advance_paid, 0)), 0) AS total_due
        FROM (
            SELECT b.is_paid, b.advance_paid, `+finalTotalExpr+` AS final_total
            FROM bookings b
            WHERE `+where+`
        ) t
    `, args...).Scan(&summary).Error

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch financial summary",
		})
	}

	return c.JSON(summary)
}

// GetDiscountReport breaks discounted bookings down by discount type. The
// discount-status filter does not apply here; the report is always scoped
// to discounted bookings.
func GetDiscountReport(c *fiber.Ctx) error {
	f, err := parseReportFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report filters",
		})
	}
	f.discountStatus = "all"

	where, args := f.whereClause()

	var report []ReportDiscount
	err = database.DB.Raw(`
        SELECT
            b.discount_type,
            COUNT(*) AS booking_count,
            COALESCE(SUM(CASE WHEN b.discount_type = 'percentage'
                THEN b.total_amount * b.discount_value / 100
                ELSE b.discount_value END), 0) AS total_discounted
        FROM bookings b
        WHERE `+where+` AND b.discount_value > 0
        GROUP BY b.discount_type
        ORDER BY b.discount_type
    `, args...).Scan(&report).Error

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch discount report",
		})
	}

	return c.JSON(report)
}

// GetOccupancyReport computes booked room-nights over available room-nights
// for the range. Payment and discount filters do not apply.
func GetOccupancyReport(c *fiber.Ctx) error {
	f, err := parseReportFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report filters",
		})
	}
	f.paymentStatus = "all"
	f.discountStatus = "all"

	where, args := f.whereClause()

	var bookingCount int64
	if err := database.DB.Raw("SELECT COUNT(*) FROM bookings b WHERE "+where, args...).
		Scan(&bookingCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch occupancy report",
		})
	}

	roomQuery := database.DB.Model(&model.Room{}).Where("company_id = ?", f.companyID)
	if f.roomID != "" {
		roomQuery = roomQuery.Where("id = ?", f.roomID)
	}
	var roomCount int64
	roomQuery.Count(&roomCount)

	start, _ := time.Parse(model.DateLayout, f.startDate)
	end, _ := time.Parse(model.DateLayout, f.endDate)
	days := int64(end.Sub(start).Hours()/24) + 1

	rate := 0.0
	if roomCount > 0 && days > 0 {
		rate = float64(bookingCount) / float64(roomCount*days) * 100
	}

	return c.JSON(ReportOccupancy{OccupancyRate: rate})
}
