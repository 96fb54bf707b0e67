package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportWhereClause(t *testing.T) {
	base := reportFilters{
		companyID: 7,
		startDate: "2025-01-01",
		endDate:   "2025-01-31",
	}

	t.Run("base clause scopes company and dates", func(t *testing.T) {
		f := base
		clause, args := f.whereClause()

		assert.Contains(t, clause, "b.company_id = ?")
		assert.Contains(t, clause, "b.check_in_date >= ?")
		assert.Contains(t, clause, "b.deleted_at IS NULL")
		assert.Equal(t, []interface{}{uint(7), "2025-01-01", "2025-01-31"}, args)
	})

	t.Run("room filter appends argument", func(t *testing.T) {
		f := base
		f.roomID = "42"
		clause, args := f.whereClause()

		assert.Contains(t, clause, "b.room_id = ?")
		assert.Len(t, args, 4)
		assert.Equal(t, "42", args[3])
	})

	t.Run("payment status filters", func(t *testing.T) {
		f := base
		f.paymentStatus = "paid"
		clause, _ := f.whereClause()
		assert.Contains(t, clause, "b.is_paid = TRUE")

		f.paymentStatus = "unpaid"
		clause, _ = f.whereClause()
		assert.Contains(t, clause, "b.is_paid = FALSE")

		f.paymentStatus = "all"
		clause, _ = f.whereClause()
		assert.NotContains(t, clause, "is_paid")
	})

	t.Run("discount status filters", func(t *testing.T) {
		f := base
		f.discountStatus = "discounted"
		clause, _ := f.whereClause()
		assert.Contains(t, clause, "b.discount_value > 0")

		f.discountStatus = "not_discounted"
		clause, _ = f.whereClause()
		assert.Contains(t, clause, "COALESCE(b.discount_value, 0) = 0")
	})

	t.Run("unknown filter values add nothing", func(t *testing.T) {
		f := base
		f.paymentStatus = "sideways"
		f.discountStatus = "sideways"
		clause, args := f.whereClause()

		assert.NotContains(t, clause, "is_paid")
		assert.NotContains(t, clause, "discount_value")
		assert.Len(t, args, 3)
	})
}
