package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatbook_backend/internal/model"
)

func TestForPlan(t *testing.T) {
	p := &model.Plan{RoomLimit: 20, BookingLimit: 500, UserLimit: 5}
	limits := ForPlan(p)
	assert.Equal(t, 20, limits.MaxRooms)
	assert.Equal(t, 500, limits.MaxBookings)
	assert.Equal(t, 5, limits.MaxUsers)

	assert.Equal(t, FreeLimits, ForPlan(nil))
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(0, 1000000), "zero limit is unlimited")
	assert.True(t, Allows(2, 1))
	assert.False(t, Allows(2, 2))
	assert.False(t, Allows(2, 3))
}

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey("Pro")
	require.NoError(t, err)
	parts := strings.SplitN(key, "-", 2)
	assert.Len(t, parts, 2)
	assert.Equal(t, "PRO", parts[0])
	assert.Len(t, parts[1], 8)

	entKey, err := GenerateKey("Enterprise")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entKey, "ENT-"))

	blankKey, err := GenerateKey("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(blankKey, "KEY-"))

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		k, err := GenerateKey("Pro")
		require.NoError(t, err)
		assert.False(t, seen[k], "keys must not repeat")
		seen[k] = true
	}
}
