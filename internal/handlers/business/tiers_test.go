package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTier(t *testing.T) {
	t.Run("Band Boundaries", func(t *testing.T) {
		cases := []struct {
			shares int
			tier   string
		}{
			{1, "spark"},
			{9, "spark"},
			{10, "pulse"},
			{99, "pulse"},
			{100, "charge"},
			{999, "charge"},
			{1000, "quantum"},
			{50000, "quantum"},
		}
		for _, tc := range cases {
			tier, err := ResolveTier(tc.shares)
			require.NoError(t, err, "shares=%d", tc.shares)
			assert.Equal(t, tc.tier, tier.Name, "shares=%d", tc.shares)
		}
	})

	t.Run("Below Minimum", func(t *testing.T) {
		_, err := ResolveTier(0)
		assert.Error(t, err)
		_, err = ResolveTier(-3)
		assert.Error(t, err)
	})

	t.Run("Priority Ordering", func(t *testing.T) {
		// 等级优先级必须随股数区间单调递增
		for i := 1; i < len(Tiers); i++ {
			assert.Greater(t, Tiers[i].Priority, Tiers[i-1].Priority)
			assert.Greater(t, Tiers[i].DailyRate, Tiers[i-1].DailyRate)
			assert.Greater(t, Tiers[i].LimitPercent, Tiers[i-1].LimitPercent)
		}
	})
}

func TestTierByName(t *testing.T) {
	tier, ok := TierByName("pulse")
	require.True(t, ok)
	assert.Equal(t, 10, tier.MinShares)
	assert.Equal(t, 99, tier.MaxShares)

	_, ok = TierByName("nonexistent")
	assert.False(t, ok)
}
