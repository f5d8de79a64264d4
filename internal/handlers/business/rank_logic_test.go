package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetRank(t *testing.T) {
	t.Run("Below All Thresholds", func(t *testing.T) {
		assert.Nil(t, TargetRank(1, 100, 500))
	})

	t.Run("All Three Thresholds Required", func(t *testing.T) {
		// 两项达标一项不达标：不晋级
		assert.Nil(t, TargetRank(2, 250, 999))
		assert.Nil(t, TargetRank(2, 249, 1000))
		assert.Nil(t, TargetRank(1, 250, 1000))
	})

	t.Run("Exact First Rank", func(t *testing.T) {
		rank := TargetRank(2, 250, 1000)
		require.NotNil(t, rank)
		assert.Equal(t, "pioneer", rank.Name)
		assert.Equal(t, 5.0, rank.OverridePercent)
	})

	t.Run("Highest Qualifying Rank Wins", func(t *testing.T) {
		rank := TargetRank(9, 3000, 50000)
		require.NotNil(t, rank)
		// 满足 director 但不满足 executive（直推不足 10）
		assert.Equal(t, "director", rank.Name)
		assert.Equal(t, 25.0, rank.OverridePercent)
	})

	t.Run("Top Rank", func(t *testing.T) {
		rank := TargetRank(30, 1e6, 1e7)
		require.NotNil(t, rank)
		assert.Equal(t, "legend", rank.Name)
		assert.Equal(t, 70.0, rank.OverridePercent)
	})

	t.Run("Ladder Is Strictly Increasing", func(t *testing.T) {
		for i := 1; i < len(RankLadder); i++ {
			assert.Greater(t, RankLadder[i].MinDirects, RankLadder[i-1].MinDirects)
			assert.Greater(t, RankLadder[i].MinPackValue, RankLadder[i-1].MinPackValue)
			assert.Greater(t, RankLadder[i].MinTeamVolume, RankLadder[i-1].MinTeamVolume)
			assert.Greater(t, RankLadder[i].OverridePercent, RankLadder[i-1].OverridePercent)
		}
	})
}
