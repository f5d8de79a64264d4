package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHarvestForStake(t *testing.T) {
	t.Run("Pro Rata By Shares", func(t *testing.T) {
		pool := &HarvestPool{PoolAmount: 1000, TotalShares: 500}
		// 每股 $2，10 股得 $20
		assert.Equal(t, 20.0, pool.HarvestForStake(10, 10000))
	})

	t.Run("Capped At Principal Percent", func(t *testing.T) {
		pool := &HarvestPool{PoolAmount: 100000, TotalShares: 10}
		// 每股 $10000，1 股本金 $25：封顶 5% = $1.25
		assert.Equal(t, 1.25, pool.HarvestForStake(1, 25))
	})

	t.Run("Empty Pool", func(t *testing.T) {
		pool := &HarvestPool{PoolAmount: 0, TotalShares: 500}
		assert.Equal(t, 0.0, pool.HarvestForStake(10, 250))
	})

	t.Run("No Active Shares", func(t *testing.T) {
		pool := &HarvestPool{PoolAmount: 1000, TotalShares: 0}
		assert.Equal(t, 0.0, pool.HarvestForStake(10, 250))
	})
}
