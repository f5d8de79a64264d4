package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettleCycles(t *testing.T) {
	t.Run("Single Cycle With Carry", func(t *testing.T) {
		s := SettleCycles(250, 180, 5, 1e9)
		assert.Equal(t, 1, s.Cycles)
		assert.Equal(t, 5.0, s.Reward)
		assert.Equal(t, 150.0, s.LeftCarry)
		assert.Equal(t, 80.0, s.RightCarry)
		assert.False(t, s.CapReached)
	})

	t.Run("Volume Conservation", func(t *testing.T) {
		// 消耗量 + 结转量 = 投入量，两侧各自守恒
		left, right := 730.0, 410.0
		s := SettleCycles(left, right, 6, 1e9)
		consumed := float64(s.Cycles) * CycleSize
		assert.Equal(t, left, consumed+s.LeftCarry)
		assert.Equal(t, right, consumed+s.RightCarry)
	})

	t.Run("Below Cycle Size", func(t *testing.T) {
		s := SettleCycles(90, 450, 5, 1e9)
		assert.Equal(t, 0, s.Cycles)
		assert.True(t, s.CapReached)
		// 弱侧清零，强侧只保留差额
		assert.Equal(t, 0.0, s.LeftCarry)
		assert.Equal(t, 360.0, s.RightCarry)
	})

	t.Run("Daily Cap Limits Cycles", func(t *testing.T) {
		// 每轮 $5，余额 $12 只够发 2 轮
		s := SettleCycles(1000, 1000, 5, 12)
		assert.Equal(t, 2, s.Cycles)
		assert.Equal(t, 10.0, s.Reward)
		assert.Equal(t, 800.0, s.LeftCarry)
		assert.Equal(t, 800.0, s.RightCarry)
	})

	t.Run("Daily Cap Exhausted", func(t *testing.T) {
		s := SettleCycles(500, 300, 5, 0)
		assert.True(t, s.CapReached)
		assert.Equal(t, 0, s.Cycles)
		assert.Equal(t, 0.0, s.Reward)
		assert.Equal(t, 200.0, s.LeftCarry)
		assert.Equal(t, 0.0, s.RightCarry)
	})

	t.Run("Equal Legs Fully Consumed", func(t *testing.T) {
		s := SettleCycles(300, 300, 8, 1e9)
		assert.Equal(t, 3, s.Cycles)
		assert.Equal(t, 24.0, s.Reward)
		assert.Equal(t, 0.0, s.LeftCarry)
		assert.Equal(t, 0.0, s.RightCarry)
	})
}
