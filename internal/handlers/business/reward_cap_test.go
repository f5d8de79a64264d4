package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampAmount(t *testing.T) {
	t.Run("Within Available", func(t *testing.T) {
		assert.Equal(t, 50.0, ClampAmount(50, 120))
	})

	t.Run("Clamped To Available", func(t *testing.T) {
		assert.Equal(t, 120.0, ClampAmount(150, 120))
	})

	t.Run("Nothing Available", func(t *testing.T) {
		assert.Equal(t, 0.0, ClampAmount(50, 0))
		assert.Equal(t, 0.0, ClampAmount(50, -10))
	})

	t.Run("Non Positive Proposed", func(t *testing.T) {
		assert.Equal(t, 0.0, ClampAmount(0, 100))
		assert.Equal(t, 0.0, ClampAmount(-5, 100))
	})

	t.Run("Idempotent When Reapplied", func(t *testing.T) {
		clamped := ClampAmount(900, 300)
		assert.Equal(t, clamped, ClampAmount(clamped, 300))
	})
}

func TestSplitCapped(t *testing.T) {
	t.Run("Within Remaining Unchanged", func(t *testing.T) {
		core, harvest := SplitCapped(6.50, 1.20, 100)
		assert.Equal(t, 6.50, core)
		assert.Equal(t, 1.20, harvest)
	})

	t.Run("Scaled Pair Never Exceeds Remaining", func(t *testing.T) {
		// 两部分各自四舍五入都进位时，独立折算会多入一分钱
		core, harvest := SplitCapped(1.00, 1.00, 0.01)
		assert.LessOrEqual(t, core+harvest, 0.01)
		assert.Equal(t, 0.01, core+harvest)
	})

	t.Run("Core Takes Priority On Tiny Remainder", func(t *testing.T) {
		core, harvest := SplitCapped(2.00, 0, 0.01)
		assert.Equal(t, 0.01, core)
		assert.Equal(t, 0.0, harvest)
	})

	t.Run("Nothing Remaining", func(t *testing.T) {
		core, harvest := SplitCapped(5, 5, 0)
		assert.Equal(t, 0.0, core)
		assert.Equal(t, 0.0, harvest)
	})

	t.Run("Zero Reward", func(t *testing.T) {
		core, harvest := SplitCapped(0, 0, 10)
		assert.Equal(t, 0.0, core)
		assert.Equal(t, 0.0, harvest)
	})
}
