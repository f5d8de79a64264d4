package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateOverrides(t *testing.T) {
	t.Run("Mixed Chain", func(t *testing.T) {
		// 链序比例 5/25/40/15/70：第四层不高于基线 40，整层跳过
		allocs := AllocateOverrides(100, []float64{5, 25, 40, 15, 70})
		amounts := make([]float64, len(allocs))
		for i, a := range allocs {
			amounts[i] = a.Amount
		}
		assert.Equal(t, []float64{5, 20, 15, 0, 30}, amounts)
	})

	t.Run("Total Never Exceeds Core", func(t *testing.T) {
		allocs := AllocateOverrides(100, []float64{10, 5, 35, 35, 70, 70, 70, 70, 70})
		total := 0.0
		for _, a := range allocs {
			total += a.Amount
		}
		assert.LessOrEqual(t, total, 100.0)
		// 最高职级 70%：剩余 30% 归平台
		assert.Equal(t, 70.0, total)
	})

	t.Run("Unranked Chain Allocates Nothing", func(t *testing.T) {
		allocs := AllocateOverrides(100, []float64{0, 0, 0})
		for _, a := range allocs {
			assert.Equal(t, 0.0, a.Amount)
		}
	})

	t.Run("Skipped Sponsor Does Not Move Baseline", func(t *testing.T) {
		// 第二层 10 不高于第一层 30，第三层 45 只拿 45-30 的差额
		allocs := AllocateOverrides(200, []float64{30, 10, 45})
		assert.Equal(t, 60.0, allocs[0].Amount)
		assert.Equal(t, 0.0, allocs[1].Amount)
		assert.Equal(t, 30.0, allocs[2].Amount)
	})

	t.Run("Baseline Stops At Hundred", func(t *testing.T) {
		allocs := AllocateOverrides(100, []float64{100, 100})
		assert.Equal(t, 100.0, allocs[0].Amount)
		assert.Equal(t, 0.0, allocs[1].Amount)
	})

	t.Run("Empty Chain", func(t *testing.T) {
		assert.Empty(t, AllocateOverrides(100, nil))
	})
}
