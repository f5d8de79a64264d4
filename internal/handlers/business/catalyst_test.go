package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalystLevelRates(t *testing.T) {
	t.Run("Level Amounts", func(t *testing.T) {
		// $1000 质押：一层 $90，二层 $30
		assert.Equal(t, 90.0, 1000*CatalystLevelRates[0]/100)
		assert.Equal(t, 30.0, 1000*CatalystLevelRates[1]/100)
	})

	t.Run("Rates Are Non Increasing", func(t *testing.T) {
		for i := 1; i < len(CatalystLevelRates); i++ {
			assert.LessOrEqual(t, CatalystLevelRates[i], CatalystLevelRates[i-1])
		}
	})

	t.Run("Total Payout Percent", func(t *testing.T) {
		total := 0.0
		for _, rate := range CatalystLevelRates {
			total += rate
		}
		assert.Equal(t, 15.0, total)
	})
}
