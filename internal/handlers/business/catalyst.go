package business

import (
	"fmt"

	"stakecontrol/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalystLevelRates 催化奖各层比例（占新质押本金的百分比），1-9 层递减
var CatalystLevelRates = [SponsorChainDepth]float64{9, 3, 1, 0.5, 0.5, 0.25, 0.25, 0.25, 0.25}

// hasActiveStake 判断用户是否持有激活仓位
func hasActiveStake(db *gorm.DB, userID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Stake{}).
		Where("user_id = ? AND status = ?", userID, models.StakeStatusActive).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DistributeCatalyst 新质押触发的推荐链催化奖。
// 沿推荐链最多走 9 层；每层比例固定取自本金，不因中间层跳过而顺延。
// 上级没有激活仓位时该层不发放但层级照常推进；每一层独立按其封顶钳制。
func DistributeCatalyst(tx *gorm.DB, originUserID uint, stakeID uint, stakeAmount float64) error {
	chain, err := SponsorChain(tx, originUserID, SponsorChainDepth)
	if err != nil {
		return fmt.Errorf("walk sponsor chain from user %d: %w", originUserID, err)
	}

	for level, sponsorID := range chain {
		active, err := hasActiveStake(tx, sponsorID)
		if err != nil {
			return err
		}
		if !active {
			// 未激活的上级跳过，不消耗比例
			continue
		}

		raw := stakeAmount * CatalystLevelRates[level] / 100
		allowed, err := ClampIncentive(tx, sponsorID, raw)
		if err != nil {
			return err
		}
		if allowed <= 0 {
			logrus.Debugf("catalyst level %d for sponsor %d clamped to zero (cap reached)", level+1, sponsorID)
			continue
		}

		desc := fmt.Sprintf("catalyst level %d on stake %d (%.2f%% of %.2f)",
			level+1, stakeID, CatalystLevelRates[level], stakeAmount)
		if err := CreditWallet(tx, sponsorID, allowed, models.TxTypeCatalyst, stakeID, desc); err != nil {
			return err
		}
	}
	return nil
}
