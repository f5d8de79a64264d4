package business

import (
	"fmt"

	"stakecontrol/internal/models"

	"gorm.io/gorm"
)

// SharePrice 每股固定价格（美元）
const SharePrice = 25.0

// TierDef 能量包等级定义
type TierDef struct {
	Name            string
	MinShares       int
	MaxShares       int // 0 表示不设上限
	DailyRate       float64
	LimitPercent    float64
	SynergyRate     float64 // 对碰奖励比例
	SynergyDailyCap float64 // 对碰每日封顶
	Priority        int     // 越大优先级越高，用于多仓位时取最高等级
}

// Tiers 四个等级，按股数区间划分
var Tiers = []TierDef{
	{Name: "spark", MinShares: 1, MaxShares: 9, DailyRate: 0.50, LimitPercent: 200, SynergyRate: 5, SynergyDailyCap: 500, Priority: 1},
	{Name: "pulse", MinShares: 10, MaxShares: 99, DailyRate: 0.65, LimitPercent: 250, SynergyRate: 6, SynergyDailyCap: 1000, Priority: 2},
	{Name: "charge", MinShares: 100, MaxShares: 999, DailyRate: 0.80, LimitPercent: 300, SynergyRate: 8, SynergyDailyCap: 5000, Priority: 3},
	{Name: "quantum", MinShares: 1000, MaxShares: 0, DailyRate: 1.00, LimitPercent: 500, SynergyRate: 10, SynergyDailyCap: 10000, Priority: 4},
}

// TierByName returns the tier definition for a stored tier name.
func TierByName(name string) (*TierDef, bool) {
	for i := range Tiers {
		if Tiers[i].Name == name {
			return &Tiers[i], true
		}
	}
	return nil, false
}

// ResolveTier maps a share count onto its tier band.
func ResolveTier(shares int) (*TierDef, error) {
	if shares < 1 {
		return nil, fmt.Errorf("share count %d below minimum stake", shares)
	}
	for i := range Tiers {
		t := &Tiers[i]
		if shares < t.MinShares {
			continue
		}
		if t.MaxShares == 0 || shares <= t.MaxShares {
			return t, nil
		}
	}
	return nil, fmt.Errorf("share count %d does not fall into any tier band", shares)
}

// HighestActiveTier 返回用户当前激活仓位中的最高等级，没有激活仓位时返回 nil
func HighestActiveTier(db *gorm.DB, userID uint) (*TierDef, error) {
	var stakes []models.Stake
	if err := db.Where("user_id = ? AND status = ?", userID, models.StakeStatusActive).
		Find(&stakes).Error; err != nil {
		return nil, err
	}

	var best *TierDef
	for _, stake := range stakes {
		tier, ok := TierByName(stake.Tier)
		if !ok {
			continue
		}
		if best == nil || tier.Priority > best.Priority {
			best = tier
		}
	}
	return best, nil
}
