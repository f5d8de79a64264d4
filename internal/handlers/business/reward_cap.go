package business

import (
	"math"

	"stakecontrol/internal/models"
	"stakecontrol/pkg/utils"

	"gorm.io/gorm"
)

// 计入终身封顶的激励流水类型（catalyst / synergy / passup）
var incentiveTxTypes = []string{
	models.TxTypeCatalyst,
	models.TxTypeSynergy,
	models.TxTypePassUp,
}

// CapInfo 终身激励封顶信息
type CapInfo struct {
	CapAmount  float64 `json:"cap_amount"`
	MaxPercent float64 `json:"max_percent"`
	Used       float64 `json:"used"`
	Available  float64 `json:"available"`
}

// GetCapInfo 计算用户的终身激励封顶：
// 封顶 = 激活仓位总额 × 最高等级的上限比例；已用 = 历史激励流水合计。
// 没有激活仓位时封顶为零，所有激励一律钳为零。
func GetCapInfo(db *gorm.DB, userID uint) (*CapInfo, error) {
	tier, err := HighestActiveTier(db, userID)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return &CapInfo{}, nil
	}

	var totalStaked float64
	if err := db.Model(&models.Stake{}).
		Where("user_id = ? AND status = ?", userID, models.StakeStatusActive).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalStaked).Error; err != nil {
		return nil, err
	}

	var used float64
	if err := db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type IN ? AND status = ?", userID, incentiveTxTypes, models.TxStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&used).Error; err != nil {
		return nil, err
	}

	info := &CapInfo{
		CapAmount:  totalStaked * tier.LimitPercent / 100,
		MaxPercent: tier.LimitPercent,
		Used:       used,
	}
	if avail := info.CapAmount - info.Used; avail > 0 {
		info.Available = avail
	}
	return info, nil
}

// ClampAmount 纯钳制：不超过剩余额度且不为负
func ClampAmount(proposed, available float64) float64 {
	if proposed <= 0 || available <= 0 {
		return 0
	}
	if proposed > available {
		return available
	}
	return proposed
}

// SplitCapped 按剩余额度折算一笔收益的核心与绩效两部分。额度够时原样返回；
// 不够时核心部分等比缩减，绩效部分取额度与核心的差值。两部分分别四舍五入
// 可能各自进位，所以绩效不能独立折算，否则两者之和会超出额度一分钱。
func SplitCapped(core, harvest, remaining float64) (float64, float64) {
	total := utils.Round2(core + harvest)
	if total <= 0 || remaining <= 0 {
		return 0, 0
	}
	if total <= remaining {
		return core, harvest
	}
	allowed := math.Floor(remaining*100+1e-6) / 100
	if allowed <= 0 {
		return 0, 0
	}
	c := utils.Round2(core * remaining / total)
	if c > allowed {
		c = allowed
	}
	return c, utils.Round2(allowed - c)
}

// ClampIncentive 按当前剩余封顶钳制一笔激励。
// 封顶不做预占：每次分发时重新读取已用额度（见 DESIGN.md 的并发说明）。
func ClampIncentive(db *gorm.DB, userID uint, proposed float64) (float64, error) {
	info, err := GetCapInfo(db, userID)
	if err != nil {
		return 0, err
	}
	return ClampAmount(proposed, info.Available), nil
}
