package business

import (
	"errors"

	"stakecontrol/internal/models"

	"gorm.io/gorm"
)

const (
	// HarvestPoolPercent 收益池占当日平台业绩的比例
	HarvestPoolPercent = 20.0
	// HarvestDailyCapPercent 单仓位每日绩效收益不超过本金的比例
	HarvestDailyCapPercent = 5.0
)

// HarvestSource 读取收益池来源策略，默认 both
func HarvestSource(db *gorm.DB) string {
	var param models.SystemParams
	err := db.Where("param_key = ?", "harvest_source").First(&param).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.HarvestSourceBoth
	}
	if err != nil {
		return models.HarvestSourceBoth
	}
	switch param.Value {
	case models.HarvestSourceStakeVolume, models.HarvestSourceDepositVolume, models.HarvestSourceBoth:
		return param.Value
	default:
		return models.HarvestSourceBoth
	}
}

// DailyPlatformSales 当日平台业绩：按策略取质押额、确认充值额或两者之和
func DailyPlatformSales(db *gorm.DB, day string) (float64, error) {
	source := HarvestSource(db)

	var stakeVolume float64
	if source == models.HarvestSourceStakeVolume || source == models.HarvestSourceBoth {
		if err := db.Model(&models.Stake{}).
			Where("DATE(created_at) = ?", day).
			Select("COALESCE(SUM(amount), 0)").Scan(&stakeVolume).Error; err != nil {
			return 0, err
		}
	}

	var depositVolume float64
	if source == models.HarvestSourceDepositVolume || source == models.HarvestSourceBoth {
		if err := db.Model(&models.PaymentOrder{}).
			Where("direction = ? AND status = ? AND DATE(updated_at) = ?",
				models.PaymentDirectionDeposit, models.PaymentStatusConfirmed, day).
			Select("COALESCE(SUM(amount), 0)").Scan(&depositVolume).Error; err != nil {
			return 0, err
		}
	}

	return stakeVolume + depositVolume, nil
}

// HarvestPool 当日收益池快照
type HarvestPool struct {
	PoolAmount  float64
	TotalShares int64
}

// ComputeHarvestPool 计算当日收益池与全网激活股数
func ComputeHarvestPool(db *gorm.DB, day string) (*HarvestPool, error) {
	sales, err := DailyPlatformSales(db, day)
	if err != nil {
		return nil, err
	}

	var totalShares int64
	if err := db.Model(&models.Stake{}).
		Where("status = ?", models.StakeStatusActive).
		Select("COALESCE(SUM(shares), 0)").Scan(&totalShares).Error; err != nil {
		return nil, err
	}

	return &HarvestPool{
		PoolAmount:  sales * HarvestPoolPercent / 100,
		TotalShares: totalShares,
	}, nil
}

// HarvestForStake 单仓位的绩效收益：按股数分摊收益池，封顶为本金的 5%
func (p *HarvestPool) HarvestForStake(shares int, principal float64) float64 {
	if p.TotalShares <= 0 || p.PoolAmount <= 0 {
		return 0
	}
	harvest := p.PoolAmount / float64(p.TotalShares) * float64(shares)
	if cap := principal * HarvestDailyCapPercent / 100; harvest > cap {
		return cap
	}
	return harvest
}
