package business

import (
	"errors"
	"fmt"
	"math"
	"time"

	"stakecontrol/internal/models"
	"stakecontrol/pkg/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardClaimWindow 待领取收益的有效期，超时作废
const RewardClaimWindow = 24 * time.Hour

var (
	ErrAmountBelowMinimum = errors.New("stake amount below one share price")
	ErrUserNotStakeable   = errors.New("user is not active or not verified")
)

// CreateStake 建仓。金额按股价折股、按股数落等级；扣款、建仓、
// 催化奖分发、双轨业绩上传在同一事务内完成，任何失败整体回滚。
func CreateStake(db *gorm.DB, userID uint, amount float64) (*models.Stake, error) {
	amount = utils.Round2(amount)
	if amount < SharePrice {
		return nil, ErrAmountBelowMinimum
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	if !user.IsActive || !user.IsVerified {
		return nil, ErrUserNotStakeable
	}

	shares := int(math.Floor(amount / SharePrice))
	tier, err := ResolveTier(shares)
	if err != nil {
		return nil, err
	}
	if shares < tier.MinShares || (tier.MaxShares > 0 && shares > tier.MaxShares) {
		return nil, fmt.Errorf("share count %d outside %s band", shares, tier.Name)
	}

	// 余额预检，不足时不进事务
	if user.WalletBalance < amount {
		return nil, ErrInsufficientBalance
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	stake := models.Stake{
		UserID:       userID,
		Tier:         tier.Name,
		Shares:       shares,
		Amount:       amount,
		DailyRate:    tier.DailyRate,
		LimitPercent: tier.LimitPercent,
		Status:       models.StakeStatusActive,
	}
	if err := tx.Create(&stake).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create stake: %w", err)
	}

	desc := fmt.Sprintf("stake %d shares (%s tier)", shares, tier.Name)
	if err := DebitWallet(tx, userID, amount, models.TxTypeStake, stake.ID, desc); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := DistributeCatalyst(tx, userID, stake.ID, amount); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("distribute catalyst: %w", err)
	}

	if err := PropagateVolume(tx, userID, amount); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("propagate team volume: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &stake, nil
}

// AccrueDailyReward 为单个仓位生成某天的收益记录，以 (stake_id, reward_date)
// 唯一约束保证幂等；重复调用直接返回已有记录。
// 这里只做计提，不做封顶：超额部分在入账时折算或作废。
func AccrueDailyReward(db *gorm.DB, stake *models.Stake, day string, pool *HarvestPool) (*models.StakeReward, bool, error) {
	var existing models.StakeReward
	err := db.Where("stake_id = ? AND reward_date = ?", stake.ID, day).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	core := utils.Round2(stake.Amount * stake.DailyRate / 100)
	harvest := utils.Round2(pool.HarvestForStake(stake.Shares, stake.Amount))

	reward := models.StakeReward{
		StakeID:       stake.ID,
		RewardDate:    day,
		CoreAmount:    core,
		HarvestAmount: harvest,
		TotalAmount:   utils.Round2(core + harvest),
		Status:        models.RewardStatusPending,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reward)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		// 并发竞争时读回已有行
		if err := db.Where("stake_id = ? AND reward_date = ?", stake.ID, day).
			First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	return &reward, true, nil
}

// CreditSummary 一次入账扫描的汇总
type CreditSummary struct {
	Credited      int     `json:"credited"`
	Expired       int     `json:"expired"`
	TotalToWallet float64 `json:"total_to_wallet"`
}

// CreditPendingRewards 领取仓位的待入账收益，按日期从旧到新处理。
// 超过 24 小时未领取的作废；触及终身封顶时按剩余额度等比折算核心与
// 绩效部分。质押人按自身职级留存核心收益的一部分，剩余核心交给级差
// 分发。全部处理完后刷新仓位累计，并在达到封顶时完结仓位。
// rewardIDs 为空时处理该仓位的全部待入账记录。
func CreditPendingRewards(db *gorm.DB, stakeID uint, rewardIDs []uint) (*CreditSummary, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var stake models.Stake
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&stake, stakeID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("load stake %d: %w", stakeID, err)
	}

	query := tx.Where("stake_id = ? AND status = ?", stakeID, models.RewardStatusPending)
	if len(rewardIDs) > 0 {
		query = query.Where("id IN ?", rewardIDs)
	}
	var rewards []models.StakeReward
	if err := query.Order("reward_date asc, id asc").Find(&rewards).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	rankPercent, err := CurrentOverridePercent(tx, stake.UserID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	summary := &CreditSummary{}
	cumulative := stake.TotalRewarded
	now := time.Now()

	for i := range rewards {
		reward := &rewards[i]

		if now.Sub(reward.CreatedAt) > RewardClaimWindow {
			if err := tx.Model(reward).Update("status", models.RewardStatusExpired).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			summary.Expired++
			continue
		}

		remaining := stake.LifetimeCap() - cumulative
		if remaining <= 0 {
			// 终身封顶吃满，后续收益全部作废
			if err := tx.Model(reward).Update("status", models.RewardStatusExpired).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			summary.Expired++
			continue
		}

		core, harvest := SplitCapped(reward.CoreAmount, reward.HarvestAmount, remaining)

		selfCore := utils.Round2(core * rankPercent / 100)
		passUpCore := utils.Round2(core - selfCore)
		toWallet := utils.Round2(harvest + selfCore)

		if toWallet > 0 {
			desc := fmt.Sprintf("daily reward for %s (stake %d)", reward.RewardDate, stake.ID)
			if err := CreditWallet(tx, stake.UserID, toWallet, models.TxTypeReward, reward.ID, desc); err != nil {
				tx.Rollback()
				return nil, err
			}
		}

		if err := DistributePassUp(tx, stake.UserID, reward.ID, passUpCore); err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := tx.Model(reward).Updates(map[string]interface{}{
			"status":           models.RewardStatusCredited,
			"credited_core":    core,
			"credited_harvest": harvest,
			"credited_at":      now,
		}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		cumulative = utils.Round2(cumulative + core + harvest)
		summary.Credited++
		summary.TotalToWallet = utils.Round2(summary.TotalToWallet + toWallet)
	}

	updates := map[string]interface{}{"total_rewarded": cumulative}
	if cumulative >= stake.LifetimeCap() {
		updates["status"] = models.StakeStatusCompleted
		logrus.Infof("stake %d reached lifetime cap %.2f, marking completed", stake.ID, stake.LifetimeCap())
	}
	if err := tx.Model(&models.Stake{}).Where("id = ?", stake.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return summary, nil
}
