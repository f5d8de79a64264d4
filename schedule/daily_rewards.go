package schedule

import (
	"errors"
	"time"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	log "github.com/sirupsen/logrus"
)

const rewardBatchSize = 500

// RunDailyRewards 发放当日的基础收益与丰收分红（只记账为待领取，不直接入钱包）。
// 同一天重复调用是幂等空操作。
func RunDailyRewards(day string) (map[string]interface{}, error) {
	db := dbconfig.DB

	run, err := business.StartJobRun(db, models.JobDailyRewards, day)
	if err != nil {
		if errors.Is(err, business.ErrJobAlreadyRan) || errors.Is(err, business.ErrJobRunning) {
			log.Infof("> 每日收益任务已存在记录，跳过: %s %s", models.JobDailyRewards, day)
			return nil, err
		}
		return nil, err
	}

	pool, err := business.ComputeHarvestPool(db, day)
	if err != nil {
		business.FinishJobRun(db, run.ID, models.JobStatusFailed, map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	log.Infof("> 丰收池计算完成: 池额 %.2f, 总份额 %d", pool.PoolAmount, pool.TotalShares)

	var (
		accrued int
		skipped int
		failed  int
		lastID  uint
	)

	for {
		var stakes []models.Stake
		if err := db.Where("status = ? AND id > ?", models.StakeStatusActive, lastID).
			Order("id").Limit(rewardBatchSize).Find(&stakes).Error; err != nil {
			business.FinishJobRun(db, run.ID, models.JobStatusFailed, map[string]interface{}{"error": err.Error()})
			return nil, err
		}
		if len(stakes) == 0 {
			break
		}

		for i := range stakes {
			stake := stakes[i]
			lastID = stake.ID

			_, created, err := business.AccrueDailyReward(db, &stake, day, pool)
			if err != nil {
				// 单仓失败不阻断整批
				log.Errorf("> 仓位 %d 收益入账失败: %v", stake.ID, err)
				failed++
				continue
			}
			if created {
				accrued++
			} else {
				skipped++
			}
		}
	}

	expired, err := expireStaleRewards()
	if err != nil {
		log.Errorf("> 过期收益清理失败: %v", err)
	}

	result := map[string]interface{}{
		"pool_amount":  pool.PoolAmount,
		"total_shares": pool.TotalShares,
		"accrued":      accrued,
		"skipped":      skipped,
		"failed":       failed,
		"expired":      expired,
	}

	// 单仓失败只记在结果元数据里，整体状态仍为成功；
	// failed 只留给批次本身中断的情形
	if err := business.FinishJobRun(db, run.ID, models.JobStatusSuccess, result); err != nil {
		return result, err
	}

	log.Infof("> 每日收益任务完成: 新增 %d, 已存在 %d, 失败 %d, 过期 %d", accrued, skipped, failed, expired)
	return result, nil
}

// expireStaleRewards 把超过领取窗口仍未领取的收益批量置为过期
func expireStaleRewards() (int64, error) {
	cutoff := time.Now().Add(-business.RewardClaimWindow)
	result := dbconfig.DB.Model(&models.StakeReward{}).
		Where("status = ? AND created_at < ?", models.RewardStatusPending, cutoff).
		Updates(map[string]interface{}{"status": models.RewardStatusExpired})
	return result.RowsAffected, result.Error
}
