package schedule

import (
	"errors"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	log "github.com/sirupsen/logrus"
)

// RunDailySynergy 对所有有业绩记录的用户做当日对碰结算。
// 每个用户独立事务，单个失败不影响其他用户。
func RunDailySynergy(day string) (map[string]interface{}, error) {
	db := dbconfig.DB

	run, err := business.StartJobRun(db, models.JobDailySynergy, day)
	if err != nil {
		if errors.Is(err, business.ErrJobAlreadyRan) || errors.Is(err, business.ErrJobRunning) {
			log.Infof("> 对碰结算任务已存在记录，跳过: %s %s", models.JobDailySynergy, day)
			return nil, err
		}
		return nil, err
	}

	var userIDs []uint
	if err := db.Model(&models.TeamVolume{}).Order("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		business.FinishJobRun(db, run.ID, models.JobStatusFailed, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	var (
		settled     int
		totalReward float64
		failed      int
	)

	for _, userID := range userIDs {
		tx := db.Begin()
		if tx.Error != nil {
			failed++
			continue
		}

		cycle, err := business.SettleDailyCycles(tx, userID, day)
		if err != nil {
			tx.Rollback()
			log.Errorf("> 用户 %d 对碰结算失败: %v", userID, err)
			failed++
			continue
		}
		if err := tx.Commit().Error; err != nil {
			log.Errorf("> 用户 %d 对碰结算提交失败: %v", userID, err)
			failed++
			continue
		}

		if cycle != nil {
			settled++
			totalReward += cycle.RewardAmount
		}
	}

	result := map[string]interface{}{
		"candidates":   len(userIDs),
		"settled":      settled,
		"total_reward": totalReward,
		"failed":       failed,
	}

	status := models.JobStatusSuccess
	if failed > 0 {
		status = models.JobStatusFailed
	}
	if err := business.FinishJobRun(db, run.ID, status, result); err != nil {
		return result, err
	}

	log.Infof("> 对碰结算任务完成: 候选 %d, 结算 %d, 发放 %.2f, 失败 %d", len(userIDs), settled, totalReward, failed)
	return result, nil
}
