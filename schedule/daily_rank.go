package schedule

import (
	"errors"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	log "github.com/sirupsen/logrus"
)

// RunDailyRanks 全量重算所有活跃用户的职级，升降级都在这里发生
func RunDailyRanks(day string) (map[string]interface{}, error) {
	db := dbconfig.DB

	run, err := business.StartJobRun(db, models.JobDailyRanks, day)
	if err != nil {
		if errors.Is(err, business.ErrJobAlreadyRan) || errors.Is(err, business.ErrJobRunning) {
			log.Infof("> 职级评定任务已存在记录，跳过: %s %s", models.JobDailyRanks, day)
			return nil, err
		}
		return nil, err
	}

	var userIDs []uint
	if err := db.Model(&models.User{}).Where("is_active = ?", true).
		Order("id").Pluck("id", &userIDs).Error; err != nil {
		business.FinishJobRun(db, run.ID, models.JobStatusFailed, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	var (
		evaluated int
		changed   int
		failed    int
	)

	for _, userID := range userIDs {
		before, err := business.CurrentOverridePercent(db, userID)
		if err != nil {
			failed++
			continue
		}

		eval, err := business.AutoPromote(db, userID)
		if err != nil {
			log.Errorf("> 用户 %d 职级评定失败: %v", userID, err)
			failed++
			continue
		}

		evaluated++
		if eval.TargetPercent != before {
			changed++
		}
	}

	result := map[string]interface{}{
		"candidates": len(userIDs),
		"evaluated":  evaluated,
		"changed":    changed,
		"failed":     failed,
	}

	status := models.JobStatusSuccess
	if failed > 0 {
		status = models.JobStatusFailed
	}
	if err := business.FinishJobRun(db, run.ID, status, result); err != nil {
		return result, err
	}

	log.Infof("> 职级评定任务完成: 评定 %d, 变更 %d, 失败 %d", evaluated, changed, failed)
	return result, nil
}
