package schedule

import (
	"fmt"

	"stakecontrol/internal/models"
)

// RunJob 按任务名分发，给 batch 进程和管理端手动触发用
func RunJob(name, day string) (map[string]interface{}, error) {
	switch name {
	case models.JobDailyRewards:
		return RunDailyRewards(day)
	case models.JobDailySynergy:
		return RunDailySynergy(day)
	case models.JobDailyRanks:
		return RunDailyRanks(day)
	default:
		return nil, fmt.Errorf("unknown job: %s", name)
	}
}
