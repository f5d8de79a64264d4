package models

import (
	"encoding/json"
	"time"
)

const (
	JobStatusRunning = "running"
	JobStatusSuccess = "success"
	JobStatusFailed  = "failed"

	JobDailyRewards = "daily_rewards"
	JobDailySynergy = "daily_synergy"
	JobDailyRanks   = "daily_ranks"
)

// JobRun 每日批处理的幂等与可观测记录，(job_name, run_date) 唯一
type JobRun struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	JobName    string          `gorm:"size:64;not null;uniqueIndex:idx_job_name_date" json:"job_name"`
	RunDate    string          `gorm:"size:10;not null;uniqueIndex:idx_job_name_date" json:"run_date"` // YYYY-MM-DD
	Status     string          `gorm:"size:20;not null;default:'running'" json:"status"`
	Result     json.RawMessage `gorm:"type:jsonb" json:"result"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (JobRun) TableName() string {
	return "job_runs"
}
