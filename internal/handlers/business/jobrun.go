package business

import (
	"encoding/json"
	"errors"
	"time"

	"stakecontrol/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrJobAlreadyRan 今天已有成功的同名任务
	ErrJobAlreadyRan = errors.New("job already ran successfully today")
	// ErrJobRunning 同名任务仍在运行（或上次崩溃未清理），需要管理员重置
	ErrJobRunning = errors.New("job is already running for today")
	// ErrJobNeedsReset 上次运行以失败收场，重置记录后才能重跑
	ErrJobNeedsReset = errors.New("previous run failed, reset required before rerun")
)

// StartJobRun 以 (job_name, run_date) 唯一约束作为跨进程的互斥：
// 插入成功即获得执行权；已存在时按状态报告跳过或冲突。失败的记录不会
// 自动重试，管理员通过 ResetJobRun 清理后才能重跑。
func StartJobRun(db *gorm.DB, jobName, day string) (*models.JobRun, error) {
	run := models.JobRun{
		JobName:   jobName,
		RunDate:   day,
		Status:    models.JobStatusRunning,
		StartedAt: time.Now(),
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&run)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 1 {
		return &run, nil
	}

	// 撞上唯一约束：读出已有记录判断状态
	var existing models.JobRun
	if err := db.Where("job_name = ? AND run_date = ?", jobName, day).
		First(&existing).Error; err != nil {
		return nil, err
	}
	switch existing.Status {
	case models.JobStatusSuccess:
		return &existing, ErrJobAlreadyRan
	case models.JobStatusRunning:
		return &existing, ErrJobRunning
	default:
		return &existing, ErrJobNeedsReset
	}
}

// FinishJobRun 标记任务结束并落结果元数据
func FinishJobRun(db *gorm.DB, runID uint, status string, result map[string]interface{}) error {
	meta, err := json.Marshal(result)
	if err != nil {
		return err
	}
	now := time.Now()
	return db.Model(&models.JobRun{}).Where("id = ?", runID).
		Updates(map[string]interface{}{
			"status":      status,
			"result":      json.RawMessage(meta),
			"finished_at": now,
		}).Error
}

// GetJobStatus 返回某任务最近一次运行记录
func GetJobStatus(db *gorm.DB, jobName string) (*models.JobRun, error) {
	var run models.JobRun
	err := db.Where("job_name = ?", jobName).
		Order("run_date desc, id desc").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ResetJobRun 管理员清理某天的任务记录以便重跑
func ResetJobRun(db *gorm.DB, jobName, day string) (int64, error) {
	result := db.Where("job_name = ? AND run_date = ?", jobName, day).
		Delete(&models.JobRun{})
	return result.RowsAffected, result.Error
}
