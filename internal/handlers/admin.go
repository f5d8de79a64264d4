package handlers

import (
	"errors"
	"net/http"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
	"stakecontrol/pkg/utils"
	"stakecontrol/schedule"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// RebuildTeamVolumes 按现存有效仓位重放全量双区业绩
func RebuildTeamVolumes(c *gin.Context) {
	count, err := business.RebuildTeamVolumes(dbconfig.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replayed_stakes": count})
}

// RegeneratePlacementTree 备份后按注册顺序重建整棵安置树。
// dry_run=true 时只报告差异不落库。
func RegeneratePlacementTree(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"

	report, err := business.RegeneratePlacementTree(dbconfig.DB, dryRun)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// RestorePlacementTree 用指定备份标签回滚安置树
func RestorePlacementTree(c *gin.Context) {
	tag := c.Query("backup_tag")
	if tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "backup_tag is required"})
		return
	}

	count, err := business.RestorePlacementTree(dbconfig.DB, tag)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored_edges": count, "backup_tag": tag})
}

// GetJobStatus 查询定时任务最近一次运行记录
func GetJobStatus(c *gin.Context) {
	jobName := c.Param("name")

	run, err := business.GetJobStatus(dbconfig.DB, jobName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no runs recorded for job"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// ResetJobRun 删除某天的任务运行记录，允许重跑。
// 只应在确认当天没有产生账务影响时使用。
func ResetJobRun(c *gin.Context) {
	jobName := c.Param("name")
	day := c.Query("date")
	if day == "" {
		day = utils.Today()
	}

	deleted, err := business.ResetJobRun(dbconfig.DB, jobName, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": jobName, "date": day, "deleted": deleted})
}

// TriggerJob 手动补跑某天的批处理任务，幂等保护仍然生效
func TriggerJob(c *gin.Context) {
	jobName := c.Param("name")
	day := c.Query("date")
	if day == "" {
		day = utils.Today()
	}

	result, err := schedule.RunJob(jobName, day)
	if err != nil {
		if errors.Is(err, business.ErrJobAlreadyRan) || errors.Is(err, business.ErrJobRunning) ||
			errors.Is(err, business.ErrJobNeedsReset) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": jobName, "date": day, "result": result})
}

// SystemParamRequest 系统参数写入请求体
type SystemParamRequest struct {
	ParamKey string `json:"param_key" binding:"required"`
	Value    string `json:"value" binding:"required"`
	Remark   string `json:"remark"`
}

// UpsertSystemParam 写系统参数（如 harvest_source）
func UpsertSystemParam(c *gin.Context) {
	var req SystemParamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	param := models.SystemParams{
		ParamKey: req.ParamKey,
		Value:    req.Value,
		Remark:   req.Remark,
	}
	err := dbconfig.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "param_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "remark"}),
	}).Create(&param).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, param)
}

// GetSystemParam 读系统参数
func GetSystemParam(c *gin.Context) {
	key := c.Param("key")

	var param models.SystemParams
	if err := dbconfig.DB.Where("param_key = ?", key).First(&param).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "param not found"})
		return
	}
	c.JSON(http.StatusOK, param)
}

// PurgeQueue 清空指定消息队列，运维排障用
func PurgeQueue(c *gin.Context) {
	queueName := c.Param("name")
	if err := dbconfig.PurgeQueue(queueName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": queueName})
}
