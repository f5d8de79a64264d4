package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CreateStakeRequest 建仓请求体
type CreateStakeRequest struct {
	UserID uint    `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// CreateStake 用钱包余额建立新能量仓
func CreateStake(c *gin.Context) {
	var req CreateStakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stake, err := business.CreateStake(dbconfig.DB, req.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, business.ErrAmountBelowMinimum),
			errors.Is(err, business.ErrUserNotStakeable),
			errors.Is(err, business.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// 落库成功后广播建仓事件，失败只记日志不影响响应
	if dbconfig.RabbitMQ != nil {
		event := gin.H{
			"event":    "stake_created",
			"stake_id": stake.ID,
			"user_id":  stake.UserID,
			"tier":     stake.Tier,
			"amount":   stake.Amount,
		}
		if err := dbconfig.PublishJSON(dbconfig.StakeEventsQueue, event); err != nil {
			logrus.Warnf("publish stake event failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, stake)
}

// ListStakes 列出用户的能量仓
func ListStakes(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	query := dbconfig.DB.Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var stakes []models.Stake
	if err := query.Order("id DESC").Find(&stakes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stakes)
}

// ListStakeRewards 列出某个仓位的收益记录
func ListStakeRewards(c *gin.Context) {
	stakeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	query := dbconfig.DB.Where("stake_id = ?", stakeID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var rewards []models.StakeReward
	if err := query.Order("reward_date DESC").Find(&rewards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rewards)
}

// ClaimRequest 手工领取请求体，reward_ids 为空表示领取全部待领
type ClaimRequest struct {
	RewardIDs []uint `json:"reward_ids"`
}

// ClaimRewards 领取仓位的待领收益（过期、封顶规则在 business 层处理）
func ClaimRewards(c *gin.Context) {
	stakeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := business.CreditPendingRewards(dbconfig.DB, uint(stakeID), req.RewardIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetCapStatus 返回用户的终身收益上限使用情况
func GetCapStatus(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	info, err := business.GetCapInfo(dbconfig.DB, uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}
