package handlers

import (
	"net/http"
	"strconv"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetUserRank 查询用户当前职级与拿点比例
func GetUserRank(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var ur models.UserRank
	err = dbconfig.DB.Where("user_id = ?", userID).First(&ur).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusOK, models.UserRank{UserID: uint(userID), Rank: business.RankUnranked})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ur)
}

// GetRankProgress 返回用户距离各职级门槛的实时数据
func GetRankProgress(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	eval, err := business.EvaluateRank(dbconfig.DB, uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, eval)
}

// PromoteUserRank 管理员手动触发单个用户的职级评定
func PromoteUserRank(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	eval, err := business.AutoPromote(dbconfig.DB, uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "evaluation": eval})
}

// ListRankLadder 公开职级阶梯配置
func ListRankLadder(c *gin.Context) {
	c.JSON(http.StatusOK, business.RankLadder)
}
