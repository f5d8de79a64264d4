package handlers

import (
	"net/http"
	"strconv"

	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetTeamVolume 查询用户当前的双区业绩与结转
func GetTeamVolume(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var tv models.TeamVolume
	err = dbconfig.DB.Where("user_id = ?", userID).First(&tv).Error
	if err == gorm.ErrRecordNotFound {
		// 没有记录等同于零业绩
		c.JSON(http.StatusOK, models.TeamVolume{UserID: uint(userID)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tv)
}

// ListTeamCycles 查询用户的对碰结算历史
func ListTeamCycles(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	query := dbconfig.DB.Where("user_id = ?", userID)
	if day := c.Query("date"); day != "" {
		query = query.Where("cycle_date = ?", day)
	}

	var cycles []models.TeamCycle
	if err := query.Order("id DESC").Limit(200).Find(&cycles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cycles)
}
