package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterRequest 注册请求体，sponsor_code 可为空（引导期根节点）
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	SponsorCode string `json:"sponsor_code"`
}

// newReferralCode 生成 8 位推荐码
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// RegisterUser 注册新用户并安置进二叉树
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sponsor *models.User
	if req.SponsorCode != "" {
		var found models.User
		err := dbconfig.DB.Where("referral_code = ?", req.SponsorCode).First(&found).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sponsor code"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !found.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sponsor account is deactivated"})
			return
		}
		sponsor = &found
	}

	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		ReferralCode: newReferralCode(),
		IsVerified:   false,
		IsActive:     true,
		Role:         "user",
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	edge := models.PlacementEdge{UserID: user.ID}
	if sponsor != nil {
		edge.SponsorID = &sponsor.ID
		placement := business.FindPlacement(tx, sponsor.ID)
		edge.ParentID = placement.ParentID
		edge.Position = placement.Position
	} else {
		// 无推荐人：全树兜底搜索，树为空时落为根节点
		placement, err := business.FindFallbackPlacement(tx)
		if err == nil {
			edge.ParentID = placement.ParentID
			edge.Position = placement.Position
		}
	}
	if err := tx.Create(&edge).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "placement": edge})
}

// GetUser 查询单个用户
func GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var user models.User
	if err := dbconfig.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// VerifyUser 管理员标记用户通过验证
func VerifyUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	result := dbconfig.DB.Model(&models.User{}).Where("id = ?", id).
		Update("is_verified", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// DeactivateUser 管理员停用账号（只停用，不删除，保持树结构完整）
func DeactivateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	result := dbconfig.DB.Model(&models.User{}).Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": true})
}

// GetGenealogy 返回用户的安置信息：自身边、左右子节点
func GetGenealogy(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var edge models.PlacementEdge
	if err := dbconfig.DB.Where("user_id = ?", id).First(&edge).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Placement not found"})
		return
	}

	var children []models.PlacementEdge
	if err := dbconfig.DB.Where("parent_id = ?", id).Find(&children).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	downline, err := business.DownlineCount(dbconfig.DB, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"edge": edge, "children": children, "downline_count": downline})
}

// GetSponsorChain 返回用户向上 9 层的推荐链
func GetSponsorChain(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	chain, err := business.SponsorChain(dbconfig.DB, uint(id), business.SponsorChainDepth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "sponsor_chain": chain})
}
