package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
	"stakecontrol/pkg/payment"
	"stakecontrol/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 进程级网关客户端，延迟到首次使用再构造（.env 在 main 里才加载）
var (
	gatewayOnce   sync.Once
	gatewayClient *payment.Client
)

func gateway() *payment.Client {
	gatewayOnce.Do(func() {
		gatewayClient = payment.NewClient()
	})
	return gatewayClient
}

// GetWalletBalance 查询钱包余额
func GetWalletBalance(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var user models.User
	if err := dbconfig.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "balance": utils.Round2(user.WalletBalance)})
}

// ListWalletTransactions 钱包流水，支持按类型过滤
func ListWalletTransactions(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	query := dbconfig.DB.Where("user_id = ?", userID)
	if txType := c.Query("type"); txType != "" {
		query = query.Where("type = ?", txType)
	}

	var txs []models.WalletTransaction
	if err := query.Order("id DESC").Limit(500).Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// DepositRequest 充值请求体
type DepositRequest struct {
	UserID uint    `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// CreateDeposit 发起充值：建本地订单后向网关下单，回调确认后才入账
func CreateDeposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	var user models.User
	if err := dbconfig.DB.First(&user, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	order := models.PaymentOrder{
		UserID:    req.UserID,
		Direction: models.PaymentDirectionDeposit,
		Amount:    req.Amount,
		Reference: uuid.NewString(),
		Status:    models.PaymentStatusPending,
	}
	if err := dbconfig.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	gw, err := gateway().CreatePayment(order.Reference, order.UserID, order.Amount)
	if err != nil {
		logrus.Errorf("gateway deposit failed for order %s: %v", order.Reference, err)
		dbconfig.DB.Model(&order).Update("status", models.PaymentStatusFailed)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
		return
	}

	if gw.ProviderRef != "" {
		dbconfig.DB.Model(&order).Update("provider_ref", gw.ProviderRef)
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "pay_url": gw.PayURL})
}

// WithdrawRequest 提现请求体
type WithdrawRequest struct {
	UserID      uint    `json:"user_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
}

// CreateWithdraw 发起提现：先冻结扣款再向网关发起打款，失败回调时原路退回
func CreateWithdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	order := models.PaymentOrder{
		UserID:    req.UserID,
		Direction: models.PaymentDirectionPayout,
		Amount:    req.Amount,
		Reference: uuid.NewString(),
		Status:    models.PaymentStatusPending,
	}

	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
		return
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := business.DebitWallet(tx, req.UserID, req.Amount, models.TxTypeWithdraw, order.ID,
		"withdrawal "+order.Reference); err != nil {
		tx.Rollback()
		if err == business.ErrInsufficientBalance {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	gw, err := gateway().CreatePayout(order.Reference, order.UserID, order.Amount, req.Destination)
	if err != nil {
		// 网关下单失败：标记失败并立即退款
		logrus.Errorf("gateway payout failed for order %s: %v", order.Reference, err)
		if ferr := failAndRefundPayout(order.Reference); ferr != nil {
			logrus.Errorf("refund failed for order %s: %v", order.Reference, ferr)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
		return
	}

	if gw.ProviderRef != "" {
		dbconfig.DB.Model(&order).Update("provider_ref", gw.ProviderRef)
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// PaymentCallback 网关回调入口。只做验单与转发，实际对账由 worker 串行处理。
func PaymentCallback(c *gin.Context) {
	var payload payment.CallbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.PaymentOrder
	if err := dbconfig.DB.Where("reference = ?", payload.Reference).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown order reference"})
		return
	}

	if dbconfig.RabbitMQ != nil {
		if err := dbconfig.PublishJSON(dbconfig.PaymentEventsQueue, payload); err != nil {
			logrus.Errorf("publish payment event failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue event"})
			return
		}
	} else {
		// 没接消息队列时退化为同步处理
		if err := ProcessPaymentEvent(&payload); err != nil {
			logrus.Errorf("process payment event failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

// RequeryPaymentOrder 管理员补单：回调丢失时主动向网关查询并按结果对账
func RequeryPaymentOrder(c *gin.Context) {
	reference := c.Param("reference")

	var order models.PaymentOrder
	if err := dbconfig.DB.Where("reference = ?", reference).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown order reference"})
		return
	}
	if order.Status != models.PaymentStatusPending {
		c.JSON(http.StatusOK, gin.H{"order": order, "requeried": false})
		return
	}

	gw, err := gateway().QueryStatus(reference)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	payload := payment.CallbackPayload{
		Reference:   gw.Reference,
		ProviderRef: gw.ProviderRef,
		Amount:      gw.Amount,
		Status:      gw.Status,
	}
	if err := ProcessPaymentEvent(&payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dbconfig.DB.Where("reference = ?", reference).First(&order)
	c.JSON(http.StatusOK, gin.H{"order": order, "requeried": true})
}
