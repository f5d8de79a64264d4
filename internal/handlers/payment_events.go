package handlers

import (
	"encoding/json"
	"fmt"

	"stakecontrol/internal/handlers/business"
	"stakecontrol/internal/models"
	dbconfig "stakecontrol/pkg/config"
	"stakecontrol/pkg/payment"

	"gorm.io/gorm/clause"
)

// HandlePaymentMessage 是 worker 消费 payment_events 队列的入口
func HandlePaymentMessage(msg []byte) error {
	var payload payment.CallbackPayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		return fmt.Errorf("unmarshal payment event: %w", err)
	}
	return ProcessPaymentEvent(&payload)
}

// ProcessPaymentEvent 按网关回调结果对账订单。
// 订单行加锁保证重复回调/补单并发下只入账一次。
func ProcessPaymentEvent(payload *payment.CallbackPayload) error {
	raw, _ := json.Marshal(payload)

	tx := dbconfig.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var order models.PaymentOrder
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference = ?", payload.Reference).First(&order).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("load order %s: %w", payload.Reference, err)
	}

	// 已终态的订单直接吞掉重复回调
	if order.Status != models.PaymentStatusPending {
		tx.Rollback()
		return nil
	}

	updates := map[string]interface{}{"raw_payload": raw}
	if payload.ProviderRef != "" {
		updates["provider_ref"] = payload.ProviderRef
	}

	switch payload.Status {
	case payment.CallbackStatusConfirmed:
		updates["status"] = models.PaymentStatusConfirmed
		if order.Direction == models.PaymentDirectionDeposit {
			if err := business.CreditWallet(tx, order.UserID, order.Amount,
				models.TxTypeDeposit, order.ID, "deposit "+order.Reference); err != nil {
				tx.Rollback()
				return err
			}
		}
		// payout 确认：钱在下单时已扣，只落状态
	case payment.CallbackStatusFailed:
		updates["status"] = models.PaymentStatusFailed
		if order.Direction == models.PaymentDirectionPayout {
			// 打款失败原路退回
			if err := business.CreditWallet(tx, order.UserID, order.Amount,
				models.TxTypeWithdraw, order.ID, "withdrawal refund "+order.Reference); err != nil {
				tx.Rollback()
				return err
			}
		}
	default:
		tx.Rollback()
		return fmt.Errorf("unknown callback status %q for order %s", payload.Status, payload.Reference)
	}

	if err := tx.Model(&models.PaymentOrder{}).Where("id = ?", order.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// failAndRefundPayout 网关侧下单失败时走的本地失败路径
func failAndRefundPayout(reference string) error {
	payload := payment.CallbackPayload{
		Reference: reference,
		Status:    payment.CallbackStatusFailed,
	}
	return ProcessPaymentEvent(&payload)
}
