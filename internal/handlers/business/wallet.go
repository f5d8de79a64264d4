package business

import (
	"errors"
	"fmt"

	"stakecontrol/internal/models"
	"stakecontrol/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// CreditWallet 给用户钱包入账并写一条流水，必须在调用方事务内执行
func CreditWallet(tx *gorm.DB, userID uint, amount float64, txType string, referenceID uint, description string) error {
	amount = utils.Round2(amount)
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %f", amount)
	}

	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, userID).Error; err != nil {
		return fmt.Errorf("lock user %d for credit: %w", userID, err)
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount)).Error; err != nil {
		return fmt.Errorf("credit user %d: %w", userID, err)
	}

	record := models.WalletTransaction{
		UserID:      userID,
		Type:        txType,
		ReferenceID: referenceID,
		Amount:      amount,
		Status:      models.TxStatusCompleted,
		Description: description,
	}
	if err := tx.Create(&record).Error; err != nil {
		return fmt.Errorf("record %s transaction for user %d: %w", txType, userID, err)
	}
	return nil
}

// DebitWallet 给用户钱包出账并写一条流水，余额不足时返回 ErrInsufficientBalance
func DebitWallet(tx *gorm.DB, userID uint, amount float64, txType string, referenceID uint, description string) error {
	amount = utils.Round2(amount)
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %f", amount)
	}

	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, userID).Error; err != nil {
		return fmt.Errorf("lock user %d for debit: %w", userID, err)
	}
	if user.WalletBalance < amount {
		return ErrInsufficientBalance
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance - ?", amount)).Error; err != nil {
		return fmt.Errorf("debit user %d: %w", userID, err)
	}

	record := models.WalletTransaction{
		UserID:      userID,
		Type:        txType,
		ReferenceID: referenceID,
		Amount:      amount,
		Status:      models.TxStatusCompleted,
		Description: description,
	}
	if err := tx.Create(&record).Error; err != nil {
		return fmt.Errorf("record %s transaction for user %d: %w", txType, userID, err)
	}
	return nil
}
