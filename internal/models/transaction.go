package models

import (
	"time"
)

const (
	TxTypeDeposit  = "deposit"
	TxTypeWithdraw = "withdraw"
	TxTypeStake    = "stake"
	TxTypeReward   = "reward"
	TxTypeCatalyst = "catalyst"
	TxTypeSynergy  = "synergy"
	TxTypePassUp   = "passup"

	TxStatusCompleted = "completed"
	TxStatusPending   = "pending"
	TxStatusFailed    = "failed"
)

// WalletTransaction 钱包流水，追加式审计账本
// 奖励封顶计算只回读 type in (catalyst, synergy, passup) 且 completed 的累计金额。
type WalletTransaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_wallet_tx_user_type" json:"user_id"`
	Type        string    `gorm:"size:20;not null;index:idx_wallet_tx_user_type" json:"type"`
	ReferenceID uint      `gorm:"default:0" json:"reference_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Status      string    `gorm:"size:20;not null;default:'completed'" json:"status"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
