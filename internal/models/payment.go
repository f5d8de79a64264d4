package models

import (
	"encoding/json"
	"time"
)

const (
	PaymentDirectionDeposit = "deposit"
	PaymentDirectionPayout  = "payout"

	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

// PaymentOrder 第三方支付网关订单（充值/提现），网关回调异步对账
type PaymentOrder struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Direction   string          `gorm:"size:20;not null" json:"direction"` // 'deposit' or 'payout'
	Amount      float64         `gorm:"not null" json:"amount"`
	Reference   string          `gorm:"size:64;not null;uniqueIndex" json:"reference"` // 本地生成的网关幂等号
	ProviderRef string          `gorm:"size:128" json:"provider_ref"`
	Status      string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RawPayload  json.RawMessage `gorm:"type:jsonb" json:"raw_payload"` // 最近一次回调原文
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}
