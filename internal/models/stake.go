package models

import (
	"time"
)

const (
	StakeStatusActive    = "active"
	StakeStatusCompleted = "completed"
	StakeStatusCancelled = "cancelled"
)

// Stake 能量包质押仓位
type Stake struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Tier          string    `gorm:"size:20;not null" json:"tier"` // 'spark', 'pulse', 'charge', 'quantum'
	Shares        int       `gorm:"not null" json:"shares"`
	Amount        float64   `gorm:"not null" json:"amount"`
	DailyRate     float64   `gorm:"not null" json:"daily_rate"`    // 每日固定收益率（百分比）
	LimitPercent  float64   `gorm:"not null" json:"limit_percent"` // 终身收益上限（本金百分比）
	TotalRewarded float64   `gorm:"default:0" json:"total_rewarded"`
	Status        string    `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Stake) TableName() string {
	return "stakes"
}

// LifetimeCap returns the total reward ceiling for this stake.
func (s *Stake) LifetimeCap() float64 {
	return s.Amount * s.LimitPercent / 100
}

const (
	RewardStatusPending  = "pending"
	RewardStatusCredited = "credited"
	RewardStatusExpired  = "expired"
)

// StakeReward 每日收益记录，(stake_id, reward_date) 唯一
type StakeReward struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	StakeID         uint       `gorm:"not null;uniqueIndex:idx_stake_reward_date" json:"stake_id"`
	RewardDate      string     `gorm:"size:10;not null;uniqueIndex:idx_stake_reward_date" json:"reward_date"` // YYYY-MM-DD
	CoreAmount      float64    `gorm:"not null" json:"core_amount"`
	HarvestAmount   float64    `gorm:"not null" json:"harvest_amount"`
	TotalAmount     float64    `gorm:"not null" json:"total_amount"`
	CreditedCore    float64    `gorm:"default:0" json:"credited_core"` // 封顶折算后的实际入账部分
	CreditedHarvest float64    `gorm:"default:0" json:"credited_harvest"`
	Status          string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreditedAt      *time.Time `json:"credited_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (StakeReward) TableName() string {
	return "stake_rewards"
}
