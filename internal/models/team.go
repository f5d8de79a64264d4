package models

import (
	"time"
)

// TeamVolume 双轨业绩账本，每个用户一行，懒创建
type TeamVolume struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	LeftVolume    float64   `gorm:"default:0" json:"left_volume"`
	RightVolume   float64   `gorm:"default:0" json:"right_volume"`
	LeftCarry     float64   `gorm:"default:0" json:"left_carry"` // 上次结算后左区结转
	RightCarry    float64   `gorm:"default:0" json:"right_carry"`
	DailyPaid     float64   `gorm:"default:0" json:"daily_paid"`
	LastResetDate string    `gorm:"size:10" json:"last_reset_date"` // YYYY-MM-DD
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (TeamVolume) TableName() string {
	return "team_volumes"
}

// TeamCycle 对碰结算历史，追加式，每个用户每天最多一行
type TeamCycle struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	CycleDate    string    `gorm:"size:10;not null" json:"cycle_date"`
	Cycles       int       `gorm:"not null" json:"cycles"`
	VolumePerLeg float64   `gorm:"not null" json:"volume_per_leg"` // 每条腿被消耗的业绩
	RewardAmount float64   `gorm:"not null" json:"reward_amount"`
	RatePercent  float64   `gorm:"not null" json:"rate_percent"`
	Tier         string    `gorm:"size:20;not null" json:"tier"` // 结算时的最高激活等级
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (TeamCycle) TableName() string {
	return "team_cycles"
}
