package models

import (
	"time"
)

// UserRank 用户当前职级，懒创建，默认 unranked / 0%
type UserRank struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Rank            string    `gorm:"size:32;not null;default:'unranked'" json:"rank"`
	OverridePercent float64   `gorm:"default:0" json:"override_percent"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (UserRank) TableName() string {
	return "user_ranks"
}
