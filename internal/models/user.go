package models

import (
	"time"
)

type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Username      string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:128;not null" json:"email"`
	ReferralCode  string    `gorm:"size:16;not null;uniqueIndex" json:"referral_code"`
	IsVerified    bool      `gorm:"default:false" json:"is_verified"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	Role          string    `gorm:"size:20;not null;default:'user'" json:"role"` // 'user' or 'admin'
	WalletBalance float64   `gorm:"default:0" json:"wallet_balance"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
