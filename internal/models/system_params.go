package models

import (
	"time"
)

// 收益池来源策略，见 business/harvest.go
const (
	HarvestSourceStakeVolume   = "stake_volume"
	HarvestSourceDepositVolume = "deposit_volume"
	HarvestSourceBoth          = "both"
)

// SystemParams 运行期可调参数（key/value）
type SystemParams struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ParamKey  string    `gorm:"size:64;not null;uniqueIndex" json:"param_key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	Remark    string    `gorm:"size:255" json:"remark"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SystemParams) TableName() string {
	return "system_params"
}
