package models

import (
	"time"
)

// PlacementEdge 双轨制安置关系表，每个用户一行（根节点除外 parent 为空）
// parent_id 是安置树（二叉树）的父节点，sponsor_id 是推荐关系的上级，两者互相独立。
type PlacementEdge struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	ParentID  *uint     `gorm:"index;uniqueIndex:idx_parent_position" json:"parent_id"`
	SponsorID *uint     `gorm:"index" json:"sponsor_id"`
	Position  *string   `gorm:"size:8;uniqueIndex:idx_parent_position" json:"position"` // 'left' or 'right'
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PlacementEdge) TableName() string {
	return "placement_edges"
}

// PlacementEdgeBackup 树重建前的备份快照
type PlacementEdgeBackup struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ParentID  *uint     `json:"parent_id"`
	SponsorID *uint     `json:"sponsor_id"`
	Position  *string   `gorm:"size:8" json:"position"`
	BackupTag string    `gorm:"size:32;not null;index" json:"backup_tag"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PlacementEdgeBackup) TableName() string {
	return "placement_edge_backups"
}
