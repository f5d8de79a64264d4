package business

import (
	"fmt"
	"time"

	"stakecontrol/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RebuildTeamVolumes 管理员操作：清空双轨账本后按建仓顺序重放所有
// 激活仓位的业绩上传。结转与日发放额一并归零。
func RebuildTeamVolumes(db *gorm.DB) (int, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	if err := tx.Where("1 = 1").Delete(&models.TeamVolume{}).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("clear team volumes: %w", err)
	}

	var stakes []models.Stake
	if err := tx.Where("status = ?", models.StakeStatusActive).
		Order("created_at asc, id asc").Find(&stakes).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	for _, stake := range stakes {
		if err := PropagateVolume(tx, stake.UserID, stake.Amount); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("replay stake %d: %w", stake.ID, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	logrus.Infof("team volumes rebuilt from %d active stakes", len(stakes))
	return len(stakes), nil
}

// RegenerationReport 树重建结果
type RegenerationReport struct {
	BackupTag string `json:"backup_tag"`
	Total     int    `json:"total"`
	Moved     int    `json:"moved"`
	DryRun    bool   `json:"dry_run"`
}

// RegeneratePlacementTree 管理员操作：按注册顺序重建安置树。
// 先把现有关系快照进备份表，再逐个用户重跑安置算法。dryRun 为真时
// 只统计会移动多少节点，整个事务回滚。
func RegeneratePlacementTree(db *gorm.DB, dryRun bool) (*RegenerationReport, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	tag := time.Now().Format("20060102-150405")
	var edges []models.PlacementEdge
	if err := tx.Order("id asc").Find(&edges).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, edge := range edges {
		backup := models.PlacementEdgeBackup{
			UserID:    edge.UserID,
			ParentID:  edge.ParentID,
			SponsorID: edge.SponsorID,
			Position:  edge.Position,
			BackupTag: tag,
		}
		if err := tx.Create(&backup).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("backup edge for user %d: %w", edge.UserID, err)
		}
	}

	if err := tx.Where("1 = 1").Delete(&models.PlacementEdge{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("clear placement edges: %w", err)
	}

	report := &RegenerationReport{BackupTag: tag, Total: len(edges), DryRun: dryRun}

	// 按创建顺序重放：推荐关系保持不变，安置槽位重新搜索
	for _, old := range edges {
		var placement Placement
		if old.SponsorID != nil {
			placement = FindPlacement(tx, *old.SponsorID)
		}

		fresh := models.PlacementEdge{
			UserID:    old.UserID,
			ParentID:  placement.ParentID,
			SponsorID: old.SponsorID,
			Position:  placement.Position,
		}
		if err := tx.Create(&fresh).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("replace edge for user %d: %w", old.UserID, err)
		}

		if !samePlacement(old, fresh) {
			report.Moved++
		}
	}

	if dryRun {
		tx.Rollback()
		return report, nil
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	logrus.Infof("placement tree regenerated: %d nodes, %d moved, backup %s", report.Total, report.Moved, tag)
	return report, nil
}

func samePlacement(a, b models.PlacementEdge) bool {
	return equalUintPtr(a.ParentID, b.ParentID) && equalStrPtr(a.Position, b.Position)
}

func equalUintPtr(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// RestorePlacementTree 从某个备份快照恢复安置树
func RestorePlacementTree(db *gorm.DB, backupTag string) (int, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	var backups []models.PlacementEdgeBackup
	if err := tx.Where("backup_tag = ?", backupTag).Order("id asc").Find(&backups).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	if len(backups) == 0 {
		tx.Rollback()
		return 0, fmt.Errorf("backup tag %s not found", backupTag)
	}

	if err := tx.Where("1 = 1").Delete(&models.PlacementEdge{}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	for _, backup := range backups {
		edge := models.PlacementEdge{
			UserID:    backup.UserID,
			ParentID:  backup.ParentID,
			SponsorID: backup.SponsorID,
			Position:  backup.Position,
		}
		if err := tx.Create(&edge).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("restore edge for user %d: %w", backup.UserID, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return len(backups), nil
}
