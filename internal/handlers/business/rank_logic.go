package business

import (
	"errors"
	"fmt"

	"stakecontrol/internal/models"

	"gorm.io/gorm"
)

// RankDef 职级阶梯的一级：三项门槛同时满足才算达标
type RankDef struct {
	Name            string
	MinDirects      int64
	MinPackValue    float64
	MinTeamVolume   float64
	OverridePercent float64
}

const RankUnranked = "unranked"

// RankLadder 九级职级，升序
var RankLadder = []RankDef{
	{Name: "pioneer", MinDirects: 2, MinPackValue: 250, MinTeamVolume: 1000, OverridePercent: 5},
	{Name: "builder", MinDirects: 4, MinPackValue: 500, MinTeamVolume: 5000, OverridePercent: 10},
	{Name: "mentor", MinDirects: 6, MinPackValue: 1000, MinTeamVolume: 15000, OverridePercent: 15},
	{Name: "director", MinDirects: 8, MinPackValue: 2500, MinTeamVolume: 40000, OverridePercent: 25},
	{Name: "executive", MinDirects: 10, MinPackValue: 5000, MinTeamVolume: 100000, OverridePercent: 35},
	{Name: "president", MinDirects: 12, MinPackValue: 10000, MinTeamVolume: 250000, OverridePercent: 45},
	{Name: "ambassador", MinDirects: 14, MinPackValue: 15000, MinTeamVolume: 500000, OverridePercent: 55},
	{Name: "sovereign", MinDirects: 16, MinPackValue: 20000, MinTeamVolume: 1000000, OverridePercent: 65},
	{Name: "legend", MinDirects: 18, MinPackValue: 25000, MinTeamVolume: 2500000, OverridePercent: 70},
}

// TargetRank 在阶梯上选出三项门槛都满足的最高一级；都不满足时返回 nil
func TargetRank(directs int64, packValue, teamVolume float64) *RankDef {
	var target *RankDef
	for i := range RankLadder {
		rank := &RankLadder[i]
		if directs >= rank.MinDirects && packValue >= rank.MinPackValue && teamVolume >= rank.MinTeamVolume {
			target = rank
		}
	}
	return target
}

// RankEvaluation 职级评估结果
type RankEvaluation struct {
	DirectReferrals   int64   `json:"direct_referrals"`
	HighestPackAmount float64 `json:"highest_pack_amount"`
	TeamVolume        float64 `json:"team_volume"`
	TargetRank        string  `json:"target_rank"`
	TargetPercent     float64 `json:"target_percent"`
}

// EvaluateRank 计算用户的三项职级指标并给出目标职级。
// 团队业绩按推荐链的传递闭包合计所有下级的质押额，带环路保护。
func EvaluateRank(db *gorm.DB, userID uint) (*RankEvaluation, error) {
	var directs int64
	if err := db.Model(&models.PlacementEdge{}).
		Where("sponsor_id = ?", userID).Count(&directs).Error; err != nil {
		return nil, err
	}

	var packValue float64
	if err := db.Model(&models.Stake{}).
		Where("user_id = ? AND status = ?", userID, models.StakeStatusActive).
		Select("COALESCE(SUM(amount), 0)").Scan(&packValue).Error; err != nil {
		return nil, err
	}

	teamVolume, err := sponsorDownlineVolume(db, userID)
	if err != nil {
		return nil, err
	}

	eval := &RankEvaluation{
		DirectReferrals:   directs,
		HighestPackAmount: packValue,
		TeamVolume:        teamVolume,
		TargetRank:        RankUnranked,
	}
	if target := TargetRank(directs, packValue, teamVolume); target != nil {
		eval.TargetRank = target.Name
		eval.TargetPercent = target.OverridePercent
	}
	return eval, nil
}

// sponsorDownlineVolume 推荐链伞下全部质押额（不含自身）
func sponsorDownlineVolume(db *gorm.DB, userID uint) (float64, error) {
	visited := map[uint]bool{userID: true}
	frontier := []uint{userID}
	var total float64

	for len(frontier) > 0 {
		var edges []models.PlacementEdge
		if err := db.Where("sponsor_id IN ?", frontier).Find(&edges).Error; err != nil {
			return 0, err
		}
		frontier = frontier[:0]
		for _, edge := range edges {
			if visited[edge.UserID] {
				continue
			}
			visited[edge.UserID] = true
			frontier = append(frontier, edge.UserID)
		}
		if len(frontier) == 0 {
			break
		}
		var batchVolume float64
		if err := db.Model(&models.Stake{}).
			Where("user_id IN ?", frontier).
			Select("COALESCE(SUM(amount), 0)").Scan(&batchVolume).Error; err != nil {
			return 0, err
		}
		total += batchVolume
	}
	return total, nil
}

// CurrentOverridePercent 读取当前已存的职级比例，没有记录时为 0
func CurrentOverridePercent(db *gorm.DB, userID uint) (float64, error) {
	var rank models.UserRank
	err := db.Where("user_id = ?", userID).First(&rank).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rank.OverridePercent, nil
}

// AutoPromote 按评估结果升降级。指标没变化时是幂等空操作，可以随时重跑。
func AutoPromote(db *gorm.DB, userID uint) (*RankEvaluation, error) {
	eval, err := EvaluateRank(db, userID)
	if err != nil {
		return nil, err
	}

	var rank models.UserRank
	err = db.Where("user_id = ?", userID).First(&rank).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rank = models.UserRank{UserID: userID, Rank: RankUnranked}
		if err := db.Create(&rank).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if rank.Rank == eval.TargetRank && rank.OverridePercent == eval.TargetPercent {
		return eval, nil
	}

	if err := db.Model(&models.UserRank{}).Where("id = ?", rank.ID).
		Updates(map[string]interface{}{
			"rank":             eval.TargetRank,
			"override_percent": eval.TargetPercent,
		}).Error; err != nil {
		return nil, fmt.Errorf("update rank for user %d: %w", userID, err)
	}
	return eval, nil
}
