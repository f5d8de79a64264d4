package business

import (
	"errors"
	"fmt"
	"math"

	"stakecontrol/internal/models"
	"stakecontrol/pkg/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CycleSize 一轮对碰需要左右各匹配的业绩（美元）
const CycleSize = 100.0

// PropagateVolume 新质押沿安置树向上累加业绩：
// 每个祖先按子节点来路方向累加到 left_volume 或 right_volume，直到根。
func PropagateVolume(tx *gorm.DB, originUserID uint, amount float64) error {
	uplines, err := BinaryUpline(tx, originUserID)
	if err != nil {
		return fmt.Errorf("walk binary upline from user %d: %w", originUserID, err)
	}

	for _, up := range uplines {
		volume, err := getOrCreateTeamVolume(tx, up.AncestorID)
		if err != nil {
			return err
		}
		column := "left_volume"
		if up.ChildSide == PositionRight {
			column = "right_volume"
		}
		if err := tx.Model(&models.TeamVolume{}).Where("id = ?", volume.ID).
			UpdateColumn(column, gorm.Expr(column+" + ?", amount)).Error; err != nil {
			return fmt.Errorf("add %s volume for user %d: %w", up.ChildSide, up.AncestorID, err)
		}
	}
	return nil
}

func getOrCreateTeamVolume(tx *gorm.DB, userID uint) (*models.TeamVolume, error) {
	var volume models.TeamVolume
	err := tx.Where("user_id = ?", userID).First(&volume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		volume = models.TeamVolume{UserID: userID, LastResetDate: utils.Today()}
		if err := tx.Create(&volume).Error; err != nil {
			return nil, err
		}
		return &volume, nil
	}
	if err != nil {
		return nil, err
	}
	return &volume, nil
}

// SynergyEligible 对碰资格：左右两个直接子节点都是已验证的激活用户且持有激活仓位
func SynergyEligible(db *gorm.DB, userID uint) (bool, error) {
	for _, pos := range []string{PositionLeft, PositionRight} {
		child, err := childAt(db, userID, pos)
		if err != nil {
			return false, err
		}
		if child == nil {
			return false, nil
		}

		var user models.User
		if err := db.First(&user, child.UserID).Error; err != nil {
			return false, err
		}
		if !user.IsActive || !user.IsVerified {
			return false, nil
		}

		active, err := hasActiveStake(db, child.UserID)
		if err != nil {
			return false, err
		}
		if !active {
			return false, nil
		}
	}
	return true, nil
}

// CycleSettlement 一次对碰结算的纯计算结果
type CycleSettlement struct {
	Cycles     int
	Reward     float64 // 日封顶内的应发金额（共享封顶钳制在其后）
	LeftCarry  float64
	RightCarry float64
	CapReached bool // 日封顶一轮都发不出：弱侧清零、强侧结转差额
}

// SettleCycles 对碰核心算术。leftTotal/rightTotal 为业绩加结转的合计，
// ratePercent 为等级对碰比例，dailyRemaining 为今日剩余可发额度。
func SettleCycles(leftTotal, rightTotal, ratePercent, dailyRemaining float64) CycleSettlement {
	weaker := math.Min(leftTotal, rightTotal)
	cyclesAvailable := int(math.Floor(weaker / CycleSize))
	perCycle := CycleSize * ratePercent / 100

	maxByCap := 0
	if perCycle > 0 && dailyRemaining > 0 {
		maxByCap = int(math.Floor(dailyRemaining / perCycle))
	}

	cycles := cyclesAvailable
	if maxByCap < cycles {
		cycles = maxByCap
	}

	if cycles <= 0 {
		// 封顶吃满：弱侧业绩作废，只把强弱差额结转到强侧
		diff := math.Max(leftTotal, rightTotal) - weaker
		s := CycleSettlement{CapReached: true}
		if leftTotal >= rightTotal {
			s.LeftCarry = diff
		} else {
			s.RightCarry = diff
		}
		return s
	}

	consumed := float64(cycles) * CycleSize
	return CycleSettlement{
		Cycles:     cycles,
		Reward:     utils.Round2(float64(cycles) * perCycle),
		LeftCarry:  leftTotal - consumed,
		RightCarry: rightTotal - consumed,
	}
}

// SettleDailyCycles 单个用户的当日对碰结算，由每日批处理调用。
// 日期翻转时先清零 daily_paid；随后按等级比例和双重封顶结算，
// 结算后两侧业绩清零、余量结转。
func SettleDailyCycles(tx *gorm.DB, userID uint, day string) (*models.TeamCycle, error) {
	volume, err := getOrCreateTeamVolume(tx, userID)
	if err != nil {
		return nil, err
	}

	if volume.LastResetDate != day {
		volume.DailyPaid = 0
		volume.LastResetDate = day
		if err := tx.Model(&models.TeamVolume{}).Where("id = ?", volume.ID).
			Updates(map[string]interface{}{"daily_paid": 0, "last_reset_date": day}).Error; err != nil {
			return nil, err
		}
	}

	leftTotal := volume.LeftVolume + volume.LeftCarry
	rightTotal := volume.RightVolume + volume.RightCarry
	if math.Min(leftTotal, rightTotal) < CycleSize {
		return nil, nil
	}

	tier, err := HighestActiveTier(tx, userID)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, nil
	}
	eligible, err := SynergyEligible(tx, userID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, nil
	}

	settlement := SettleCycles(leftTotal, rightTotal, tier.SynergyRate, tier.SynergyDailyCap-volume.DailyPaid)

	if !settlement.CapReached {
		allowed, err := ClampIncentive(tx, userID, settlement.Reward)
		if err != nil {
			return nil, err
		}
		if allowed <= 0 {
			// 共享封顶钳到零，视同日封顶吃满
			logrus.Debugf("synergy reward for user %d fully clamped by lifetime cap", userID)
			settlement = SettleCycles(leftTotal, rightTotal, tier.SynergyRate, 0)
		} else {
			settlement.Reward = allowed
		}
	}

	updates := map[string]interface{}{
		"left_volume":  0,
		"right_volume": 0,
		"left_carry":   settlement.LeftCarry,
		"right_carry":  settlement.RightCarry,
	}
	if !settlement.CapReached {
		updates["daily_paid"] = volume.DailyPaid + settlement.Reward
	}
	if err := tx.Model(&models.TeamVolume{}).Where("id = ?", volume.ID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	if settlement.CapReached {
		return nil, nil
	}

	cycle := models.TeamCycle{
		UserID:       userID,
		CycleDate:    day,
		Cycles:       settlement.Cycles,
		VolumePerLeg: float64(settlement.Cycles) * CycleSize,
		RewardAmount: settlement.Reward,
		RatePercent:  tier.SynergyRate,
		Tier:         tier.Name,
	}
	if err := tx.Create(&cycle).Error; err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("synergy %d cycle(s) on %s at %.2f%%", settlement.Cycles, day, tier.SynergyRate)
	if err := CreditWallet(tx, userID, settlement.Reward, models.TxTypeSynergy, cycle.ID, desc); err != nil {
		return nil, err
	}
	return &cycle, nil
}
