package business

import (
	"fmt"

	"stakecontrol/internal/models"

	"gorm.io/gorm"
)

// OverrideAllocation 级差分配的一层结果
type OverrideAllocation struct {
	OverridePercent float64
	Amount          float64
}

// AllocateOverrides 级差分配的纯算术：
// 基线从 0 开始，按链序处理每个上级的职级比例。不高于基线的上级整层跳过且
// 不改变基线；高于基线的上级拿差额比例，之后基线推进到其职级比例。
// 链走完后未分配的部分归平台，不再向下分摊。
func AllocateOverrides(coreAmount float64, chainPercents []float64) []OverrideAllocation {
	allocations := make([]OverrideAllocation, len(chainPercents))
	previous := 0.0
	for i, percent := range chainPercents {
		if percent <= previous {
			continue
		}
		override := percent - previous
		allocations[i] = OverrideAllocation{
			OverridePercent: override,
			Amount:          coreAmount * override / 100,
		}
		previous = percent
		if previous >= 100 {
			break
		}
	}
	return allocations
}

// DistributePassUp 核心收益入账时触发的职级级差分发。
// coreAmount 是质押人按自身职级留存后的剩余核心收益。
// 每层先经共享封顶钳制；即使被钳为零，基线仍然推进。
func DistributePassUp(tx *gorm.DB, originUserID uint, rewardID uint, coreAmount float64) error {
	if coreAmount <= 0 {
		return nil
	}

	chain, err := SponsorChain(tx, originUserID, SponsorChainDepth)
	if err != nil {
		return fmt.Errorf("walk sponsor chain from user %d: %w", originUserID, err)
	}

	percents := make([]float64, len(chain))
	for i, sponsorID := range chain {
		percent, err := CurrentOverridePercent(tx, sponsorID)
		if err != nil {
			return err
		}
		percents[i] = percent
	}

	for i, allocation := range AllocateOverrides(coreAmount, percents) {
		if allocation.OverridePercent <= 0 {
			continue
		}
		allowed, err := ClampIncentive(tx, chain[i], allocation.Amount)
		if err != nil {
			return err
		}
		if allowed <= 0 {
			continue
		}
		desc := fmt.Sprintf("passup %.2f%% override on reward %d from user %d",
			allocation.OverridePercent, rewardID, originUserID)
		if err := CreditWallet(tx, chain[i], allowed, models.TxTypePassUp, rewardID, desc); err != nil {
			return err
		}
	}
	return nil
}
