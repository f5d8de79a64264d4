package business

import (
	"testing"

	"stakecontrol/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccrueDailyRewardIdempotent(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, 0)
	tier, _ := TierByName("pulse")
	stake := createTestStake(t, db, user.ID, 1000, tier)

	day := "2026-08-30"
	pool := &HarvestPool{}

	first, created, err := AccrueDailyReward(db, stake, day, pool)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, 6.50, first.CoreAmount)
	assert.Equal(t, models.RewardStatusPending, first.Status)

	// 同一天重复计提必须命中已有记录，不产生第二行
	second, created, err := AccrueDailyReward(db, stake, day, pool)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.StakeReward{}).
		Where("stake_id = ? AND reward_date = ?", stake.ID, day).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreditPendingRewardsRoundTrip(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, 0)
	require.NoError(t, db.Create(&models.UserRank{
		UserID:          user.ID,
		Rank:            "pioneer",
		OverridePercent: 5,
	}).Error)

	tier, _ := TierByName("pulse")
	stake := createTestStake(t, db, user.ID, 1000, tier)

	reward, created, err := AccrueDailyReward(db, stake, "2026-08-30", &HarvestPool{})
	require.NoError(t, err)
	require.True(t, created)

	summary, err := CreditPendingRewards(db, stake.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Credited)
	assert.Equal(t, 0, summary.Expired)

	// 职级留存 5%：6.50 的核心收益入钱包 0.33，其余走级差
	assert.Equal(t, 0.33, summary.TotalToWallet)

	var reloadedUser models.User
	require.NoError(t, db.First(&reloadedUser, user.ID).Error)
	assert.Equal(t, 0.33, reloadedUser.WalletBalance)

	var reloadedReward models.StakeReward
	require.NoError(t, db.First(&reloadedReward, reward.ID).Error)
	assert.Equal(t, models.RewardStatusCredited, reloadedReward.Status)
	assert.Equal(t, 6.50, reloadedReward.CreditedCore)

	var reloadedStake models.Stake
	require.NoError(t, db.First(&reloadedStake, stake.ID).Error)
	assert.Equal(t, 6.50, reloadedStake.TotalRewarded)
	assert.Equal(t, models.StakeStatusActive, reloadedStake.Status)

	// 再领一次是空操作，余额不动
	again, err := CreditPendingRewards(db, stake.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Credited)
	require.NoError(t, db.First(&reloadedUser, user.ID).Error)
	assert.Equal(t, 0.33, reloadedUser.WalletBalance)
}

func TestCreditPendingRewardsHoldsLifetimeCap(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, 0)
	tier, _ := TierByName("spark")
	stake := createTestStake(t, db, user.ID, 100, tier)

	// 只剩一分钱额度，却有核心和绩效各 1.00 待入账；
	// 两部分各自折算进位会把累计推过封顶
	cap := stake.LifetimeCap()
	require.NoError(t, db.Model(&models.Stake{}).Where("id = ?", stake.ID).
		Update("total_rewarded", cap-0.01).Error)

	reward := models.StakeReward{
		StakeID:       stake.ID,
		RewardDate:    "2026-08-30",
		CoreAmount:    1.00,
		HarvestAmount: 1.00,
		TotalAmount:   2.00,
		Status:        models.RewardStatusPending,
	}
	require.NoError(t, db.Create(&reward).Error)

	_, err := CreditPendingRewards(db, stake.ID, nil)
	require.NoError(t, err)

	var reloadedStake models.Stake
	require.NoError(t, db.First(&reloadedStake, stake.ID).Error)
	assert.InDelta(t, cap, reloadedStake.TotalRewarded, 1e-9)
	assert.Equal(t, models.StakeStatusCompleted, reloadedStake.Status)

	var reloadedReward models.StakeReward
	require.NoError(t, db.First(&reloadedReward, reward.ID).Error)
	assert.InDelta(t, 0.01, reloadedReward.CreditedCore+reloadedReward.CreditedHarvest, 1e-9)
}
