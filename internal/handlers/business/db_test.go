package business

import (
	"fmt"
	"os"
	"testing"
	"time"

	"stakecontrol/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB 连接 TEST_DATABASE_URL 指定的测试库，未配置时跳过用例。
// 每个用例自建唯一的用户和仓位，不依赖库里已有数据。
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.PlacementEdge{},
		&models.Stake{},
		&models.StakeReward{},
		&models.UserRank{},
		&models.WalletTransaction{},
		&models.JobRun{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, balance float64) *models.User {
	t.Helper()
	suffix := time.Now().UnixNano()
	user := models.User{
		Username:      fmt.Sprintf("dbtest_%d", suffix),
		Email:         fmt.Sprintf("dbtest_%d@example.com", suffix),
		ReferralCode:  fmt.Sprintf("db%d", suffix%1e12),
		IsVerified:    true,
		IsActive:      true,
		WalletBalance: balance,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestStake(t *testing.T, db *gorm.DB, userID uint, amount float64, tier *TierDef) *models.Stake {
	t.Helper()
	stake := models.Stake{
		UserID:       userID,
		Tier:         tier.Name,
		Shares:       int(amount / SharePrice),
		Amount:       amount,
		DailyRate:    tier.DailyRate,
		LimitPercent: tier.LimitPercent,
		Status:       models.StakeStatusActive,
	}
	require.NoError(t, db.Create(&stake).Error)
	return &stake
}
