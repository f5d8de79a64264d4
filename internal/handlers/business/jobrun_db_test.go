package business

import (
	"fmt"
	"testing"
	"time"

	"stakecontrol/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartJobRunMutualExclusion(t *testing.T) {
	db := testDB(t)
	jobName := fmt.Sprintf("dbtest_job_%d", time.Now().UnixNano())
	day := "2026-08-30"

	run, err := StartJobRun(db, jobName, day)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, run.Status)

	// 记录还在 running：第二次启动拿不到执行权
	_, err = StartJobRun(db, jobName, day)
	require.ErrorIs(t, err, ErrJobRunning)

	require.NoError(t, FinishJobRun(db, run.ID, models.JobStatusSuccess,
		map[string]interface{}{"accrued": 3}))

	// 成功收场后重复启动报告为已执行
	existing, err := StartJobRun(db, jobName, day)
	require.ErrorIs(t, err, ErrJobAlreadyRan)
	assert.Equal(t, run.ID, existing.ID)

	// 其它日期不受影响
	other, err := StartJobRun(db, jobName, "2026-08-29")
	require.NoError(t, err)
	require.NoError(t, FinishJobRun(db, other.ID, models.JobStatusSuccess, nil))
}

func TestStartJobRunFailedNeedsReset(t *testing.T) {
	db := testDB(t)
	jobName := fmt.Sprintf("dbtest_job_%d", time.Now().UnixNano())
	day := "2026-08-30"

	run, err := StartJobRun(db, jobName, day)
	require.NoError(t, err)
	require.NoError(t, FinishJobRun(db, run.ID, models.JobStatusFailed,
		map[string]interface{}{"error": "harvest pool query timeout"}))

	// 失败的记录不会自动让路，报告的是待重置而不是运行中
	_, err = StartJobRun(db, jobName, day)
	require.ErrorIs(t, err, ErrJobNeedsReset)

	deleted, err := ResetJobRun(db, jobName, day)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	rerun, err := StartJobRun(db, jobName, day)
	require.NoError(t, err)
	assert.NotEqual(t, run.ID, rerun.ID)
	require.NoError(t, FinishJobRun(db, rerun.ID, models.JobStatusSuccess, nil))
}
