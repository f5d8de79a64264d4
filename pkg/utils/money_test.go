package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -2.5, Round2(-2.499999))
	// 浮点累加误差应被抹平
	assert.Equal(t, 0.3, Round2(0.1+0.2))
}

func TestDayString(t *testing.T) {
	ts := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-08-31", DayString(ts))
}
