package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtreeSideForCount(t *testing.T) {
	// 伞下 2 人开始走奇偶轮换：偶数进左区，奇数进右区
	cases := []struct {
		count int64
		side  string
	}{
		{2, PositionLeft},
		{3, PositionRight},
		{4, PositionLeft},
		{5, PositionRight},
		{100, PositionLeft},
		{101, PositionRight},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.side, SubtreeSideForCount(tc.count), "count=%d", tc.count)
	}
}
