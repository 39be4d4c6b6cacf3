package service

import (
	"testing"
	"time"

	"earnrewardzz/config"

	"github.com/stretchr/testify/assert"
)

func TestPickSegment(t *testing.T) {
	segs := config.DefaultSpinSegments()
	// Weights 30, 15, 8, 2, 45 partition [0, 100).
	cases := []struct {
		roll int
		want string
	}{
		{0, "50_tokens"},
		{29, "50_tokens"},
		{30, "100_tokens"},
		{44, "100_tokens"},
		{45, "250_tokens"},
		{52, "250_tokens"},
		{53, "500_tokens"},
		{54, "500_tokens"},
		{55, "try_again"},
		{99, "try_again"},
	}
	for _, tc := range cases {
		got := pickSegment(segs, tc.roll)
		assert.Equal(t, tc.want, got.Label, "roll %d", tc.roll)
	}
}

func TestPickSegmentOutOfRangeFallsBack(t *testing.T) {
	segs := config.DefaultSpinSegments()
	got := pickSegment(segs, 1000)
	assert.Equal(t, "try_again", got.Label)
}

func TestPickSegmentSingleSlice(t *testing.T) {
	segs := []config.SpinSegment{{Label: "only", Tokens: 10, Weight: 1}}
	assert.Equal(t, "only", pickSegment(segs, 0).Label)
}

func TestNextUTCMidnight(t *testing.T) {
	now := time.Date(2026, 8, 30, 18, 45, 12, 0, time.UTC)
	next := nextUTCMidnight(now)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), next)

	// A caller in a non-UTC zone still rolls over at the UTC boundary.
	loc := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2026, 8, 31, 2, 0, 0, 0, loc) // 21:00 UTC on the 30th
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), nextUTCMidnight(local))
}
