package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSpinSegmentsValid(t *testing.T) {
	segs := DefaultSpinSegments()
	assert.NoError(t, ValidateSpinSegments(segs))

	total := 0
	losing := 0
	for _, s := range segs {
		total += s.Weight
		if s.Tokens == 0 {
			losing += s.Weight
		}
	}
	assert.Equal(t, 100, total)
	assert.Greater(t, losing, 0, "wheel must have a losing slice")
}

func TestValidateSpinSegments(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		assert.Error(t, ValidateSpinSegments(nil))
	})

	t.Run("zero total weight", func(t *testing.T) {
		assert.Error(t, ValidateSpinSegments([]SpinSegment{{Label: "a", Tokens: 10, Weight: 0}}))
	})

	t.Run("negative weight", func(t *testing.T) {
		assert.Error(t, ValidateSpinSegments([]SpinSegment{
			{Label: "a", Tokens: 10, Weight: 5},
			{Label: "b", Tokens: 10, Weight: -1},
		}))
	})

	t.Run("negative tokens", func(t *testing.T) {
		assert.Error(t, ValidateSpinSegments([]SpinSegment{{Label: "a", Tokens: -1, Weight: 5}}))
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 20, cfg.Rewards.DailyAdCap)
	assert.Equal(t, int64(500), cfg.Rewards.ReferralBonusTokens)
	assert.Equal(t, int64(500), cfg.Rewards.CoinsPerUSD)
	assert.Equal(t, int64(100), cfg.Rewards.MinWithdrawUSDCents)
	assert.Len(t, cfg.Rewards.SpinSegments, 5)
}
