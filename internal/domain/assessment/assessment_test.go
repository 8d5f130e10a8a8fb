package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

func TestClassify_Boundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  Verdict
	}{
		{0, VerdictPass},
		{39, VerdictPass},
		{40, VerdictConditional},
		{74, VerdictConditional},
		{75, VerdictFail},
		{100, VerdictFail},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.score), "score %.0f", tc.score)
	}
}

func TestDefaultScoringConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultScoringConfig()
	assert.Equal(t, 70.0, cfg.SanctionsWeight)
	assert.Equal(t, 30.0, cfg.DesignationFailWeight)
	assert.Equal(t, 15.0, cfg.DesignationConditionalWeight)
	assert.Equal(t, "v1", cfg.Version)
	assert.True(t, cfg.Active)
	assert.NoError(t, cfg.Validate())
}

func TestScoringConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := DefaultScoringConfig()
	cfg.Version = ""
	assert.True(t, errors.IsValidation(cfg.Validate()))

	cfg = DefaultScoringConfig()
	cfg.SanctionsWeight = 101
	assert.True(t, errors.IsValidation(cfg.Validate()))

	cfg = DefaultScoringConfig()
	cfg.DesignationConditionalWeight = -1
	assert.True(t, errors.IsValidation(cfg.Validate()))
}

func TestBriefFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, BriefFail, BriefFor(VerdictFail))
	assert.Equal(t, BriefConditional, BriefFor(VerdictConditional))
	assert.Equal(t, BriefPass, BriefFor(VerdictPass))
}
