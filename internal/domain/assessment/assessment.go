// Package assessment implements the risk-assessment bounded context: the
// active scoring policy, verdict classification, and the immutable assessment
// history.
package assessment

import (
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Verdict is the final classification of an assessment run.
type Verdict string

const (
	VerdictPass        Verdict = "PASS"
	VerdictConditional Verdict = "CONDITIONAL"
	VerdictFail        Verdict = "FAIL"
)

// Classification thresholds.  Scores at or above FailThreshold classify as
// FAIL, at or above ConditionalThreshold as CONDITIONAL, and everything
// below as PASS.
const (
	FailThreshold        = 75.0
	ConditionalThreshold = 40.0
)

// MaxScore is the aggregate score ceiling; weighted contributions saturate
// here.
const MaxScore = 100.0

// Classify maps a bounded aggregate score to its verdict.
func Classify(score float64) Verdict {
	switch {
	case score >= FailThreshold:
		return VerdictFail
	case score >= ConditionalThreshold:
		return VerdictConditional
	default:
		return VerdictPass
	}
}

// ScoringConfig is the active weighting policy.  Exactly one row is active
// at any time; the scoring engine reads it at the start of every run.
type ScoringConfig struct {
	ID common.ID `json:"id"`

	// SanctionsWeight is added when the sanctions check fails.
	SanctionsWeight float64 `json:"sanctions_weight"`
	// DesignationFailWeight is added when the designation check fails
	// outright.
	DesignationFailWeight float64 `json:"designation_fail_weight"`
	// DesignationConditionalWeight is added when the designation check
	// returns CONDITIONAL.
	DesignationConditionalWeight float64 `json:"designation_conditional_weight"`

	Version   string    `json:"version"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultScoringConfig returns the hardcoded fallback policy persisted when
// no configuration row is marked active.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		SanctionsWeight:              70,
		DesignationFailWeight:        30,
		DesignationConditionalWeight: 15,
		Version:                      "v1",
		Active:                       true,
		CreatedAt:                    time.Now().UTC(),
	}
}

// Validate checks a configuration before it is persisted or activated.
func (c *ScoringConfig) Validate() error {
	if c.Version == "" {
		return errors.InvalidParam("scoring config version is required")
	}
	for _, w := range []float64{c.SanctionsWeight, c.DesignationFailWeight, c.DesignationConditionalWeight} {
		if w < 0 || w > MaxScore {
			return errors.InvalidParam("scoring config weight out of range [0,100]")
		}
	}
	return nil
}

// Record is the immutable result of one scoring run for one supplier.
// History per supplier is append-only and read-only after creation.
type Record struct {
	ID            common.ID `json:"id"`
	SupplierID    common.ID `json:"supplier_id"`
	Score         float64   `json:"score"`
	Verdict       Verdict   `json:"verdict"`
	ConfigVersion string    `json:"config_version"`
	CreatedAt     time.Time `json:"created_at"`
}

// Result is the full structured outcome returned to callers: the persisted
// record plus the ordered explanations and executive brief that are not
// stored relationally.
type Result struct {
	Record       *Record  `json:"record"`
	Explanations []string `json:"explanations"`
	Brief        string   `json:"brief"`
}

// Brief texts by verdict, attached to every assessment result.
const (
	BriefFail        = "Severe compliance exposure detected. Immediate mitigation recommended."
	BriefConditional = "Moderate compliance risk identified. Enhanced due diligence advised."
	BriefPass        = "No material compliance risk detected based on current screening data."
)

// BriefFor returns the executive brief for a verdict.
func BriefFor(v Verdict) string {
	switch v {
	case VerdictFail:
		return BriefFail
	case VerdictConditional:
		return BriefConditional
	default:
		return BriefPass
	}
}
