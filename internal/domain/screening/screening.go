// Package screening implements the compliance-screening bounded context:
// regulatory designations attached to canonical entities and the structured
// signal statuses produced by the individual checks.
package screening

import (
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Authority identifies the body that issued a regulatory designation.
type Authority string

const (
	AuthorityOFAC Authority = "OFAC"
	AuthorityBIS  Authority = "BIS"
	AuthorityUN   Authority = "UN"
	AuthorityEU   Authority = "EU"
)

// sanctionsAuthorities are the authorities whose designations the sanctions
// check treats as blocking.
var sanctionsAuthorities = map[Authority]bool{
	AuthorityOFAC: true,
	AuthorityUN:   true,
	AuthorityEU:   true,
}

// IsSanctionsAuthority reports whether designations from a count toward the
// sanctions signal rather than the broader designation signal.
func IsSanctionsAuthority(a Authority) bool { return sanctionsAuthorities[a] }

// Designation is a sanctions or restricted-list entry attached to a
// canonical entity.  An entity may carry any number of designations from
// different authorities.
type Designation struct {
	ID        common.ID `json:"id"`
	EntityID  common.ID `json:"entity_id"`
	Authority Authority `json:"authority"`
	Program   string    `json:"program"`
	ListedAt  time.Time `json:"listed_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDesignation validates and constructs a Designation.
func NewDesignation(entityID common.ID, authority Authority, program string) (*Designation, error) {
	switch authority {
	case AuthorityOFAC, AuthorityBIS, AuthorityUN, AuthorityEU:
	default:
		return nil, errors.InvalidParam("unsupported designation authority").WithDetail(string(authority))
	}
	if program == "" {
		return nil, errors.InvalidParam("designation program is required")
	}
	now := time.Now().UTC()
	return &Designation{
		EntityID:  entityID,
		Authority: authority,
		Program:   program,
		ListedAt:  now,
		CreatedAt: now,
	}, nil
}

// Status is the outcome class of a single screening signal.
type Status string

const (
	StatusPass        Status = "PASS"
	StatusConditional Status = "CONDITIONAL"
	StatusFail        Status = "FAIL"
)

// SignalResult is the structured outcome of one screening check: a status
// plus the explanatory text that feeds assessment explanations.
type SignalResult struct {
	Status Status `json:"status"`
	Reason string `json:"reason"`
}

// Pass constructs a passing SignalResult.
func Pass(reason string) SignalResult { return SignalResult{Status: StatusPass, Reason: reason} }

// Conditional constructs a conditional SignalResult.
func Conditional(reason string) SignalResult {
	return SignalResult{Status: StatusConditional, Reason: reason}
}

// Fail constructs a failing SignalResult.
func Fail(reason string) SignalResult { return SignalResult{Status: StatusFail, Reason: reason} }
