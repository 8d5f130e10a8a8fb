// Package extraction scores relationship candidates produced by the upstream
// NLP pipeline before they are admitted into the ownership graph.
package extraction

import "strings"

// Triple is an extracted (subject, relation, object) candidate describing a
// directed relationship between two named entities.
type Triple struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

// Confidence heuristic parameters.
const (
	baseConfidence = 0.6
	// lengthBonus rewards subject/object strings long enough to be real
	// names rather than stray tokens.
	lengthBonus = 0.1
	// shortTokenThreshold is the length above which a name earns the bonus.
	shortTokenThreshold = 3
	// strongRelationBonus rewards relations from the curated
	// ownership/control verb class.
	strongRelationBonus = 0.2
	// maxConfidence caps the result: heuristic output never reports full
	// certainty.
	maxConfidence = 0.95
)

// strongRelations are ownership and control verbs that carry high evidential
// weight for corporate-structure edges.
var strongRelations = map[string]bool{
	"owns":     true,
	"controls": true,
	"acquired": true,
}

// IsStrongRelation reports whether the relation verb belongs to the curated
// ownership/control class.
func IsStrongRelation(relation string) bool {
	return strongRelations[strings.ToLower(strings.TrimSpace(relation))]
}

// Confidence assigns a heuristic confidence in [0, 0.95] to a candidate
// triple.  Pure function, no I/O.
func Confidence(t Triple) float64 {
	c := baseConfidence
	if len(strings.TrimSpace(t.Subject)) > shortTokenThreshold {
		c += lengthBonus
	}
	if len(strings.TrimSpace(t.Object)) > shortTokenThreshold {
		c += lengthBonus
	}
	if IsStrongRelation(t.Relation) {
		c += strongRelationBonus
	}
	if c > maxConfidence {
		c = maxConfidence
	}
	return c
}
