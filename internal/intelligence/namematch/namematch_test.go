package namematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, Ratio("acme", "acme"))
	assert.Equal(t, 100.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("acme", ""))
	assert.Equal(t, 0.0, Ratio("", "acme"))

	// One deletion out of 9 total runes.
	assert.InDelta(t, 88.88, Ratio("acme", "acmes"), 0.01)

	// Disjoint strings share nothing.
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
}

func TestTokenSortRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, TokenSortRatio("acme industries", "industries acme"))
	assert.Greater(t, TokenSortRatio("global acme", "acme globex"), 50.0)
}

func TestTokenSetRatio(t *testing.T) {
	t.Parallel()

	// Subset tokens score a perfect token-set match.
	assert.Equal(t, 100.0, TokenSetRatio("acme", "acme holdings international"))
	assert.Equal(t, 100.0, TokenSetRatio("beta acme", "acme beta gamma"))
}

func TestTokenSetRatio_EmptySide(t *testing.T) {
	t.Parallel()

	// An empty side must score like Ratio does, not ride the empty
	// intersection to a perfect match.
	assert.Equal(t, 0.0, TokenSetRatio("", "acme"))
	assert.Equal(t, 0.0, TokenSetRatio("acme", ""))
	assert.Equal(t, 100.0, TokenSetRatio("", ""))
	assert.Equal(t, 0.0, Score("", "acme"))
}

func TestPartialRatio(t *testing.T) {
	t.Parallel()

	// Substring containment scores 100 regardless of argument order.
	assert.Equal(t, 100.0, PartialRatio("acme", "acme holdings"))
	assert.Equal(t, 100.0, PartialRatio("acme holdings", "acme"))
	assert.Equal(t, 0.0, PartialRatio("acme", ""))
}

func TestScore_Bounded(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"acme", "acme"},
		{"acme", "globex"},
		{"acme industries", "industries acme"},
		{"a", "zzzzzzzzzzzz"},
		{"", ""},
		{"", "acme"},
	}
	for _, p := range pairs {
		s := Score(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", p[0], p[1])
		assert.LessOrEqual(t, s, 100.0, "%q vs %q", p[0], p[1])
	}
}

func TestScore_SelfIsPerfect(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"acme", "acme industries", "3m", ""} {
		assert.Equal(t, 100.0, Score(s, s))
	}
}

func TestScore_TakesMaximum(t *testing.T) {
	t.Parallel()

	// Reordered tokens: plain Ratio is imperfect but token-sort rescues it.
	a, b := "acme industries", "industries acme"
	assert.Less(t, Ratio(a, b), 100.0)
	assert.Equal(t, 100.0, Score(a, b))

	// Truncation: partial ratio dominates.
	a, b = "acme", "acme holdings international"
	assert.Less(t, Ratio(a, b), 100.0)
	assert.Equal(t, 100.0, Score(a, b))
}
