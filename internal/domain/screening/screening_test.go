package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

func TestNewDesignation(t *testing.T) {
	t.Parallel()

	d, err := NewDesignation(7, AuthorityOFAC, "SDN")
	require.NoError(t, err)
	assert.Equal(t, AuthorityOFAC, d.Authority)
	assert.Equal(t, "SDN", d.Program)

	_, err = NewDesignation(7, Authority("INTERPOL"), "X")
	assert.True(t, errors.IsValidation(err))

	_, err = NewDesignation(7, AuthorityBIS, "")
	assert.True(t, errors.IsValidation(err))
}

func TestIsSanctionsAuthority(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSanctionsAuthority(AuthorityOFAC))
	assert.True(t, IsSanctionsAuthority(AuthorityUN))
	assert.True(t, IsSanctionsAuthority(AuthorityEU))
	// BIS entity-list entries drive the designation signal, not the
	// sanctions signal.
	assert.False(t, IsSanctionsAuthority(AuthorityBIS))
}

func TestSignalConstructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SignalResult{Status: StatusPass, Reason: "clean"}, Pass("clean"))
	assert.Equal(t, StatusConditional, Conditional("parent listed").Status)
	assert.Equal(t, StatusFail, Fail("direct hit").Status)
}
