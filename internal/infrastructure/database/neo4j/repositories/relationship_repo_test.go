package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

func TestValidHops(t *testing.T) {
	t.Parallel()

	for _, h := range []int{1, 2, 3} {
		got, err := validHops(h)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}

	for _, h := range []int{0, -1, 4, 100} {
		_, err := validHops(h)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeGraphDepthInvalid, errors.GetCode(err))
	}
}
