package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 100.0, Percentage(100, 100))
	assert.Equal(t, 50.0, Percentage(100, 50))
	assert.Equal(t, 0.0, Percentage(45.50, 0))
	assert.Equal(t, 31.85, Percentage(45.50, 70))
	// 33.335 -> 33.34
	assert.Equal(t, 33.34, Percentage(66.67, 50))
	assert.Equal(t, 0.09, Percentage(0.3, 30))
}

func TestToMinorUnits(t *testing.T) {
	cents, err := ToMinorUnits(49.99)
	require.NoError(t, err)
	assert.Equal(t, int64(4999), cents)

	cents, err = ToMinorUnits(0.1 + 0.2)
	require.NoError(t, err)
	assert.Equal(t, int64(30), cents)

	_, err = ToMinorUnits(-1)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	assert.Equal(t, 12.34, FromMinorUnits(1234))
}
