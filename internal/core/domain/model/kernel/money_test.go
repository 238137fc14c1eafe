package kernel_test

import (
	"math"
	"testing"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, kernel.Money(50000), kernel.Units(500))
	assert.Equal(t, "500.00", kernel.Units(500).String())
	assert.Equal(t, "-0.05", kernel.Money(-5).String())
	assert.Equal(t, kernel.Money(4497), kernel.Money(1499).Times(3))
	assert.InDelta(t, 14.99, kernel.Money(1499).Float(), 1e-9)

	m, err := kernel.MoneyFromFloat(19.99)
	require.NoError(t, err)
	assert.Equal(t, kernel.Money(1999), m)

	_, err = kernel.MoneyFromFloat(-1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = kernel.MoneyFromFloat(math.NaN())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
