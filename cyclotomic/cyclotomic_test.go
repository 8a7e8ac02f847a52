package cyclotomic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IguanAI/libadic/cyclotomic"
)

func TestZetaToThePMinus1IsOne(t *testing.T) {
	p := int64(7)
	precision := int64(10)

	zetaPow, err := cyclotomic.Power(p, precision, p-1, p-1)
	require.NoError(t, err)
	one, err := cyclotomic.Power(p, precision, p-1, 0)
	require.NoError(t, err)

	diff, err := zetaPow.Sub(one)
	require.NoError(t, err)
	require.True(t, diff.IsZero())
}

func TestPowerOfFullOrderMatchesZeta(t *testing.T) {
	p := int64(7)
	precision := int64(10)

	zeta, err := cyclotomic.Zeta(p, precision)
	require.NoError(t, err)
	zetaAgain, err := cyclotomic.Power(p, precision, p-1, 1)
	require.NoError(t, err)

	diff, err := zeta.Sub(zetaAgain)
	require.NoError(t, err)
	require.True(t, diff.IsZero())
}

func TestZetaOfTwoIsOne(t *testing.T) {
	z, err := cyclotomic.Zeta(2, 10)
	require.NoError(t, err)
	require.False(t, z.IsZero())

	one, err := cyclotomic.Power(2, 10, 1, 0)
	require.NoError(t, err)
	diff, err := z.Sub(one)
	require.NoError(t, err)
	require.True(t, diff.IsZero())
}

func TestPowerRejectsOrderNotDividingPMinus1(t *testing.T) {
	_, err := cyclotomic.Power(5, 10, 3, 1) // p-1 = 4, 3 does not divide 4
	require.Error(t, err)
}

func TestPowerOfOrderDividingPMinus1(t *testing.T) {
	// p = 13, p - 1 = 12, order 4 divides 12.
	_, err := cyclotomic.Power(13, 10, 4, 1)
	require.NoError(t, err)
}

func TestAddSubRoundTrips(t *testing.T) {
	a, err := cyclotomic.Zeta(11, 8)
	require.NoError(t, err)
	b, err := cyclotomic.Zeta(11, 8)
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	back, err := sum.Sub(b)
	require.NoError(t, err)
	diff, err := back.Sub(a)
	require.NoError(t, err)
	require.True(t, diff.IsZero())
}

func TestMulByZeroIsZero(t *testing.T) {
	zero, err := cyclotomic.New(7, 8)
	require.NoError(t, err)
	a, err := cyclotomic.Zeta(7, 8)
	require.NoError(t, err)

	prod, err := a.Mul(zero)
	require.NoError(t, err)
	require.True(t, prod.IsZero())
}
