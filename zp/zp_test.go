package zp_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IguanAI/libadic/zp"
)

func TestArithmeticPrecisionIsMin(t *testing.T) {
	x, err := zp.NewFromInt64(5, 10, 7)
	require.NoError(t, err)
	y, err := zp.NewFromInt64(5, 6, 3)
	require.NoError(t, err)

	sum, err := x.Add(y)
	require.NoError(t, err)
	require.Equal(t, int64(6), sum.Precision())

	diff, err := x.Sub(y)
	require.NoError(t, err)
	require.Equal(t, int64(6), diff.Precision())

	prod, err := x.Mul(y)
	require.NoError(t, err)
	require.Equal(t, int64(6), prod.Precision())

	mod := new(big.Int).Exp(big.NewInt(5), big.NewInt(6), nil)
	require.True(t, prod.ToBigInt().Cmp(mod) < 0)
	require.False(t, prod.ToBigInt().Sign() < 0)
}

func TestMismatchedPrimeIsInvalidArgument(t *testing.T) {
	x, err := zp.NewFromInt64(5, 10, 1)
	require.NoError(t, err)
	y, err := zp.NewFromInt64(7, 10, 1)
	require.NoError(t, err)

	_, err = x.Add(y)
	require.Error(t, err)
}

func TestDivisionByNonUnitIsDomainError(t *testing.T) {
	x, err := zp.NewFromInt64(5, 10, 1)
	require.NoError(t, err)
	y, err := zp.NewFromInt64(5, 10, 5) // divisible by 5
	require.NoError(t, err)

	_, err = x.Div(y)
	require.Error(t, err)
}

func TestTeichmullerFixedPoint(t *testing.T) {
	x, err := zp.NewFromInt64(13, 8, 2)
	require.NoError(t, err)

	omega, err := x.Teichmuller()
	require.NoError(t, err)

	pow, err := omega.PowInt64(12) // p - 1
	require.NoError(t, err)
	require.True(t, pow.IsOne())

	congruentMod13, err := omega.WithPrecision(1)
	require.NoError(t, err)
	two, err := zp.NewFromInt64(13, 1, 2)
	require.NoError(t, err)
	require.True(t, congruentMod13.Equal(two))
}

func TestSqrtRoundTrip(t *testing.T) {
	x, err := zp.NewFromInt64(7, 12, 4) // 4 = 2^2, a QR mod 7
	require.NoError(t, err)

	root, err := x.Sqrt()
	require.NoError(t, err)

	squared, err := root.Mul(root)
	require.NoError(t, err)
	require.True(t, squared.Equal(x))
}

func TestSqrtNonResidueFails(t *testing.T) {
	x, err := zp.NewFromInt64(7, 12, 3) // 3 is a non-residue mod 7
	require.NoError(t, err)

	_, err = x.Sqrt()
	require.Error(t, err)
}

func TestFromRationalRoundTrip(t *testing.T) {
	x, err := zp.FromRational(3, 7, 11, 10)
	require.NoError(t, err)

	seven, err := zp.NewFromInt64(11, 10, 7)
	require.NoError(t, err)

	product, err := x.Mul(seven)
	require.NoError(t, err)

	three, err := zp.NewFromInt64(11, 10, 3)
	require.NoError(t, err)
	require.True(t, product.Equal(three))
}

func TestFromRationalRejectsPInDenominator(t *testing.T) {
	_, err := zp.FromRational(1, 5, 5, 10)
	require.Error(t, err)
}

func TestUnitPartReducesPrecision(t *testing.T) {
	x, err := zp.NewFromInt64(3, 10, 18) // 18 = 2 * 3^2
	require.NoError(t, err)

	unit, err := x.UnitPart()
	require.NoError(t, err)
	require.Equal(t, int64(8), unit.Precision())
	require.True(t, unit.IsUnit())
}

func TestValuationOfZeroIsPrecision(t *testing.T) {
	zero, err := zp.New(5, 9)
	require.NoError(t, err)
	require.Equal(t, int64(9), zero.Valuation())
}

func TestPAdicDigitsLength(t *testing.T) {
	x, err := zp.NewFromInt64(5, 4, 37)
	require.NoError(t, err)
	digits := x.PAdicDigits()
	require.Len(t, digits, 4)
	require.Equal(t, []int64{2, 2, 1, 0}, digits) // 37 = 2 + 2*5 + 1*25
}

func TestNegation(t *testing.T) {
	x, err := zp.NewFromInt64(5, 4, 2)
	require.NoError(t, err)
	neg := x.Neg()
	sum, err := x.Add(neg)
	require.NoError(t, err)
	require.True(t, sum.IsZero())
}

func TestInvalidPrimeAndPrecisionRejected(t *testing.T) {
	_, err := zp.New(1, 5)
	require.Error(t, err)
	_, err = zp.New(5, 0)
	require.Error(t, err)
}
