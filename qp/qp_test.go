package qp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IguanAI/libadic/qp"
	"github.com/IguanAI/libadic/zp"
)

func TestDivisionByUnitRoundTrips(t *testing.T) {
	x, err := qp.NewFromInt64(5, 12, 17)
	require.NoError(t, err)
	y, err := qp.NewFromInt64(5, 12, 3)
	require.NoError(t, err)

	quotient, err := x.Div(y)
	require.NoError(t, err)

	product, err := quotient.Mul(y)
	require.NoError(t, err)
	require.True(t, product.Equal(x))
}

func TestFromRationalExtractsNegativeValuation(t *testing.T) {
	x, err := qp.FromRational(1, 25, 5, 10) // 1/25 = 5^-2
	require.NoError(t, err)
	require.Equal(t, int64(-2), x.Valuation())
}

func TestAdditionCancellationIncreasesValuation(t *testing.T) {
	x, err := qp.NewFromInt64(7, 10, 1)
	require.NoError(t, err)
	y, err := qp.NewFromInt64(7, 10, -1)
	require.NoError(t, err)

	sum, err := x.Add(y)
	require.NoError(t, err)
	require.True(t, sum.IsZero())
}

func TestAdditionPrecisionIsMinOfAbsolutePrecisions(t *testing.T) {
	// x has valuation 0, unit precision 10 -> absolute precision 10
	x, err := qp.NewFromInt64(7, 10, 3)
	require.NoError(t, err)
	// y = 7^3 * 1, unit precision 4 -> absolute precision 7
	y, err := qp.FromRational(343, 1, 7, 4)
	require.NoError(t, err)

	sum, err := x.Add(y)
	require.NoError(t, err)
	require.Equal(t, int64(7), sum.EffectivePrecision())
}

func TestMulValuationAdds(t *testing.T) {
	x, err := qp.FromRational(1, 7, 7, 10) // valuation -1
	require.NoError(t, err)
	y, err := qp.NewFromInt64(7, 10, 49) // valuation 2
	require.NoError(t, err)

	prod, err := x.Mul(y)
	require.NoError(t, err)
	require.Equal(t, int64(1), prod.Valuation())
}

func TestPromoteFromZpZero(t *testing.T) {
	zpZero, err := zp.New(11, 6)
	require.NoError(t, err)
	zero := qp.FromZp(zpZero)
	require.True(t, zero.IsZero())
	require.Equal(t, int64(6), zero.Valuation())
}

func TestMismatchedPrimeIsError(t *testing.T) {
	x, err := qp.NewFromInt64(5, 6, 1)
	require.NoError(t, err)
	y, err := qp.NewFromInt64(7, 6, 1)
	require.NoError(t, err)
	_, err = x.Add(y)
	require.Error(t, err)
}

func TestDivisionByZeroIsDomainError(t *testing.T) {
	x, err := qp.NewFromInt64(5, 6, 1)
	require.NoError(t, err)
	zero, err := qp.New(5, 6)
	require.NoError(t, err)
	_, err = x.Div(zero)
	require.Error(t, err)
}

func TestPowNegativeInverts(t *testing.T) {
	x, err := qp.NewFromInt64(5, 10, 2)
	require.NoError(t, err)
	inv, err := x.Pow(-1)
	require.NoError(t, err)
	product, err := x.Mul(inv)
	require.NoError(t, err)
	one, err := qp.NewFromInt64(5, 10, 1)
	require.NoError(t, err)
	require.True(t, product.Equal(one))
}
