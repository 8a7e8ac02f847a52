package padiclog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IguanAI/libadic/padiclog"
	"github.com/IguanAI/libadic/qp"
)

func TestLogOfOnePlusSevenRoundTrips(t *testing.T) {
	// Scenario from SPEC_FULL.md §8: p = 7, N = 15.
	x, err := qp.NewFromInt64(7, 15, 8) // 1 + 7
	require.NoError(t, err)

	_, err = padiclog.Log(x)
	require.NoError(t, err)

	require.True(t, padiclog.VerifyRoundTrip(x, 14))
}

func TestLogIsAdditive(t *testing.T) {
	x, err := qp.NewFromInt64(5, 12, 6) // 1 + 5
	require.NoError(t, err)
	y, err := qp.NewFromInt64(5, 12, 11) // 1 + 2*5
	require.NoError(t, err)

	logX, err := padiclog.Log(x)
	require.NoError(t, err)
	logY, err := padiclog.Log(y)
	require.NoError(t, err)
	sum, err := logX.Add(logY)
	require.NoError(t, err)

	xy, err := x.Mul(y)
	require.NoError(t, err)
	logXY, err := padiclog.Log(xy)
	require.NoError(t, err)

	diff, err := sum.Sub(logXY)
	require.NoError(t, err)
	require.True(t, diff.Valuation() >= 10)
}

func TestLogRequiresValuationZero(t *testing.T) {
	x, err := qp.FromRational(1, 5, 5, 10)
	require.NoError(t, err)
	_, err = padiclog.Log(x)
	require.Error(t, err)
}

func TestLogRequiresCongruentToOne(t *testing.T) {
	x, err := qp.NewFromInt64(5, 10, 2)
	require.NoError(t, err)
	_, err = padiclog.Log(x)
	require.Error(t, err)
}

func TestLogPrimeTwoRequiresMod4(t *testing.T) {
	// 3 is a unit, valuation 0, but 3 == 3 mod 4, not 1 mod 4.
	x, err := qp.NewFromInt64(2, 10, 3)
	require.NoError(t, err)
	_, err = padiclog.Log(x)
	require.Error(t, err)

	y, err := qp.NewFromInt64(2, 10, 5) // 5 == 1 mod 4
	require.NoError(t, err)
	_, err = padiclog.Log(y)
	require.NoError(t, err)
}
