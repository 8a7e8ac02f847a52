package padicgamma_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IguanAI/libadic/padicgamma"
	"github.com/IguanAI/libadic/zp"
)

func TestGammaOfOneIsMinusOne(t *testing.T) {
	// Gamma_p(1) = (-1)^1 * (empty product) = -1.
	one, err := zp.NewFromInt64(7, 10, 1)
	require.NoError(t, err)
	g, err := padicgamma.Gamma(one)
	require.NoError(t, err)
	minusOne, err := zp.NewFromInt64(7, 10, -1)
	require.NoError(t, err)
	require.True(t, g.Equal(minusOne))
}

func TestGammaOfZeroIsOne(t *testing.T) {
	zero, err := zp.New(7, 10)
	require.NoError(t, err)
	g, err := padicgamma.Gamma(zero)
	require.NoError(t, err)
	require.True(t, g.IsOne())
}

func TestGammaMatchesFactorialBelowP(t *testing.T) {
	// For 0 < n < p, no factor is divisible by p, so Gamma_p(n) = (-1)^n (n-1)!
	p := int64(11)
	n := int64(5)
	x, err := zp.NewFromInt64(p, 8, n)
	require.NoError(t, err)
	g, err := padicgamma.Gamma(x)
	require.NoError(t, err)

	factorial := big.NewInt(1)
	for k := int64(1); k < n; k++ {
		factorial.Mul(factorial, big.NewInt(k))
	}
	if n%2 == 1 {
		factorial.Neg(factorial)
	}
	expected, err := zp.NewFromBigInt(p, 8, factorial)
	require.NoError(t, err)
	require.True(t, g.Equal(expected))
}

func TestGammaIsAlwaysUnit(t *testing.T) {
	x, err := zp.NewFromInt64(5, 10, 125) // multiple of p^3
	require.NoError(t, err)
	g, err := padicgamma.Gamma(x)
	require.NoError(t, err)
	require.True(t, g.IsUnit())
}

func TestLogGammaOfOneIsZero(t *testing.T) {
	one, err := zp.NewFromInt64(13, 8, 1)
	require.NoError(t, err)
	logG, err := padicgamma.LogGamma(one)
	require.NoError(t, err)
	require.True(t, logG.IsZero())
}
