package bernoulli_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IguanAI/libadic/bernoulli"
	"github.com/IguanAI/libadic/qp"
)

func TestClassicalBernoulliKnownValues(t *testing.T) {
	require.Equal(t, big.NewRat(1, 1), bernoulli.ClassicalBernoulli(0))
	require.Equal(t, big.NewRat(-1, 2), bernoulli.ClassicalBernoulli(1))
	require.Equal(t, big.NewRat(1, 6), bernoulli.ClassicalBernoulli(2))
	require.Equal(t, big.NewRat(0, 1), bernoulli.ClassicalBernoulli(3))
	require.Equal(t, big.NewRat(-1, 30), bernoulli.ClassicalBernoulli(4))
}

func TestGeneralizedBernoulliWithPrincipalCharacterMatchesClassical(t *testing.T) {
	// For the principal character mod 1 (f=1, chi(a) = 1 always),
	// B_{n,chi} = B_n exactly.
	p := int64(7)
	precision := int64(10)
	principal := func(a int64) (qp.Qp, error) {
		return qp.NewFromInt64(p, precision, 1)
	}

	result, err := bernoulli.GeneralizedBernoulli(2, 1, principal, p, precision)
	require.NoError(t, err)

	expected, err := qp.FromRational(1, 6, p, precision)
	require.NoError(t, err)
	require.True(t, result.Equal(expected))
}

func TestGeneralizedBernoulliRejectsZeroModulus(t *testing.T) {
	chi := func(a int64) (qp.Qp, error) { return qp.NewFromInt64(5, 5, 1) }
	_, err := bernoulli.GeneralizedBernoulli(1, 0, chi, 5, 5)
	require.Error(t, err)
}

func TestGeneralizedBernoulliOddIndexVanishesForEvenPrincipalCharacter(t *testing.T) {
	// With chi(a) = 1 for every a in 1..f, B_{n,chi} for n > 1 reduces to
	// the classical B_n (distribution relation for B_n(X)), and classical
	// B_n = 0 for odd n > 1.
	p := int64(11)
	precision := int64(8)
	f := int64(3)
	principal := func(a int64) (qp.Qp, error) {
		return qp.NewFromInt64(p, precision, 1)
	}

	result, err := bernoulli.GeneralizedBernoulli(3, f, principal, p, precision)
	require.NoError(t, err)
	require.True(t, result.IsZero())
}
