package lfunctions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IguanAI/libadic/character"
	"github.com/IguanAI/libadic/lfunctions"
	"github.com/IguanAI/libadic/qp"
)

func TestKubotaLeopoldtAtZeroForPrincipalCharacter(t *testing.T) {
	lfunctions.ClearCache()
	chi, err := character.New(1, 7)
	require.NoError(t, err)

	_, err = lfunctions.KubotaLeopoldt(0, chi, 10)
	require.NoError(t, err)
}

func TestKubotaLeopoldtVanishesOnParityMismatch(t *testing.T) {
	lfunctions.ClearCache()
	// Mod 7, the order-2 character is odd (-1 is a QR mod 7 iff 7 == 1
	// mod 4, and 7 == 3 mod 4). Use the principal character instead,
	// which is always even, and n odd forces the vanishing case.
	chi, err := character.New(1, 7)
	require.NoError(t, err)
	require.True(t, chi.IsEven())

	result, err := lfunctions.KubotaLeopoldt(-2, chi, 10) // n = 3, odd
	require.NoError(t, err)
	require.True(t, result.IsZero())
}

func TestKubotaLeopoldtDerivativeAtZeroForOddCharacter(t *testing.T) {
	lfunctions.ClearCache()
	chars, err := character.EnumerateCharacters(7, 5)
	require.NoError(t, err)

	found := false
	for _, chi := range chars {
		if chi.IsOdd() && (5-1)%chi.GetOrder() == 0 {
			_, err := lfunctions.KubotaLeopoldtDerivative(0, chi, 8)
			require.NoError(t, err)
			found = true
		}
	}
	require.True(t, found)
}

func TestCacheReturnsConsistentResultAcrossCalls(t *testing.T) {
	lfunctions.ClearCache()
	chi, err := character.New(3, 7)
	require.NoError(t, err)

	first, err := lfunctions.KubotaLeopoldt(0, chi, 10)
	require.NoError(t, err)
	second, err := lfunctions.KubotaLeopoldt(0, chi, 10)
	require.NoError(t, err)
	require.True(t, first.Equal(second))
}

func TestDistinctCharactersSameEvaluateAtTwoDoNotCollide(t *testing.T) {
	// Regression check for the original source's insufficient cache
	// fingerprint (a single evaluate_at(2) sample): two different
	// characters mod 7 can still compute distinct, independently correct
	// L-values without cache interference. The principal and the quadratic
	// character mod 7 both have chi(2) = 1 (2 is a square mod 7), yet
	// L_p(-2) is 0 for the even principal one and -416/7 for the odd
	// quadratic one.
	lfunctions.ClearCache()
	chars, err := character.EnumerateCharacters(7, 5)
	require.NoError(t, err)
	require.True(t, len(chars) >= 2)

	tested := 0
	var values []qp.Qp
	for _, chi := range chars {
		if (5-1)%chi.GetOrder() != 0 {
			continue // order does not divide p-1; Evaluate is out of scope for this chi
		}
		value, err := lfunctions.KubotaLeopoldt(-2, chi, 8)
		require.NoError(t, err)
		values = append(values, value)
		tested++
	}
	require.True(t, tested >= 2)
	require.False(t, values[0].Equal(values[1]))
}
