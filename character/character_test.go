package character_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IguanAI/libadic/character"
)

func TestPrincipalCharacterHasConductorOne(t *testing.T) {
	chi, err := character.New(7, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), chi.GetConductor())
	require.True(t, chi.IsPrincipal())
	require.True(t, chi.IsEven())
}

func TestEnumerateCharactersModSevenCardinality(t *testing.T) {
	// phi(7) = 6.
	chars, err := character.EnumerateCharacters(7, 5)
	require.NoError(t, err)
	require.Len(t, chars, 6)
}

func TestEnumerateCharactersModTwelveCardinality(t *testing.T) {
	// phi(12) = 4.
	chars, err := character.EnumerateCharacters(12, 5)
	require.NoError(t, err)
	require.Len(t, chars, 4)
}

func TestEnumerateCharactersModTwentyCardinality(t *testing.T) {
	// phi(20) = 8.
	chars, err := character.EnumerateCharacters(20, 3)
	require.NoError(t, err)
	require.Len(t, chars, 8)
}

func TestNonPrincipalCharacterIsPrimitive(t *testing.T) {
	// Every nontrivial character mod the prime 7 is primitive (no smaller
	// modulus than a prime can support a nontrivial character).
	chars, err := character.EnumerateCharacters(7, 5)
	require.NoError(t, err)
	found := false
	for _, chi := range chars {
		if !chi.IsPrincipal() {
			require.True(t, chi.IsPrimitive())
			found = true
		}
	}
	require.True(t, found)
}

func TestEvaluateAtIsMultiplicative(t *testing.T) {
	chars, err := character.EnumerateCharacters(7, 5)
	require.NoError(t, err)
	var chi character.DirichletCharacter
	for _, c := range chars {
		if !c.IsPrincipal() {
			chi = c
			break
		}
	}

	l := chi.GetOrder()
	e2, ok := chi.EvaluateAt(2)
	require.True(t, ok)
	e3, ok := chi.EvaluateAt(3)
	require.True(t, ok)
	e6, ok := chi.EvaluateAt(6)
	require.True(t, ok)
	require.Equal(t, e6, (e2+e3)%l)
}

func TestEvaluateAtZeroOutsideSupport(t *testing.T) {
	chi, err := character.New(6, 5)
	require.NoError(t, err)
	_, ok := chi.EvaluateAt(2) // gcd(2,6) = 2
	require.False(t, ok)
}

func TestQuadraticCharacterHasOrderTwo(t *testing.T) {
	// Among the 6 characters mod 7, there is exactly one of order 2
	// (the Legendre symbol), since (Z/7Z)* is cyclic of order 6.
	chars, err := character.EnumerateCharacters(7, 5)
	require.NoError(t, err)
	count := 0
	for _, chi := range chars {
		if chi.GetOrder() == 2 {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestEvaluateRequiresOrderDividingPMinusOne(t *testing.T) {
	// Mod 7 has characters of order up to 6. At p=5, p-1=4, so the
	// order-6 (primitive) character cannot be lifted via Evaluate.
	chars, err := character.EnumerateCharacters(7, 5)
	require.NoError(t, err)
	var order6 character.DirichletCharacter
	found := false
	for _, chi := range chars {
		if chi.GetOrder() == 6 {
			order6 = chi
			found = true
		}
	}
	require.True(t, found)
	_, err = order6.Evaluate(2, 10)
	require.Error(t, err)
}

func TestEvaluateOrderTwoCharacterAtPFiveSucceeds(t *testing.T) {
	// p-1 = 4 is divisible by 2, so an order-2 character lifts fine.
	chars, err := character.EnumerateCharacters(7, 5)
	require.NoError(t, err)
	for _, chi := range chars {
		if chi.GetOrder() == 2 {
			_, err := chi.Evaluate(3, 10)
			require.NoError(t, err)
			return
		}
	}
	t.Fatal("no order-2 character found")
}

func TestGaussSumOfPrincipalCharacterAtModulusDividingPMinusOne(t *testing.T) {
	// modulus = 3 divides p - 1 = 6 for p = 7.
	chi, err := character.New(3, 7)
	require.NoError(t, err)
	_, err = chi.GaussSum(10)
	require.NoError(t, err)
}
