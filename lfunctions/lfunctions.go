// Package lfunctions implements the Kubota-Leopoldt p-adic L-function
// L_p(s, χ) and its derivative at s = 0, following Washington's
// "Introduction to Cyclotomic Fields". Results are memoized per (s,
// modulus, conductor, character exponent tuple, p, precision): the exponent
// tuple, not a single sample evaluation, is the fingerprint, since two
// distinct characters can agree on any one evaluation.
package lfunctions

import (
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/IguanAI/libadic/bernoulli"
	"github.com/IguanAI/libadic/character"
	"github.com/IguanAI/libadic/padicgamma"
	"github.com/IguanAI/libadic/padiclog"
	"github.com/IguanAI/libadic/qp"
	"github.com/IguanAI/libadic/zp"
)

type lKey struct {
	s         int64
	modulus   int64
	conductor int64
	exponents string
	p         int64
	precision int64
}

func keyFor(s int64, chi character.DirichletCharacter, precision int64) lKey {
	return lKey{
		s:         s,
		modulus:   chi.GetModulus(),
		conductor: chi.GetConductor(),
		exponents: fmt.Sprint(chi.ExponentTuple()),
		p:         chi.GetPrime(),
		precision: precision,
	}
}

var (
	valueCacheMu sync.Mutex
	valueCache   = map[lKey]qp.Qp{}
	valueGroup   singleflight.Group

	derivativeCacheMu sync.Mutex
	derivativeCache   = map[lKey]qp.Qp{}
	derivativeGroup   singleflight.Group
)

// ClearCache empties both memo caches. Intended for tests and long-running
// processes that want to bound memory use.
func ClearCache() {
	valueCacheMu.Lock()
	valueCache = map[lKey]qp.Qp{}
	valueCacheMu.Unlock()

	derivativeCacheMu.Lock()
	derivativeCache = map[lKey]qp.Qp{}
	derivativeCacheMu.Unlock()
}

// KubotaLeopoldt computes L_p(s, χ).
//
// For s = 0: L_p(0, χ) = -(1 - χ(p)p^-1) * B_{1,χ}.
// For s = 1-n, n > 1: L_p(1-n, χ) = -(1 - χ(p)p^(n-1)) * B_{n,χ}/n, which is
// identically zero when the parities of n and χ disagree.
// For s > 0: a heuristic partial-sum interpolation (documented as such, not
// an honest p-adic interpolation — see the positive-s design note).
func KubotaLeopoldt(s int64, chi character.DirichletCharacter, precision int64) (qp.Qp, error) {
	key := keyFor(s, chi, precision)

	valueCacheMu.Lock()
	if cached, ok := valueCache[key]; ok {
		valueCacheMu.Unlock()
		return cached, nil
	}
	valueCacheMu.Unlock()

	result, err, _ := valueGroup.Do(fmt.Sprint(key), func() (interface{}, error) {
		valueCacheMu.Lock()
		if cached, ok := valueCache[key]; ok {
			valueCacheMu.Unlock()
			return cached, nil
		}
		valueCacheMu.Unlock()

		computed, err := computeKubotaLeopoldt(s, chi, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		valueCacheMu.Lock()
		valueCache[key] = computed
		valueCacheMu.Unlock()
		return computed, nil
	})
	if err != nil {
		return qp.Qp{}, err
	}
	return result.(qp.Qp), nil
}

func computeKubotaLeopoldt(s int64, chi character.DirichletCharacter, precision int64) (qp.Qp, error) {
	p := chi.GetPrime()

	switch {
	case s == 0:
		b1, err := computeB1Chi(chi, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		// L_p(0, χ) = -(1 - χ(p)p^-1) * B_{1,χ}: the Euler factor here
		// needs exponent -1, so s_param is 0, not 1.
		euler, err := computeEulerFactor(chi, 0, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		product, err := euler.Mul(b1)
		if err != nil {
			return qp.Qp{}, err
		}
		return product.Neg(), nil

	case s < 0:
		n := 1 - s
		if (n%2 == 0 && chi.IsOdd()) || (n%2 == 1 && chi.IsEven()) {
			return qp.New(p, precision)
		}
		chiFunc := func(a int64) (qp.Qp, error) {
			c, err := chi.EvaluateCyclotomic(a, precision)
			if err != nil {
				return qp.Qp{}, err
			}
			return c.ToQp(), nil
		}
		bn, err := bernoulli.GeneralizedBernoulli(n, chi.GetConductor(), chiFunc, p, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		euler, err := computeEulerFactor(chi, n, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		product, err := euler.Mul(bn)
		if err != nil {
			return qp.Qp{}, err
		}
		nQp, err := qp.NewFromInt64(p, precision, n)
		if err != nil {
			return qp.Qp{}, err
		}
		quotient, err := product.Div(nQp)
		if err != nil {
			return qp.Qp{}, err
		}
		return quotient.Neg(), nil

	default: // s > 0
		return computePositiveValue(s, chi, precision)
	}
}

// computeB1Chi computes B_{1,χ} directly via B_{1,χ} = (1/f) * Σ χ(a) * a,
// the degree-1 case of the generalized Bernoulli formula, special-cased for
// the principal character where it reduces to the classical B_1 = -1/2.
func computeB1Chi(chi character.DirichletCharacter, precision int64) (qp.Qp, error) {
	p := chi.GetPrime()
	if chi.IsPrincipal() {
		return qp.FromRational(-1, 2, p, precision)
	}
	conductor := chi.GetConductor()
	sum, err := qp.New(p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	for a := int64(1); a <= conductor; a++ {
		if gcd(a, conductor) != 1 {
			continue
		}
		chiA, err := chi.Evaluate(a, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		aQp, err := qp.NewFromInt64(p, precision, a)
		if err != nil {
			return qp.Qp{}, err
		}
		term, err := qp.FromZp(chiA).Mul(aQp)
		if err != nil {
			return qp.Qp{}, err
		}
		sum, err = sum.Add(term)
		if err != nil {
			return qp.Qp{}, err
		}
	}
	conductorQp, err := qp.NewFromInt64(p, precision, conductor)
	if err != nil {
		return qp.Qp{}, err
	}
	return sum.Div(conductorQp)
}

// computeEulerFactor computes (1 - χ(p) p^(s-1)), which is exactly 1 when p
// divides the conductor (since then χ(p) = 0).
func computeEulerFactor(chi character.DirichletCharacter, s, precision int64) (qp.Qp, error) {
	p := chi.GetPrime()
	one, err := qp.NewFromInt64(p, precision, 1)
	if err != nil {
		return qp.Qp{}, err
	}
	if chi.GetConductor()%p == 0 {
		return one, nil
	}
	chiP, err := chi.Evaluate(p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	pPower, err := powerOfP(p, precision, s-1)
	if err != nil {
		return qp.Qp{}, err
	}
	term, err := qp.FromZp(chiP).Mul(pPower)
	if err != nil {
		return qp.Qp{}, err
	}
	return one.Sub(term)
}

func powerOfP(p, precision, exponent int64) (qp.Qp, error) {
	base, err := qp.NewFromInt64(p, precision, p)
	if err != nil {
		return qp.Qp{}, err
	}
	return base.Pow(exponent)
}

// computePositiveValue implements the documented heuristic: a partial sum
// of Σ χ(n)/n^s over n coprime to p, scaled by the Euler factor. This is
// not an honest p-adic interpolation to positive integers and is presented
// only as the original construction's approximation.
func computePositiveValue(s int64, chi character.DirichletCharacter, precision int64) (qp.Qp, error) {
	p := chi.GetPrime()
	numTerms := precision*bitLength(p) + 10

	sum, err := qp.New(p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	for n := int64(1); n <= numTerms; n++ {
		if n%p == 0 {
			continue
		}
		chiN, err := chi.Evaluate(n, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		if chiN.IsZero() {
			continue
		}
		nQp, err := qp.NewFromInt64(p, precision, n)
		if err != nil {
			return qp.Qp{}, err
		}
		nPower, err := nQp.Pow(s)
		if err != nil {
			return qp.Qp{}, err
		}
		term, err := qp.FromZp(chiN).Div(nPower)
		if err != nil {
			return qp.Qp{}, err
		}
		sum, err = sum.Add(term)
		if err != nil {
			return qp.Qp{}, err
		}
	}
	euler, err := computeEulerFactor(chi, s, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	return euler.Mul(sum)
}

// bitLength approximates log_2(p) + 1 as an integer term-count scale factor,
// matching the original's log(p)/log(2) term-count heuristic without
// pulling in floating point.
func bitLength(p int64) int64 {
	n := big.NewInt(p)
	return int64(n.BitLen())
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// KubotaLeopoldtDerivative computes L'_p(s, χ). At s = 0 it uses the
// Ferrero-Washington log-Gamma construction for odd χ and the documented
// non-standard formula for even χ; elsewhere it falls back to symmetric
// numerical differentiation.
func KubotaLeopoldtDerivative(s int64, chi character.DirichletCharacter, precision int64) (qp.Qp, error) {
	key := keyFor(s, chi, precision)

	derivativeCacheMu.Lock()
	if cached, ok := derivativeCache[key]; ok {
		derivativeCacheMu.Unlock()
		return cached, nil
	}
	derivativeCacheMu.Unlock()

	result, err, _ := derivativeGroup.Do(fmt.Sprint(key), func() (interface{}, error) {
		derivativeCacheMu.Lock()
		if cached, ok := derivativeCache[key]; ok {
			derivativeCacheMu.Unlock()
			return cached, nil
		}
		derivativeCacheMu.Unlock()

		computed, err := computeKubotaLeopoldtDerivative(s, chi, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		derivativeCacheMu.Lock()
		derivativeCache[key] = computed
		derivativeCacheMu.Unlock()
		return computed, nil
	})
	if err != nil {
		return qp.Qp{}, err
	}
	return result.(qp.Qp), nil
}

func computeKubotaLeopoldtDerivative(s int64, chi character.DirichletCharacter, precision int64) (qp.Qp, error) {
	p := chi.GetPrime()

	if s == 0 {
		if chi.IsOdd() {
			return computeDerivativeAtZeroOdd(chi, precision)
		}
		return computeDerivativeAtZeroEven(chi, precision)
	}

	hExp := precision / 2
	if hExp < 1 {
		hExp = 1
	}
	h, err := powerOfP(p, precision, hExp)
	if err != nil {
		return qp.Qp{}, err
	}

	fs, err := KubotaLeopoldt(s, chi, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	fsPlus1, err := KubotaLeopoldt(s+1, chi, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	fsMinus1, err := KubotaLeopoldt(s-1, chi, precision)
	if err != nil {
		return qp.Qp{}, err
	}

	hTimesPlus, err := fsPlus1.Mul(h)
	if err != nil {
		return qp.Qp{}, err
	}
	fPlus, err := fs.Add(hTimesPlus)
	if err != nil {
		return qp.Qp{}, err
	}

	hTimesMinus, err := fsMinus1.Mul(h)
	if err != nil {
		return qp.Qp{}, err
	}
	fMinus, err := fs.Sub(hTimesMinus)
	if err != nil {
		return qp.Qp{}, err
	}

	numerator, err := fPlus.Sub(fMinus)
	if err != nil {
		return qp.Qp{}, err
	}
	two, err := qp.NewFromInt64(p, precision, 2)
	if err != nil {
		return qp.Qp{}, err
	}
	denominator, err := two.Mul(h)
	if err != nil {
		return qp.Qp{}, err
	}
	return numerator.Div(denominator)
}

// computeDerivativeAtZeroOdd sums χ(a) * log Γ_p(a/conductor) over residues
// a coprime to the conductor, following Ferrero-Washington.
func computeDerivativeAtZeroOdd(chi character.DirichletCharacter, precision int64) (qp.Qp, error) {
	p := chi.GetPrime()
	conductor := chi.GetConductor()

	sum, err := qp.New(p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	for a := int64(1); a < conductor; a++ {
		if gcd(a, conductor) != 1 {
			continue
		}
		chiA, err := chi.Evaluate(a, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		if chiA.IsZero() {
			continue
		}
		logGammaTerm, err := computeLogGammaFractional(a, conductor, p, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		term, err := qp.FromZp(chiA).Mul(logGammaTerm)
		if err != nil {
			return qp.Qp{}, err
		}
		sum, err = sum.Add(term)
		if err != nil {
			return qp.Qp{}, err
		}
	}
	conductorQp, err := qp.NewFromInt64(p, precision, conductor)
	if err != nil {
		return qp.Qp{}, err
	}
	return sum.Div(conductorQp)
}

// computeDerivativeAtZeroEven reproduces the original source's even-χ
// formula, flagged as non-standard: it is not the textbook p-adic
// regulator construction, but this module preserves it rather than
// silently substituting an unrelated formula under the same name.
func computeDerivativeAtZeroEven(chi character.DirichletCharacter, precision int64) (qp.Qp, error) {
	p := chi.GetPrime()
	conductor := chi.GetConductor()

	sum, err := qp.New(p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	if conductor <= 1 {
		return sum, nil
	}
	for a := int64(1); a < conductor; a++ {
		if gcd(a, conductor) != 1 {
			continue
		}
		chiA, err := chi.Evaluate(a, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		if chiA.IsZero() {
			continue
		}
		x, err := qp.FromRational(a, conductor-1, p, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		logTerm, err := padiclog.Log(x)
		if err != nil {
			continue // outside log's convergence domain for this residue; skip
		}
		term, err := qp.FromZp(chiA).Mul(logTerm)
		if err != nil {
			return qp.Qp{}, err
		}
		sum, err = sum.Add(term)
		if err != nil {
			return qp.Qp{}, err
		}
	}
	return sum, nil
}

// computeLogGammaFractional computes log Gamma_p(numerator/denominator) via
// a first-order Taylor expansion of log Gamma_p around the nearest integer,
// using the p-adic digamma series for the derivative term.
func computeLogGammaFractional(numerator, denominator, p, precision int64) (qp.Qp, error) {
	if denominator == 1 {
		z, err := zpFromInt64(p, precision, numerator)
		if err != nil {
			return qp.Qp{}, err
		}
		return padicgamma.LogGamma(z)
	}

	x, err := qp.FromRational(numerator, denominator, p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	nearest := (numerator + denominator/2) / denominator
	nearestQp, err := qp.NewFromInt64(p, precision, nearest)
	if err != nil {
		return qp.Qp{}, err
	}
	diff, err := x.Sub(nearestQp)
	if err != nil {
		return qp.Qp{}, err
	}

	zNearest, err := zpFromInt64(p, precision, nearest)
	if err != nil {
		return qp.Qp{}, err
	}
	logGammaNearest, err := padicgamma.LogGamma(zNearest)
	if err != nil {
		return qp.Qp{}, err
	}

	digamma, err := computeDigamma(nearest, p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	correction, err := diff.Mul(digamma)
	if err != nil {
		return qp.Qp{}, err
	}
	return logGammaNearest.Add(correction)
}

// computeDigamma computes psi_p(n) via the series -Sum_{k>=1, p does not
// divide k} 1/(n+k-1), truncated at 2*precision terms.
func computeDigamma(n, p, precision int64) (qp.Qp, error) {
	sum, err := qp.New(p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	for k := int64(1); k <= precision*2; k++ {
		if k%p == 0 {
			continue
		}
		denom, err := qp.NewFromInt64(p, precision, n+k-1)
		if err != nil {
			return qp.Qp{}, err
		}
		if denom.IsZero() {
			continue
		}
		one, err := qp.NewFromInt64(p, precision, 1)
		if err != nil {
			return qp.Qp{}, err
		}
		term, err := one.Div(denom)
		if err != nil {
			return qp.Qp{}, err
		}
		sum, err = sum.Add(term)
		if err != nil {
			return qp.Qp{}, err
		}
	}
	return sum.Neg(), nil
}

func zpFromInt64(p, precision, v int64) (zp.Zp, error) {
	return zp.NewFromInt64(p, precision, v)
}
