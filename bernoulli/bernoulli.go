// Package bernoulli computes classical and generalized Bernoulli numbers.
// ClassicalBernoulli gives the ordinary rational Bernoulli numbers via the
// standard recursive definition; GeneralizedBernoulli gives the
// character-twisted numbers B_{n,χ} the Kubota-Leopoldt construction needs,
// via Washington's formula B_{n,χ} = f^(n-1) * Σ_{a=1}^{f} χ(a) B_n(a/f).
package bernoulli

import (
	"math/big"

	"github.com/IguanAI/libadic/internal/adicerr"
	"github.com/IguanAI/libadic/qp"
)

// ClassicalBernoulli returns the n-th Bernoulli number B_n as an exact
// rational, under the convention B_1 = -1/2. Computed via the standard
// recursive identity Σ_{k=0}^{n} C(n+1,k) B_k = 0 for n >= 1 (with B_0 = 1),
// solved for B_n.
func ClassicalBernoulli(n int64) *big.Rat {
	if n < 0 {
		return big.NewRat(0, 1)
	}
	b := make([]*big.Rat, n+1)
	b[0] = big.NewRat(1, 1)
	for m := int64(1); m <= n; m++ {
		sum := big.NewRat(0, 1)
		for k := int64(0); k < m; k++ {
			c := binomial(m+1, k)
			term := new(big.Rat).Mul(new(big.Rat).SetInt(c), b[k])
			sum.Add(sum, term)
		}
		bm := new(big.Rat).Neg(sum)
		bm.Quo(bm, new(big.Rat).SetInt(binomial(m+1, m)))
		b[m] = bm
	}
	return b[n]
}

func binomial(n, k int64) *big.Int {
	if k < 0 || k > n {
		return big.NewInt(0)
	}
	result := big.NewInt(1)
	for i := int64(0); i < k; i++ {
		result.Mul(result, big.NewInt(n-i))
		result.Div(result, big.NewInt(i+1))
	}
	return result
}

// bernoulliPolynomial evaluates B_n(x) = Σ_{k=0}^{n} C(n,k) B_k x^(n-k) at
// the rational x.
func bernoulliPolynomial(n int64, x *big.Rat) *big.Rat {
	sum := big.NewRat(0, 1)
	for k := int64(0); k <= n; k++ {
		c := binomial(n, k)
		bk := ClassicalBernoulli(k)
		xPow := new(big.Rat).SetInt(big.NewInt(1))
		for i := int64(0); i < n-k; i++ {
			xPow.Mul(xPow, x)
		}
		term := new(big.Rat).Mul(new(big.Rat).SetInt(c), bk)
		term.Mul(term, xPow)
		sum.Add(sum, term)
	}
	return sum
}

// CharacterValue is the interface GeneralizedBernoulli needs from a
// Dirichlet character: an evaluation that maps the residue a to a
// cyclotomic-valued character value, expressed here as a Qp so this package
// does not need to depend on the character/cyclotomic packages.
type CharacterValue func(a int64) (qp.Qp, error)

// GeneralizedBernoulli computes B_{n,χ} in Q_p via
// B_{n,χ} = f^(n-1) * Σ_{a=1}^{f} χ(a) * B_n(a/f),
// where f is the character's conductor (or any admissible modulus) and chi
// evaluates χ(a) as a Qp value at the given prime and precision.
func GeneralizedBernoulli(n, f int64, chi CharacterValue, p, precision int64) (qp.Qp, error) {
	if f < 1 {
		return qp.Qp{}, adicerr.InvalidArgumentf("modulus f must be >= 1, got %d", f)
	}
	sum, err := qp.New(p, precision)
	if err != nil {
		return qp.Qp{}, err
	}
	for a := int64(1); a <= f; a++ {
		chiA, err := chi(a)
		if err != nil {
			return qp.Qp{}, err
		}
		if chiA.IsZero() {
			continue
		}
		x := big.NewRat(a, f)
		bn := bernoulliPolynomial(n, x)
		bnQp, err := ratToQp(bn, p, precision)
		if err != nil {
			return qp.Qp{}, err
		}
		term, err := chiA.Mul(bnQp)
		if err != nil {
			return qp.Qp{}, err
		}
		sum, err = sum.Add(term)
		if err != nil {
			return qp.Qp{}, err
		}
	}
	fPow, err := qp.NewFromInt64(p, precision, f)
	if err != nil {
		return qp.Qp{}, err
	}
	scale, err := fPow.Pow(n - 1)
	if err != nil {
		return qp.Qp{}, err
	}
	return sum.Mul(scale)
}

// ratToQp converts an arbitrary-size rational to Qp by dividing the Qp
// promotions of its numerator and denominator, avoiding the int64 overflow
// that qp.FromRational's int64-only signature would risk for the large
// numerators Bernoulli numbers produce even at modest n.
func ratToQp(r *big.Rat, p, precision int64) (qp.Qp, error) {
	num, err := qp.NewFromBigInt(p, precision, r.Num())
	if err != nil {
		return qp.Qp{}, err
	}
	den, err := qp.NewFromBigInt(p, precision, r.Denom())
	if err != nil {
		return qp.Qp{}, err
	}
	return num.Div(den)
}
