// Package zp implements Z_p, the ring of p-adic integers, with explicitly
// tracked absolute precision. Every value carries its own prime and
// precision; binary operations on values with mismatched primes are an
// InvalidArgument error, and the precision of a result is always a pure
// function of the precisions of its inputs (never an argument a caller
// supplies directly).
package zp

import (
	"fmt"
	"math/big"

	"github.com/IguanAI/libadic/internal/adicerr"
	"github.com/IguanAI/libadic/internal/modular"
)

// Zp is an element of Z/p^N Z, interpreted as a p-adic integer known to
// absolute precision N. The zero value is not meaningful; use New or one of
// the other constructors.
type Zp struct {
	prime     int64
	precision int64
	value     *big.Int // canonical representative in [0, p^precision)
}

func validate(p, precision int64) error {
	if p < 2 {
		return adicerr.InvalidArgumentf("prime must be >= 2, got %d", p)
	}
	if precision < 1 {
		return adicerr.InvalidArgumentf("precision must be >= 1, got %d", precision)
	}
	return nil
}

func modulus(p, precision int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(p), big.NewInt(precision), nil)
}

func reduce(v *big.Int, mod *big.Int) *big.Int {
	r := new(big.Int).Mod(v, mod)
	return r
}

// New constructs the zero element of Z_p at the given precision.
func New(p, precision int64) (Zp, error) {
	return NewFromInt64(p, precision, 0)
}

// NewFromInt64 constructs the element of Z/p^precision Z congruent to v.
func NewFromInt64(p, precision, v int64) (Zp, error) {
	return NewFromBigInt(p, precision, big.NewInt(v))
}

// NewFromBigInt constructs the element of Z/p^precision Z congruent to v.
func NewFromBigInt(p, precision int64, v *big.Int) (Zp, error) {
	if err := validate(p, precision); err != nil {
		return Zp{}, err
	}
	mod := modulus(p, precision)
	return Zp{prime: p, precision: precision, value: reduce(v, mod)}, nil
}

// FromRational constructs num/den in Z_p at the given precision. p must not
// divide the reduced denominator; if it does, the rational belongs in Q_p
// instead and this fails with a Domain error.
func FromRational(num, den, p, precision int64) (Zp, error) {
	if err := validate(p, precision); err != nil {
		return Zp{}, err
	}
	if den == 0 {
		return Zp{}, adicerr.Domainf("denominator cannot be zero")
	}
	pBig := big.NewInt(p)
	d := big.NewInt(den)
	n := big.NewInt(num)
	for new(big.Int).Mod(d, pBig).Sign() == 0 && new(big.Int).Mod(n, pBig).Sign() == 0 {
		d.Div(d, pBig)
		n.Div(n, pBig)
	}
	mod := modulus(p, precision)
	inv, err := modular.Inverse(d, mod)
	if err != nil {
		return Zp{}, adicerr.Domainf("denominator is divisible by p: use Qp.FromRational instead")
	}
	result := new(big.Int).Mul(n, inv)
	return Zp{prime: p, precision: precision, value: reduce(result, mod)}, nil
}

// Prime returns the attached prime.
func (x Zp) Prime() int64 { return x.prime }

// Precision returns the absolute precision N.
func (x Zp) Precision() int64 { return x.precision }

// ToBigInt returns the canonical representative in [0, p^N).
func (x Zp) ToBigInt() *big.Int { return new(big.Int).Set(x.value) }

// WithPrecision truncates (or, if newPrecision > N, trivially extends) x to
// a new precision. Truncating never refines the mathematical value; it only
// reduces the modulus.
func (x Zp) WithPrecision(newPrecision int64) (Zp, error) {
	if newPrecision < 1 {
		return Zp{}, adicerr.InvalidArgumentf("precision must be >= 1, got %d", newPrecision)
	}
	if newPrecision >= x.precision {
		return Zp{prime: x.prime, precision: newPrecision, value: new(big.Int).Set(x.value)}, nil
	}
	mod := modulus(x.prime, newPrecision)
	return Zp{prime: x.prime, precision: newPrecision, value: reduce(x.value, mod)}, nil
}

// LiftPrecision extends the formal precision of x without refining the
// underlying value: the new digits beyond the old precision are exactly
// zero, which is a particular (not the only possible) lift, but it is the
// only one obtainable without more information about x.
func (x Zp) LiftPrecision(newPrecision int64) (Zp, error) {
	if newPrecision < 1 {
		return Zp{}, adicerr.InvalidArgumentf("precision must be >= 1, got %d", newPrecision)
	}
	if newPrecision <= x.precision {
		return x, nil
	}
	return Zp{prime: x.prime, precision: newPrecision, value: new(big.Int).Set(x.value)}, nil
}

func (x Zp) checkSamePrime(y Zp) error {
	if x.prime != y.prime {
		return adicerr.InvalidArgumentf("cannot combine Zp values with different primes (%d and %d)", x.prime, y.prime)
	}
	return nil
}

func minPrecision(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Add returns x+y at precision min(N_x, N_y).
func (x Zp) Add(y Zp) (Zp, error) {
	if err := x.checkSamePrime(y); err != nil {
		return Zp{}, err
	}
	n := minPrecision(x.precision, y.precision)
	mod := modulus(x.prime, n)
	sum := new(big.Int).Add(x.value, y.value)
	return Zp{prime: x.prime, precision: n, value: reduce(sum, mod)}, nil
}

// Sub returns x-y at precision min(N_x, N_y).
func (x Zp) Sub(y Zp) (Zp, error) {
	if err := x.checkSamePrime(y); err != nil {
		return Zp{}, err
	}
	n := minPrecision(x.precision, y.precision)
	mod := modulus(x.prime, n)
	diff := new(big.Int).Sub(x.value, y.value)
	return Zp{prime: x.prime, precision: n, value: reduce(diff, mod)}, nil
}

// Mul returns x*y at precision min(N_x, N_y).
func (x Zp) Mul(y Zp) (Zp, error) {
	if err := x.checkSamePrime(y); err != nil {
		return Zp{}, err
	}
	n := minPrecision(x.precision, y.precision)
	mod := modulus(x.prime, n)
	prod := new(big.Int).Mul(x.value, y.value)
	return Zp{prime: x.prime, precision: n, value: reduce(prod, mod)}, nil
}

// Div returns x/y. Defined only when y is a unit (p does not divide y);
// fails with a Domain error on division by zero or by a non-unit.
func (x Zp) Div(y Zp) (Zp, error) {
	if err := x.checkSamePrime(y); err != nil {
		return Zp{}, err
	}
	if y.IsZero() {
		return Zp{}, adicerr.Domainf("division by zero in Zp")
	}
	n := minPrecision(x.precision, y.precision)
	mod := modulus(x.prime, n)
	yMod := reduce(y.value, mod)
	inv, err := modular.Inverse(yMod, mod)
	if err != nil {
		return Zp{}, adicerr.Domainf("cannot divide by non-unit in Zp")
	}
	result := new(big.Int).Mul(x.value, inv)
	return Zp{prime: x.prime, precision: n, value: reduce(result, mod)}, nil
}

// Neg returns -x.
func (x Zp) Neg() Zp {
	mod := modulus(x.prime, x.precision)
	neg := new(big.Int).Sub(mod, x.value)
	neg = reduce(neg, mod)
	return Zp{prime: x.prime, precision: x.precision, value: neg}
}

// Equal reports whether x and y represent the same residue class truncated
// to min(N_x, N_y). Values with different primes are never equal.
func (x Zp) Equal(y Zp) bool {
	if x.prime != y.prime {
		return false
	}
	n := minPrecision(x.precision, y.precision)
	mod := modulus(x.prime, n)
	return reduce(x.value, mod).Cmp(reduce(y.value, mod)) == 0
}

// IsZero reports whether x is exactly zero modulo p^N.
func (x Zp) IsZero() bool { return x.value.Sign() == 0 }

// IsOne reports whether x is exactly one modulo p^N.
func (x Zp) IsOne() bool { return x.value.Cmp(big.NewInt(1)) == 0 }

// IsUnit reports whether p does not divide x's value.
func (x Zp) IsUnit() bool {
	return new(big.Int).Mod(x.value, big.NewInt(x.prime)).Sign() != 0
}

// Valuation returns v_p(x). For x == 0 this is defined as the tracked
// precision N, since zero is only known to be divisible by p^N and nothing
// more can be said about it.
func (x Zp) Valuation() int64 {
	if x.IsZero() {
		return x.precision
	}
	return modular.Valuation(x.value, big.NewInt(x.prime))
}

// UnitPart returns x / p^v_p(x) as a Zp whose precision has been reduced by
// v_p(x). Pulling out k factors of p costs k digits of precision; this is a
// hard invariant of p-adic arithmetic, not a shortcut taken here.
func (x Zp) UnitPart() (Zp, error) {
	if x.IsZero() {
		return x, nil
	}
	v := x.Valuation()
	if v == 0 {
		return x, nil
	}
	if v >= x.precision {
		return Zp{}, adicerr.Domainf("unit part undefined: valuation %d meets or exceeds precision %d", v, x.precision)
	}
	pPowV := new(big.Int).Exp(big.NewInt(x.prime), big.NewInt(v), nil)
	unit := new(big.Int).Div(x.value, pPowV)
	return Zp{prime: x.prime, precision: x.precision - v, value: unit}, nil
}

// Pow returns x^e via modular exponentiation modulo p^N. Negative exponents
// are not defined on Zp; promote to Qp for those.
func (x Zp) Pow(e *big.Int) (Zp, error) {
	if e.Sign() < 0 {
		return Zp{}, adicerr.Domainf("negative exponents are not defined on Zp; promote to Qp")
	}
	mod := modulus(x.prime, x.precision)
	result := new(big.Int).Exp(x.value, e, mod)
	return Zp{prime: x.prime, precision: x.precision, value: result}, nil
}

// PowInt64 is Pow for a plain int64 exponent.
func (x Zp) PowInt64(e int64) (Zp, error) {
	return x.Pow(big.NewInt(e))
}

// Teichmuller returns the unique (p-1)-th root of unity congruent to x mod p.
// Requires x to be a unit.
func (x Zp) Teichmuller() (Zp, error) {
	if !x.IsUnit() {
		return Zp{}, adicerr.Domainf("Teichmüller lift requires a unit")
	}
	lifted, err := modular.TeichmullerLift(x.value, big.NewInt(x.prime), x.precision)
	if err != nil {
		return Zp{}, err
	}
	return Zp{prime: x.prime, precision: x.precision, value: lifted}, nil
}

// Sqrt returns a square root of x in Z_p, when one exists. For odd p this
// requires x to reduce to a quadratic residue mod p (tested via the
// Legendre symbol and extracted via Tonelli-Shanks before Hensel lifting to
// full precision); for p == 2 it requires x = 1 (mod 8).
func (x Zp) Sqrt() (Zp, error) {
	if !x.IsUnit() {
		return Zp{}, adicerr.Domainf("square root is only defined for units in Zp")
	}
	p := big.NewInt(x.prime)
	if x.prime == 2 {
		mod8 := new(big.Int).Mod(x.value, big.NewInt(8))
		if mod8.Cmp(big.NewInt(1)) != 0 {
			return Zp{}, adicerr.Domainf("no square root exists (value is not congruent to 1 mod 8)")
		}
		root := big.NewInt(1)
		return henselLiftSquareRoot(x, root, p)
	}

	legendreExp := new(big.Int).Div(new(big.Int).Sub(p, big.NewInt(1)), big.NewInt(2))
	legendre := new(big.Int).Exp(x.value, legendreExp, p)
	if legendre.Cmp(big.NewInt(1)) != 0 {
		return Zp{}, adicerr.Domainf("no square root exists (value is not a quadratic residue mod p)")
	}
	root := tonelliShanks(new(big.Int).Mod(x.value, p), p)
	return henselLiftSquareRoot(x, root, p)
}

// tonelliShanks finds a square root of a modulo the odd prime p, assuming a
// is a quadratic residue.
func tonelliShanks(a, p *big.Int) *big.Int {
	one := big.NewInt(1)
	two := big.NewInt(2)
	pMinus1 := new(big.Int).Sub(p, one)

	q := new(big.Int).Set(pMinus1)
	s := int64(0)
	for new(big.Int).Mod(q, two).Sign() == 0 {
		q.Div(q, two)
		s++
	}

	z := big.NewInt(2)
	legendreExp := new(big.Int).Div(pMinus1, two)
	for new(big.Int).Exp(z, legendreExp, p).Cmp(pMinus1) != 0 {
		z.Add(z, one)
	}

	m := s
	c := new(big.Int).Exp(z, q, p)
	t := new(big.Int).Exp(a, q, p)
	rExp := new(big.Int).Div(new(big.Int).Add(q, one), two)
	r := new(big.Int).Exp(a, rExp, p)

	for t.Cmp(one) != 0 {
		i := int64(1)
		t2 := new(big.Int).Exp(t, two, p)
		for t2.Cmp(one) != 0 {
			t2 = new(big.Int).Exp(t2, two, p)
			i++
		}
		b := new(big.Int).Set(c)
		for j := int64(0); j < m-i-1; j++ {
			b = new(big.Int).Exp(b, two, p)
		}
		m = i
		c = new(big.Int).Exp(b, two, p)
		t = new(big.Int).Mod(new(big.Int).Mul(t, c), p)
		r = new(big.Int).Mod(new(big.Int).Mul(r, b), p)
	}
	return r
}

// henselLiftSquareRoot lifts a mod-p (or mod-8 for p=2) square root to full
// precision by Newton's method: root_{k+1} = root_k - f(root_k)/f'(root_k)
// with f(X) = X^2 - value, f'(X) = 2X. For p = 2, where 2X is never
// invertible, a root mod 2^k (k >= 3) is instead corrected by adding
// 2^(k-1) whenever it is not already a root mod 2^(k+1).
func henselLiftSquareRoot(x Zp, root, p *big.Int) (Zp, error) {
	if x.prime == 2 {
		for k := int64(3); k < x.precision; k++ {
			pk1 := new(big.Int).Lsh(big.NewInt(1), uint(k+1))
			f := new(big.Int).Sub(new(big.Int).Mul(root, root), x.value)
			if f.Mod(f, pk1).Sign() != 0 {
				root = new(big.Int).Add(root, new(big.Int).Lsh(big.NewInt(1), uint(k-1)))
			}
		}
		return Zp{prime: x.prime, precision: x.precision, value: reduce(root, modulus(x.prime, x.precision))}, nil
	}
	for k := int64(1); k < x.precision; k++ {
		pk := new(big.Int).Exp(p, big.NewInt(k), nil)
		pk1 := new(big.Int).Mul(pk, p)
		f := new(big.Int).Sub(new(big.Int).Mul(root, root), x.value)
		f.Mod(f, pk1)
		if f.Sign() != 0 {
			quotient := new(big.Int).Div(f, pk)
			twoRoot := new(big.Int).Mul(big.NewInt(2), root)
			twoRootInv, err := modular.Inverse(new(big.Int).Mod(twoRoot, p), p)
			if err != nil {
				return Zp{}, adicerr.Domainf("square root lift failed: derivative not invertible mod p")
			}
			correction := new(big.Int).Mul(quotient, twoRootInv)
			correction.Mul(correction, pk)
			root = new(big.Int).Sub(root, correction)
			root = reduce(root, pk1)
		}
	}
	mod := modulus(x.prime, x.precision)
	return Zp{prime: x.prime, precision: x.precision, value: reduce(root, mod)}, nil
}

// PAdicDigits returns [v mod p, (v/p) mod p, ...] of length N: the
// canonical base-p expansion of the representative.
func (x Zp) PAdicDigits() []int64 {
	digits := make([]int64, x.precision)
	temp := new(big.Int).Set(x.value)
	p := big.NewInt(x.prime)
	for i := int64(0); i < x.precision; i++ {
		rem := new(big.Int)
		q := new(big.Int)
		q.DivMod(temp, p, rem)
		digits[i] = rem.Int64()
		temp = q
	}
	return digits
}

// String formats x as "v (mod p^N)".
func (x Zp) String() string {
	return fmt.Sprintf("%s (mod %d^%d)", x.value.String(), x.prime, x.precision)
}
