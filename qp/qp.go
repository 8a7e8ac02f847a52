// Package qp implements Q_p, the field of p-adic numbers, as a signed
// valuation paired with a unit in Z_p. Unlike Z_p, a Qp value can be zero
// only "up to a tracked absolute precision" — mirroring how Zp represents
// its own zero by precision rather than by a distinct sentinel — since Qp's
// valuation can be negative and therefore cannot always be realized as an
// actual Zp element.
package qp

import (
	"fmt"
	"math/big"

	"github.com/IguanAI/libadic/internal/adicerr"
	"github.com/IguanAI/libadic/internal/modular"
	"github.com/IguanAI/libadic/zp"
)

// Qp is an element of Q_p: either a nonzero pair (valuation, unit) with unit
// a genuine Zp unit, or a value known only to be zero modulo p^precision.
type Qp struct {
	prime int64

	isZero bool

	// meaningful when !isZero
	valuation int64
	unit      zp.Zp

	// meaningful when isZero: x is known to be == 0 mod p^precision and
	// nothing further can be said about it (exactly Zp's convention for
	// its own zero element, lifted to a field where valuation is signed).
	precision int64
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

// New constructs the zero element of Q_p, known to precision N.
func New(p, precision int64) (Qp, error) {
	if err := validate(p, precision); err != nil {
		return Qp{}, err
	}
	return Qp{prime: p, isZero: true, precision: precision}, nil
}

// NewFromInt64 constructs the element of Q_p congruent to v, with v's unit
// part known to precision N.
func NewFromInt64(p, precision, v int64) (Qp, error) {
	return NewFromBigInt(p, precision, big.NewInt(v))
}

// NewFromBigInt constructs the element of Q_p congruent to v, with v's unit
// part known to precision N.
func NewFromBigInt(p, precision int64, v *big.Int) (Qp, error) {
	if err := validate(p, precision); err != nil {
		return Qp{}, err
	}
	if v.Sign() == 0 {
		return Qp{prime: p, isZero: true, precision: precision}, nil
	}
	val := modular.Valuation(v, big.NewInt(p))
	pPowV := new(big.Int).Exp(big.NewInt(p), big.NewInt(val), nil)
	unitValue := new(big.Int).Div(v, pPowV)
	unit, err := zp.NewFromBigInt(p, precision, unitValue)
	if err != nil {
		return Qp{}, err
	}
	return Qp{prime: p, valuation: val, unit: unit}, nil
}

// FromRational constructs num/den in Q_p at the given precision, extracting
// the p-adic valuation of num/den (which may be negative) and reducing the
// coprime-to-p remainder to a Zp unit of precision N.
func FromRational(num, den, p, precision int64) (Qp, error) {
	if err := validate(p, precision); err != nil {
		return Qp{}, err
	}
	if den == 0 {
		return Qp{}, adicerr.Domainf("denominator cannot be zero")
	}
	if num == 0 {
		return Qp{prime: p, isZero: true, precision: precision}, nil
	}
	pBig := big.NewInt(p)
	n := big.NewInt(num)
	d := big.NewInt(den)

	vn := modular.Valuation(n, pBig)
	vd := modular.Valuation(d, pBig)
	val := vn - vd

	nUnit := new(big.Int).Div(n, new(big.Int).Exp(pBig, big.NewInt(vn), nil))
	dUnit := new(big.Int).Div(d, new(big.Int).Exp(pBig, big.NewInt(vd), nil))

	mod := new(big.Int).Exp(pBig, big.NewInt(precision), nil)
	dInv, err := modular.Inverse(new(big.Int).Mod(dUnit, mod), mod)
	if err != nil {
		return Qp{}, adicerr.Domainf("unreachable: denominator unit is always coprime to p")
	}
	unitValue := new(big.Int).Mod(new(big.Int).Mul(nUnit, dInv), mod)
	unit, err := zp.NewFromBigInt(p, precision, unitValue)
	if err != nil {
		return Qp{}, err
	}
	return Qp{prime: p, valuation: val, unit: unit}, nil
}

// FromZp promotes a Zp value to Qp with valuation v_p(x) and unit part
// x/p^v (valuation 0 when x is a unit), or, if the Zp value is zero, a Qp
// known to be zero to the Zp's own tracked precision.
func FromZp(x zp.Zp) Qp {
	if x.IsZero() {
		return Qp{prime: x.Prime(), isZero: true, precision: x.Precision()}
	}
	v := x.Valuation()
	unit, _ := x.UnitPart() // v < precision is guaranteed by x.IsZero() being false
	return Qp{prime: x.Prime(), valuation: v, unit: unit}
}

// Prime returns the attached prime.
func (x Qp) Prime() int64 { return x.prime }

// IsZero reports whether x is known to be zero to its tracked precision.
func (x Qp) IsZero() bool { return x.isZero }

// absolutePrecision returns the modulus exponent to which x is known: for a
// nonzero value this is valuation + unit precision; for a zero value it is
// the tracked precision directly, matching Zp's own convention.
func (x Qp) absolutePrecision() int64 {
	if x.isZero {
		return x.precision
	}
	return x.valuation + x.unit.Precision()
}

// Valuation returns v_p(x). For a value known only to be zero, this is the
// tracked absolute precision (the same convention Zp uses for its own zero).
func (x Qp) Valuation() int64 {
	if x.isZero {
		return x.precision
	}
	return x.valuation
}

// Precision returns the precision of the unit part (0 for a tracked zero,
// since there is no unit to speak of).
func (x Qp) Precision() int64 {
	if x.isZero {
		return 0
	}
	return x.unit.Precision()
}

// EffectivePrecision returns valuation + unit precision: the absolute
// precision to which x as a whole is known.
func (x Qp) EffectivePrecision() int64 { return x.absolutePrecision() }

// WithPrecision re-expresses x with the unit part (or the zero marker)
// truncated/extended to newPrecision digits beyond the valuation.
func (x Qp) WithPrecision(newPrecision int64) (Qp, error) {
	if newPrecision < 1 {
		return Qp{}, adicerr.InvalidArgumentf("precision must be >= 1, got %d", newPrecision)
	}
	if x.isZero {
		return Qp{prime: x.prime, isZero: true, precision: newPrecision}, nil
	}
	unit, err := x.unit.WithPrecision(newPrecision)
	if err != nil {
		return Qp{}, err
	}
	return Qp{prime: x.prime, valuation: x.valuation, unit: unit}, nil
}

// ToZp demotes x to a Zp value, failing with a Domain error if x has
// negative valuation (and hence is not actually in Z_p).
func (x Qp) ToZp() (zp.Zp, error) {
	if x.isZero {
		return zp.New(x.prime, x.precision)
	}
	if x.valuation < 0 {
		return zp.Zp{}, adicerr.Domainf("cannot demote Qp with negative valuation %d to Zp", x.valuation)
	}
	if x.valuation == 0 {
		return x.unit, nil
	}
	pPowV := new(big.Int).Exp(big.NewInt(x.prime), big.NewInt(x.valuation), nil)
	shifted := new(big.Int).Mul(x.unit.ToBigInt(), pPowV)
	return zp.NewFromBigInt(x.prime, x.valuation+x.unit.Precision(), shifted)
}

func (x Qp) checkSamePrime(y Qp) error {
	if x.prime != y.prime {
		return adicerr.InvalidArgumentf("cannot combine Qp values with different primes (%d and %d)", x.prime, y.prime)
	}
	return nil
}

// alignedParts returns (valuation, unitPrecision, unitValue) uniformly for
// both nonzero and tracked-zero values, as described in SPEC_FULL.md's Qp
// section: a tracked zero behaves like a value with valuation ==
// absolutePrecision and zero unit digits known.
func (x Qp) alignedParts() (valuation, unitPrecision int64, unitValue *big.Int) {
	if x.isZero {
		return x.precision, 0, big.NewInt(0)
	}
	return x.valuation, x.unit.Precision(), x.unit.ToBigInt()
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// fromBracket builds a Qp from an aligned-addition result: a value known to
// be congruent to bracket modulo p^k, itself known to be p^vmin times the
// true value modulo p^(vmin+k).
func fromBracket(prime, vmin, k int64, bracket *big.Int) Qp {
	if bracket.Sign() == 0 || k <= 0 {
		return Qp{prime: prime, isZero: true, precision: vmin + k}
	}
	w := modular.Valuation(bracket, big.NewInt(prime))
	if w >= k {
		return Qp{prime: prime, isZero: true, precision: vmin + k}
	}
	pPowW := new(big.Int).Exp(big.NewInt(prime), big.NewInt(w), nil)
	unitValue := new(big.Int).Div(bracket, pPowW)
	unit, _ := zp.NewFromBigInt(prime, k-w, unitValue)
	return Qp{prime: prime, valuation: vmin + w, unit: unit}
}

func addAligned(prime int64, sign int64, x, y Qp) Qp {
	vx, nx, ux := x.alignedParts()
	vy, ny, uy := y.alignedParts()
	vmin := vx
	if vy < vmin {
		vmin = vy
	}
	shiftX := vx - vmin
	shiftY := vy - vmin
	kx := nx + shiftX
	ky := ny + shiftY
	k := minInt64(kx, ky)
	if k <= 0 {
		return Qp{prime: prime, isZero: true, precision: vmin}
	}
	mod := new(big.Int).Exp(big.NewInt(prime), big.NewInt(k), nil)
	bx := new(big.Int).Mul(ux, new(big.Int).Exp(big.NewInt(prime), big.NewInt(shiftX), nil))
	by := new(big.Int).Mul(uy, new(big.Int).Exp(big.NewInt(prime), big.NewInt(shiftY), nil))
	bx.Mod(bx, mod)
	by.Mod(by, mod)
	if sign < 0 {
		by.Neg(by)
	}
	bracket := new(big.Int).Add(bx, by)
	bracket.Mod(bracket, mod)
	return fromBracket(prime, vmin, k, bracket)
}

// Add returns x+y.
func (x Qp) Add(y Qp) (Qp, error) {
	if err := x.checkSamePrime(y); err != nil {
		return Qp{}, err
	}
	return addAligned(x.prime, 1, x, y), nil
}

// Sub returns x-y.
func (x Qp) Sub(y Qp) (Qp, error) {
	if err := x.checkSamePrime(y); err != nil {
		return Qp{}, err
	}
	return addAligned(x.prime, -1, x, y), nil
}

// Mul returns x*y.
func (x Qp) Mul(y Qp) (Qp, error) {
	if err := x.checkSamePrime(y); err != nil {
		return Qp{}, err
	}
	if x.isZero || y.isZero {
		lowerX := x.Valuation()
		lowerY := y.Valuation()
		return Qp{prime: x.prime, isZero: true, precision: lowerX + lowerY}, nil
	}
	unit, err := x.unit.Mul(y.unit)
	if err != nil {
		return Qp{}, err
	}
	return Qp{prime: x.prime, valuation: x.valuation + y.valuation, unit: unit}, nil
}

// Div returns x/y. y must be nonzero (to any tracked precision); fails with
// a Domain error otherwise.
func (x Qp) Div(y Qp) (Qp, error) {
	if err := x.checkSamePrime(y); err != nil {
		return Qp{}, err
	}
	if y.isZero {
		return Qp{}, adicerr.Domainf("division by zero in Qp")
	}
	if x.isZero {
		return Qp{prime: x.prime, isZero: true, precision: x.Valuation() - y.valuation}, nil
	}
	unit, err := x.unit.Div(y.unit)
	if err != nil {
		return Qp{}, err
	}
	return Qp{prime: x.prime, valuation: x.valuation - y.valuation, unit: unit}, nil
}

// Neg returns -x.
func (x Qp) Neg() Qp {
	if x.isZero {
		return x
	}
	return Qp{prime: x.prime, valuation: x.valuation, unit: x.unit.Neg()}
}

// Equal reports whether x and y agree to the precision both are known to:
// equivalently, whether their difference is indistinguishable from zero at
// that precision.
func (x Qp) Equal(y Qp) bool {
	if x.prime != y.prime {
		return false
	}
	diff, err := x.Sub(y)
	if err != nil {
		return false
	}
	return diff.IsZero()
}

// Pow returns x^e. Negative e inverts x (requiring x to be nonzero).
func (x Qp) Pow(e int64) (Qp, error) {
	if e == 0 {
		return NewFromInt64(x.prime, x.absolutePrecision(), 1)
	}
	negative := e < 0
	n := e
	if negative {
		n = -n
	}
	if x.isZero {
		if negative {
			return Qp{}, adicerr.Domainf("cannot raise a zero Qp to a negative power")
		}
		return Qp{prime: x.prime, isZero: true, precision: x.precision * n}, nil
	}
	unit, err := x.unit.PowInt64(n)
	if err != nil {
		return Qp{}, err
	}
	result := Qp{prime: x.prime, valuation: x.valuation * n, unit: unit}
	if negative {
		one, err := NewFromInt64(x.prime, x.unit.Precision(), 1)
		if err != nil {
			return Qp{}, err
		}
		return one.Div(result)
	}
	return result, nil
}

// String renders x as "p^v * u (mod p^N)" for nonzero x, or "O(p^N)" for a
// value known only to be zero.
func (x Qp) String() string {
	if x.isZero {
		return fmt.Sprintf("O(%d^%d)", x.prime, x.precision)
	}
	return fmt.Sprintf("%d^%d * %s", x.prime, x.valuation, x.unit.String())
}
