// Package cyclotomic represents the cyclotomic extension Z_p[ζ_{p-1}] that
// Dirichlet character evaluation needs. Since (Z/pZ)* is cyclic of order
// p-1 and Hensel's lemma lifts every root of X^(p-1) - 1 completely, ζ_{p-1}
// already lives in Z_p itself — so this package is not a polynomial ring or
// basis extension, just a thin Qp wrapper that gives the character and
// l-functions packages a dedicated type to compute with, centered on the
// Teichmüller lift of a primitive root as its distinguished generator.
package cyclotomic

import (
	"github.com/IguanAI/libadic/internal/adicerr"
	"github.com/IguanAI/libadic/internal/modular"
	"github.com/IguanAI/libadic/qp"
	"github.com/IguanAI/libadic/zp"
)

// Cyclotomic is an element of Z_p[ζ_{p-1}], represented concretely as a
// value of Q_p.
type Cyclotomic struct {
	value qp.Qp
}

// New returns the zero element at the given prime and precision.
func New(p, precision int64) (Cyclotomic, error) {
	zero, err := qp.New(p, precision)
	if err != nil {
		return Cyclotomic{}, err
	}
	return Cyclotomic{value: zero}, nil
}

// FromQp wraps an existing Qp value.
func FromQp(x qp.Qp) Cyclotomic {
	return Cyclotomic{value: x}
}

// FromZp wraps an existing Zp value.
func FromZp(x zp.Zp) Cyclotomic {
	return Cyclotomic{value: qp.FromZp(x)}
}

// ToQp returns the underlying Qp value.
func (c Cyclotomic) ToQp() qp.Qp { return c.value }

// Zeta returns the Teichmüller lift of the smallest primitive root mod p:
// the canonical generator ζ_{p-1} of the group of (p-1)-th roots of unity in
// Z_p. For p == 2 the group is trivial and Zeta is 1.
func Zeta(p, precision int64) (Cyclotomic, error) {
	if p == 2 {
		one, err := zp.NewFromInt64(2, precision, 1)
		if err != nil {
			return Cyclotomic{}, err
		}
		return FromZp(one), nil
	}
	g, err := modular.PrimitiveRoot(p)
	if err != nil {
		return Cyclotomic{}, err
	}
	root, err := zp.NewFromInt64(p, precision, g)
	if err != nil {
		return Cyclotomic{}, err
	}
	lift, err := root.Teichmuller()
	if err != nil {
		return Cyclotomic{}, err
	}
	return FromZp(lift), nil
}

// Power returns ζ^k for the Zeta generator of order p-1, reduced using
// ζ^(p-1) = 1 before exponentiating. If order does not divide p-1, no power
// of a (p-1)-th root of unity can realize it exactly, and this returns a
// Domain error rather than silently truncating (the original's integer
// division behavior this implementation deliberately improves on).
func Power(p, precision, order, exponent int64) (Cyclotomic, error) {
	pMinus1 := p - 1
	if pMinus1%order != 0 {
		return Cyclotomic{}, adicerr.Domainf("character order %d does not divide p-1 = %d: no (p-1)-th root of unity realizes this value exactly", order, pMinus1)
	}
	z, err := Zeta(p, precision)
	if err != nil {
		return Cyclotomic{}, err
	}
	var scaledExponent int64
	if order != 0 {
		scaledExponent = exponent * (pMinus1 / order)
	}
	scaledExponent = ((scaledExponent % pMinus1) + pMinus1) % pMinus1
	zInner, err := z.value.ToZp()
	if err != nil {
		return Cyclotomic{}, err
	}
	result, err := zInner.PowInt64(scaledExponent)
	if err != nil {
		return Cyclotomic{}, err
	}
	return FromZp(result), nil
}

// Add returns c+d.
func (c Cyclotomic) Add(d Cyclotomic) (Cyclotomic, error) {
	sum, err := c.value.Add(d.value)
	if err != nil {
		return Cyclotomic{}, err
	}
	return Cyclotomic{value: sum}, nil
}

// Sub returns c-d.
func (c Cyclotomic) Sub(d Cyclotomic) (Cyclotomic, error) {
	diff, err := c.value.Sub(d.value)
	if err != nil {
		return Cyclotomic{}, err
	}
	return Cyclotomic{value: diff}, nil
}

// Mul returns c*d.
func (c Cyclotomic) Mul(d Cyclotomic) (Cyclotomic, error) {
	prod, err := c.value.Mul(d.value)
	if err != nil {
		return Cyclotomic{}, err
	}
	return Cyclotomic{value: prod}, nil
}

// IsZero reports whether c is zero.
func (c Cyclotomic) IsZero() bool { return c.value.IsZero() }

// String renders the underlying Qp value.
func (c Cyclotomic) String() string { return c.value.String() }
