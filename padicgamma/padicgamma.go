// Package padicgamma implements Morita's p-adic Gamma function, the
// external contract spec.md §4.6 assumes: a continuous extension of the
// sign-twisted factorial Γ_p(n) = (-1)^n * ∏_{0<j<n, p∤j} j to all of Z_p.
//
// Continuity means Γ_p(x) mod p^N depends only on x's canonical
// representative mod p^N, so evaluating it reduces to the finite product
// above on that representative — the direct definition, not an asymptotic
// shortcut, which is appropriate here since this module's only callers
// (lfunctions) apply it to small integer arguments (nearest-integer
// roundings of a/f for modest conductors f).
package padicgamma

import (
	"math/big"

	"github.com/IguanAI/libadic/padiclog"
	"github.com/IguanAI/libadic/qp"
	"github.com/IguanAI/libadic/zp"
)

// Gamma computes Γ_p(z) for z ∈ Z_p, returning a unit in Z_p (Γ_p never
// vanishes).
func Gamma(z zp.Zp) (zp.Zp, error) {
	p := big.NewInt(z.Prime())
	mod := new(big.Int).Exp(p, big.NewInt(z.Precision()), nil)
	n := z.ToBigInt()

	product := big.NewInt(1)
	j := big.NewInt(1)
	for j.Cmp(n) < 0 {
		if new(big.Int).Mod(j, p).Sign() != 0 {
			product.Mul(product, j)
			product.Mod(product, mod)
		}
		j.Add(j, big.NewInt(1))
	}
	if n.Bit(0) == 1 {
		product.Neg(product)
		product.Mod(product, mod)
	}
	return zp.NewFromBigInt(z.Prime(), z.Precision(), product)
}

// LogGamma returns log Γ_p(z). Since Γ_p(z) is always a unit, this is
// simply padiclog.LogUnit composed with Gamma — except that LogUnit further
// requires the unit be congruent to 1 mod p, which Γ_p(z) is not in
// general; LogGamma instead expresses log Γ_p(z) via the decomposition
// Γ_p(z) = sign * teichmuller * (1 + p*...), factoring out the Teichmüller
// part before taking the convergent log of what remains.
func LogGamma(z zp.Zp) (qp.Qp, error) {
	g, err := Gamma(z)
	if err != nil {
		return qp.Qp{}, err
	}
	omega, err := g.Teichmuller()
	if err != nil {
		return qp.Qp{}, err
	}
	omegaInv, err := invertUnit(omega)
	if err != nil {
		return qp.Qp{}, err
	}
	residual, err := g.Mul(omegaInv)
	if err != nil {
		return qp.Qp{}, err
	}
	// residual is now congruent to 1 mod p by construction of the
	// Teichmüller lift, so padiclog.LogUnit applies directly. log of the
	// Teichmüller factor itself is zero, since it is a root of unity of
	// order p-1 coprime to p's residue characteristic.
	return padiclog.LogUnit(residual)
}

func invertUnit(x zp.Zp) (zp.Zp, error) {
	one, err := zp.NewFromInt64(x.Prime(), x.Precision(), 1)
	if err != nil {
		return zp.Zp{}, err
	}
	return one.Div(x)
}
