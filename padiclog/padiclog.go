// Package padiclog implements the p-adic logarithm on the domain where the
// Mercator series converges: valuation-0 elements of Q_p congruent to 1 mod
// p (mod 4 for p = 2). An internal exponential series, convergent on
// elements of positive (>= 2 for p = 2) valuation, backs a verification
// helper but is not part of the public surface: the exported operations are
// Log and LogUnit, plus VerifyRoundTrip, which checks exp(log(x)) = x
// without exporting exp itself.
package padiclog

import (
	"math/big"

	"github.com/IguanAI/libadic/internal/adicerr"
	"github.com/IguanAI/libadic/qp"
	"github.com/IguanAI/libadic/zp"
)

func checkConvergence(x qp.Qp) error {
	if x.IsZero() {
		return adicerr.Domainf("logarithm of zero is undefined")
	}
	if x.Valuation() != 0 {
		return adicerr.Domainf("p-adic logarithm requires valuation 0")
	}
	one, err := qp.NewFromInt64(x.Prime(), x.EffectivePrecision(), 1)
	if err != nil {
		return err
	}
	diff, err := x.Sub(one)
	if err != nil {
		return err
	}
	required := int64(1)
	if x.Prime() == 2 {
		required = 2
	}
	if diff.Valuation() < required {
		return adicerr.Domainf("p-adic logarithm does not converge: x must be congruent to 1 mod %s", convergenceModulusDescription(x.Prime()))
	}
	return nil
}

func convergenceModulusDescription(p int64) string {
	if p == 2 {
		return "4"
	}
	return "p"
}

// workingPrecision bumps N to compensate for the p-adic digits the Mercator
// series loses whenever its denominator n is divisible by p: every power of
// p up to roughly 2N contributes one more lost digit somewhere in the sum,
// so the buffer counts those powers directly rather than guessing a closed
// form.
func workingPrecision(p, n int64) int64 {
	count := int64(0)
	bound := n * 2
	for power := p; power <= bound; power *= p {
		count++
	}
	return n + count + 5
}

func requiredTerms(precision, uValuation int64) int64 {
	if uValuation <= 0 {
		return precision * 2
	}
	terms := precision/uValuation + 10
	if cap := precision * 3; terms > cap {
		terms = cap
	}
	return terms
}

// Log computes the p-adic logarithm of x. x must have valuation 0 and be
// congruent to 1 mod p (mod 4 for p = 2).
func Log(x qp.Qp) (qp.Qp, error) {
	if err := checkConvergence(x); err != nil {
		return qp.Qp{}, err
	}

	p := x.Prime()
	n := x.EffectivePrecision()
	working := workingPrecision(p, n)

	xWorking, err := x.WithPrecision(working)
	if err != nil {
		return qp.Qp{}, err
	}
	one, err := qp.NewFromInt64(p, working, 1)
	if err != nil {
		return qp.Qp{}, err
	}
	u, err := xWorking.Sub(one)
	if err != nil {
		return qp.Qp{}, err
	}

	if u.IsZero() {
		return qp.NewFromInt64(p, n, 0)
	}

	terms := requiredTerms(working, u.Valuation())
	if terms < 1 {
		return qp.NewFromInt64(p, n, 0)
	}

	result := u
	uPower, err := u.Mul(u)
	if err != nil {
		return qp.Qp{}, err
	}

	for k := int64(2); k <= terms; k++ {
		divisor, err := qp.NewFromInt64(p, working, k)
		if err != nil {
			return qp.Qp{}, err
		}
		term, err := uPower.Div(divisor)
		if err != nil {
			return qp.Qp{}, err
		}
		if term.Valuation() >= working {
			break
		}
		if k%2 == 1 {
			result, err = result.Add(term)
		} else {
			result, err = result.Sub(term)
		}
		if err != nil {
			return qp.Qp{}, err
		}

		uPower, err = uPower.Mul(u)
		if err != nil {
			return qp.Qp{}, err
		}
		if uPower.Valuation() >= working {
			break
		}
	}

	return result.WithPrecision(n)
}

// LogUnit computes the p-adic logarithm of a unit x in Z_p, requiring x to
// be congruent to 1 mod p.
func LogUnit(x zp.Zp) (qp.Qp, error) {
	if !x.IsUnit() {
		return qp.Qp{}, adicerr.Domainf("LogUnit requires a unit in Zp")
	}
	one, err := zp.NewFromInt64(x.Prime(), 1, 1)
	if err != nil {
		return qp.Qp{}, err
	}
	reduced, err := x.WithPrecision(1)
	if err != nil {
		return qp.Qp{}, err
	}
	if !reduced.Equal(one) {
		return qp.Qp{}, adicerr.Domainf("unit must be congruent to 1 mod p for log to converge")
	}
	return Log(qp.FromZp(x))
}

// expTruncated computes exp(x) for x of valuation >= 1 (>= 2 for p = 2),
// truncated to precision. It exists only to support verifying Log via the
// exp(log(x)) == x property; it is not part of this package's public
// surface in the sense the component design describes ("used only to
// verify or to implement an alternate... log").
func expTruncated(x qp.Qp, precision int64) (qp.Qp, error) {
	p := x.Prime()
	required := int64(1)
	if p == 2 {
		required = 2
	}
	if x.IsZero() {
		return qp.NewFromInt64(p, precision, 1)
	}
	if x.Valuation() < required {
		return qp.Qp{}, adicerr.Domainf("exp requires valuation >= %d for convergence", required)
	}

	result, err := qp.NewFromInt64(p, precision, 1)
	if err != nil {
		return qp.Qp{}, err
	}
	xPower, err := x.WithPrecision(precision)
	if err != nil {
		return qp.Qp{}, err
	}
	factorial := big.NewInt(1)

	for k := int64(1); k <= precision*2; k++ {
		factorial.Mul(factorial, big.NewInt(k))
		factorialQp, err := qp.NewFromBigInt(p, precision, factorial)
		if err != nil {
			return qp.Qp{}, err
		}
		term, err := xPower.Div(factorialQp)
		if err != nil {
			return qp.Qp{}, err
		}
		if term.Valuation() >= precision {
			break
		}
		result, err = result.Add(term)
		if err != nil {
			return qp.Qp{}, err
		}
		xPower, err = xPower.Mul(x)
		if err != nil {
			return qp.Qp{}, err
		}
	}
	return result, nil
}

// VerifyRoundTrip reports whether exp(log(x)) == x to at least tolerance
// digits of precision; it exists to make the exp(log(x)) = x property
// directly testable without exporting exp itself.
func VerifyRoundTrip(x qp.Qp, tolerance int64) bool {
	logX, err := Log(x)
	if err != nil {
		return false
	}
	expLogX, err := expTruncated(logX, x.EffectivePrecision())
	if err != nil {
		return false
	}
	diff, err := expLogX.Sub(x)
	if err != nil {
		return false
	}
	return diff.Valuation() >= tolerance
}
