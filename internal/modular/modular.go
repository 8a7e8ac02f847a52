// Package modular collects the small number-theoretic helpers shared by the
// p-adic arithmetic kernel and the Dirichlet character module: modular
// inverses, p-adic valuation of an integer, Teichmüller lifting, and
// primitive-root search. None of this is exported outside the module; it is
// the "5% modular helpers" leaf layer of the design.
package modular

import (
	"math/big"

	"github.com/IguanAI/libadic/internal/adicerr"
)

// Inverse returns a^{-1} mod m, failing with a Domain error if a is not
// invertible modulo m (i.e. gcd(a, m) != 1).
func Inverse(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int)
	g := new(big.Int).GCD(nil, nil, new(big.Int).Mod(a, m), m)
	if g.Cmp(big.NewInt(1)) != 0 {
		return nil, adicerr.Domainf("%s has no inverse modulo %s", a.String(), m.String())
	}
	inv.ModInverse(a, m)
	if inv == nil {
		return nil, adicerr.Domainf("%s has no inverse modulo %s", a.String(), m.String())
	}
	return inv, nil
}

// Valuation returns the largest k such that p^k divides n, for n != 0.
// Callers must handle n == 0 themselves: the p-adic valuation of zero is a
// matter of tracked precision, not an integer this function can return.
func Valuation(n *big.Int, p *big.Int) int64 {
	if n.Sign() == 0 {
		return 0
	}
	v := int64(0)
	rem := new(big.Int)
	q := new(big.Int).Abs(n)
	for {
		q2, r := new(big.Int), new(big.Int)
		q2.DivMod(q, p, r)
		rem = r
		if rem.Sign() != 0 {
			break
		}
		q = q2
		v++
	}
	return v
}

// TeichmullerLift computes the Teichmüller representative of value modulo
// p^precision: the unique (p-1)-th root of unity congruent to value mod p.
// value must be a unit mod p (coprime to p); precision must be >= 1.
//
// The lift is computed by the classical fixed-point iteration
// omega <- omega^p (mod p^precision), whose fixed point is the root of
// X^(p-1) - 1 congruent to value mod p. Each step fixes one more p-adic
// digit, so the number of steps grows linearly with precision.
func TeichmullerLift(value, p *big.Int, precision int64) (*big.Int, error) {
	modulus := new(big.Int).Exp(p, big.NewInt(precision), nil)
	omega := new(big.Int).Mod(value, p)
	if omega.Sign() == 0 {
		return nil, adicerr.Domainf("Teichmüller lift requires a unit mod p, got value divisible by p")
	}
	omega = new(big.Int).Mod(omega, modulus)
	// omega^(p^k) mod p^precision stabilizes once k >= precision-1;
	// iterate precision+4 times, comfortably past that bound.
	iterations := 1
	for m := new(big.Int).Set(modulus); m.Cmp(p) > 0; iterations++ {
		m.Div(m, p)
	}
	iterations += 4
	for i := 0; i < iterations; i++ {
		omega = new(big.Int).Exp(omega, p, modulus)
	}
	return omega, nil
}

// PrimitiveRoot returns the smallest g >= 2 that is a primitive root modulo
// the odd prime p, using the clean prime-divisor test: g is primitive iff
// g^((p-1)/q) != 1 (mod p) for every prime divisor q of p-1.
func PrimitiveRoot(p int64) (int64, error) {
	if p < 3 {
		return 0, adicerr.InvalidArgumentf("PrimitiveRoot requires an odd prime, got %d", p)
	}
	order := p - 1
	factors := PrimeFactors(order)
	for g := int64(2); g < p; g++ {
		isPrimitive := true
		for _, q := range factors {
			if powMod(g, order/q, p) == 1 {
				isPrimitive = false
				break
			}
		}
		if isPrimitive {
			return g, nil
		}
	}
	return 0, adicerr.Domainf("no primitive root found modulo %d", p)
}

// PrimeFactors returns the distinct prime factors of n (n > 0), via trial
// division. n is expected to be modest (character moduli / p-1 for small
// primes), so trial division is the appropriate tool here.
func PrimeFactors(n int64) []int64 {
	var factors []int64
	m := n
	for d := int64(2); d*d <= m; d++ {
		if m%d == 0 {
			factors = append(factors, d)
			for m%d == 0 {
				m /= d
			}
		}
	}
	if m > 1 {
		factors = append(factors, m)
	}
	return factors
}

// Factorize returns the prime-power factorization of n as parallel slices of
// primes and exponents.
func Factorize(n int64) (primes []int64, exponents []int64) {
	m := n
	for d := int64(2); d*d <= m; d++ {
		if m%d == 0 {
			e := int64(0)
			for m%d == 0 {
				m /= d
				e++
			}
			primes = append(primes, d)
			exponents = append(exponents, e)
		}
	}
	if m > 1 {
		primes = append(primes, m)
		exponents = append(exponents, 1)
	}
	return primes, exponents
}

func powMod(base, exp, mod int64) int64 {
	result := int64(1)
	base %= mod
	if base < 0 {
		base += mod
	}
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) % mod
		}
		base = (base * base) % mod
		exp >>= 1
	}
	return result
}

// PowModInt64 exposes powMod for use outside this file without re-deriving
// it; the character package's discrete-log search needs the same primitive.
func PowModInt64(base, exp, mod int64) int64 {
	return powMod(base, exp, mod)
}

// GCD returns the greatest common divisor of a and b (both >= 0).
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// LCM returns the least common multiple of a and b.
func LCM(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / GCD(a, b) * b
}
