// Package character implements Dirichlet characters modulo n: generator
// decomposition of (Z/nZ)* following the structure theorem, discrete-log
// based evaluation, conductor computation, parity/order/principal tests,
// enumeration, and Gauss sums.
package character

import (
	"github.com/IguanAI/libadic/cyclotomic"
	"github.com/IguanAI/libadic/internal/adicerr"
	"github.com/IguanAI/libadic/internal/modular"
	"github.com/IguanAI/libadic/zp"
)

// generator describes one generator of a cyclic factor of (Z/nZ)*,
// produced by the structure-theorem decomposition: odd prime powers give a
// single generator; 2 gives none; 4 gives one of order 2; 2^k (k>=3) gives
// two, a generator of the order-2 factor (-1) and a generator of the
// order-2^(k-2) factor (3).
type generator struct {
	localModulus int64 // the prime-power block this generator belongs to
	value        int64 // the generator's own residue, e.g. -1, 3, or a primitive root
	order        int64 // the generator's multiplicative order mod localModulus
	chiValue     int64 // assigned character exponent in Z/orderZ: chi(value) = zeta_order^chiValue
}

// DirichletCharacter is a character mod modulus, valued p-adically via
// Teichmüller lifts / the cyclotomic extension at the attached prime.
type DirichletCharacter struct {
	modulus   int64
	conductor int64
	prime     int64
	gens      []generator
}

// New constructs the principal (trivial) character mod modulus.
func New(modulus, prime int64) (DirichletCharacter, error) {
	gens, err := computeGenerators(modulus)
	if err != nil {
		return DirichletCharacter{}, err
	}
	chi := DirichletCharacter{modulus: modulus, prime: prime, gens: gens}
	chi.conductor = chi.computeConductor()
	return chi, nil
}

// NewWithValues constructs the character assigning genValues[i] (mod the
// generator's order) to the i-th generator produced by computeGenerators,
// in the same order.
func NewWithValues(modulus, prime int64, genValues []int64) (DirichletCharacter, error) {
	gens, err := computeGenerators(modulus)
	if err != nil {
		return DirichletCharacter{}, err
	}
	if len(genValues) != len(gens) {
		return DirichletCharacter{}, adicerr.InvalidArgumentf("expected %d generator values, got %d", len(gens), len(genValues))
	}
	for i := range gens {
		gens[i].chiValue = ((genValues[i] % gens[i].order) + gens[i].order) % gens[i].order
	}
	chi := DirichletCharacter{modulus: modulus, prime: prime, gens: gens}
	chi.conductor = chi.computeConductor()
	return chi, nil
}

func computeGenerators(modulus int64) ([]generator, error) {
	if modulus < 1 {
		return nil, adicerr.InvalidArgumentf("modulus must be >= 1, got %d", modulus)
	}
	if modulus == 1 {
		return nil, nil
	}
	primes, exps := modular.Factorize(modulus)
	var gens []generator
	for i, q := range primes {
		k := exps[i]
		pk := ipow(q, k)
		switch {
		case q == 2 && k == 1:
			// (Z/2Z)* is trivial.
		case q == 2 && k == 2:
			gens = append(gens, generator{localModulus: pk, value: -1, order: 2})
		case q == 2 && k >= 3:
			gens = append(gens, generator{localModulus: pk, value: -1, order: 2})
			gens = append(gens, generator{localModulus: pk, value: 3, order: pk / 4})
		default:
			g, err := primitiveRootModPrimePower(q, k)
			if err != nil {
				return nil, err
			}
			order := pk - pk/q
			gens = append(gens, generator{localModulus: pk, value: g, order: order})
		}
	}
	return gens, nil
}

// primitiveRootModPrimePower returns a generator of the cyclic group
// (Z/q^kZ)* for an odd prime q, via the clean prime-divisor primitive-root
// test mod q, lifted to q^k (k > 1) by the standard fact that a primitive
// root g mod q also generates mod q^k unless g^(q-1) == 1 mod q^2, in which
// case g+q does.
func primitiveRootModPrimePower(q, k int64) (int64, error) {
	g, err := modular.PrimitiveRoot(q)
	if err != nil {
		return 0, err
	}
	if k == 1 {
		return g, nil
	}
	if modular.PowModInt64(g, q-1, q*q) == 1 {
		g += q
	}
	return g, nil
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func gcd(a, b int64) int64 { return modular.GCD(a, b) }

func mod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// blockExponents groups gens by localModulus and, for a residue reduced mod
// that block, finds the exponent tuple (one exponent per generator in the
// block) via brute-force discrete log. Blocks have at most two generators
// (the 2^k, k>=3 case), so this is a search over at most order1*order2
// candidates, modest for the character moduli this module targets.
func blockExponents(gens []generator, a int64) []int64 {
	exponents := make([]int64, len(gens))
	i := 0
	for i < len(gens) {
		j := i
		for j < len(gens) && gens[j].localModulus == gens[i].localModulus {
			j++
		}
		block := gens[i:j]
		target := mod(a, block[0].localModulus)
		es := searchBlock(block, target)
		copy(exponents[i:j], es)
		i = j
	}
	return exponents
}

func searchBlock(block []generator, target int64) []int64 {
	lm := block[0].localModulus
	if len(block) == 1 {
		g := block[0]
		val := int64(1)
		for e := int64(0); e < g.order; e++ {
			if mod(val, lm) == target {
				return []int64{e}
			}
			val = mod(val*g.value, lm)
		}
		return []int64{0}
	}
	// Exactly two generators: the 2^k, k>=3 case.
	g0, g1 := block[0], block[1]
	for e0 := int64(0); e0 < g0.order; e0++ {
		v0 := int64(1)
		for t := int64(0); t < e0; t++ {
			v0 = mod(v0*g0.value, lm)
		}
		v1 := int64(1)
		for e1 := int64(0); e1 < g1.order; e1++ {
			if mod(v0*v1, lm) == target {
				return []int64{e0, e1}
			}
			v1 = mod(v1*g1.value, lm)
		}
	}
	return []int64{0, 0}
}

// orderOfExponent returns the multiplicative order of zeta_n^value, i.e.
// n / gcd(n, value).
func orderOfExponent(value, n int64) int64 {
	if value == 0 {
		return 1
	}
	return n / gcd(n, value)
}

// GetOrder returns the order of chi as a character: the lcm of the orders
// of chi(g_i) across active generators.
func (chi DirichletCharacter) GetOrder() int64 {
	order := int64(1)
	for _, g := range chi.gens {
		if g.chiValue == 0 {
			continue
		}
		order = modular.LCM(order, orderOfExponent(g.chiValue, g.order))
	}
	return order
}

// EvaluateAt returns the exponent e, 0 <= e < GetOrder(), such that
// chi(n) = zeta_{GetOrder()}^e, together with whether n is coprime to the
// modulus at all (chi(n) = 0 when it is not).
func (chi DirichletCharacter) EvaluateAt(n int64) (exponent int64, inSupport bool) {
	a := mod(n, chi.modulus)
	if gcd(a, chi.modulus) != 1 {
		return 0, false
	}
	if len(chi.gens) == 0 {
		return 0, true
	}
	l := chi.GetOrder()
	exps := blockExponents(chi.gens, a)
	total := int64(0)
	for i, g := range chi.gens {
		if g.chiValue == 0 {
			continue
		}
		d := orderOfExponent(g.chiValue, g.order)
		reducedValue := mod(g.chiValue/gcd(g.order, g.chiValue), d)
		total += reducedValue * (l / d) * exps[i]
	}
	return mod(total, l), true
}

// Evaluate lifts chi(n) into Z_p via the Teichmüller-valued cyclotomic
// extension. Requires chi's order to divide p-1 (see cyclotomic.Power);
// chi(n) = 0 (n not coprime to the modulus) returns the zero element.
func (chi DirichletCharacter) Evaluate(n, precision int64) (zp.Zp, error) {
	c, err := chi.EvaluateCyclotomic(n, precision)
	if err != nil {
		return zp.Zp{}, err
	}
	q := c.ToQp()
	return q.ToZp()
}

// EvaluateCyclotomic lifts chi(n) into the cyclotomic extension as a power
// of zeta_{p-1}. Requires chi's order to divide p-1.
func (chi DirichletCharacter) EvaluateCyclotomic(n, precision int64) (cyclotomic.Cyclotomic, error) {
	exponent, inSupport := chi.EvaluateAt(n)
	if !inSupport {
		return cyclotomic.New(chi.prime, precision)
	}
	order := chi.GetOrder()
	return cyclotomic.Power(chi.prime, precision, order, exponent)
}

// IsEven reports whether chi(-1) = 1.
func (chi DirichletCharacter) IsEven() bool {
	e, inSupport := chi.EvaluateAt(-1)
	return inSupport && e == 0
}

// IsOdd reports whether chi(-1) = -1.
func (chi DirichletCharacter) IsOdd() bool {
	e, inSupport := chi.EvaluateAt(-1)
	if !inSupport {
		return false
	}
	l := chi.GetOrder()
	return l%2 == 0 && e == l/2
}

// IsPrincipal reports whether chi is the trivial character.
func (chi DirichletCharacter) IsPrincipal() bool {
	for _, g := range chi.gens {
		if g.chiValue != 0 {
			return false
		}
	}
	return true
}

// IsPrimitive reports whether chi's conductor equals its modulus.
func (chi DirichletCharacter) IsPrimitive() bool { return chi.conductor == chi.modulus }

// GetConductor returns the conductor.
func (chi DirichletCharacter) GetConductor() int64 { return chi.conductor }

// GetModulus returns the defining modulus.
func (chi DirichletCharacter) GetModulus() int64 { return chi.modulus }

// ExponentTuple returns the character's assigned exponent on each
// generator, in the fixed order computeGenerators produces them. Together
// with the modulus and prime, this tuple uniquely identifies chi — unlike a
// single evaluation such as chi(2), which collides across distinct
// characters and is therefore unsafe as a cache key.
func (chi DirichletCharacter) ExponentTuple() []int64 {
	tuple := make([]int64, len(chi.gens))
	for i, g := range chi.gens {
		tuple[i] = g.chiValue
	}
	return tuple
}

// GetPrime returns the attached prime used for p-adic evaluation.
func (chi DirichletCharacter) GetPrime() int64 { return chi.prime }

// computeConductor uses the standard criterion: chi factors through a
// divisor d of the modulus iff chi(a) = 1 for every a coprime to the
// modulus with a == 1 (mod d). The conductor is the smallest such d.
func (chi DirichletCharacter) computeConductor() int64 {
	for d := int64(1); d < chi.modulus; d++ {
		if chi.modulus%d != 0 {
			continue
		}
		if chi.factorsThrough(d) {
			return d
		}
	}
	return chi.modulus
}

func (chi DirichletCharacter) factorsThrough(d int64) bool {
	for a := int64(1); a <= chi.modulus; a++ {
		if gcd(a, chi.modulus) != 1 {
			continue
		}
		if mod(a-1, d) != 0 {
			continue
		}
		if e, _ := chi.EvaluateAt(a); e != 0 {
			return false
		}
	}
	return true
}

// EnumerateCharacters returns every Dirichlet character mod modulus,
// valued at the given prime.
func EnumerateCharacters(modulus, prime int64) ([]DirichletCharacter, error) {
	gens, err := computeGenerators(modulus)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		chi, err := New(modulus, prime)
		if err != nil {
			return nil, err
		}
		return []DirichletCharacter{chi}, nil
	}
	var result []DirichletCharacter
	values := make([]int64, len(gens))
	var generate func(index int) error
	generate = func(index int) error {
		if index == len(gens) {
			chi, err := NewWithValues(modulus, prime, append([]int64(nil), values...))
			if err != nil {
				return err
			}
			result = append(result, chi)
			return nil
		}
		for v := int64(0); v < gens[index].order; v++ {
			values[index] = v
			if err := generate(index + 1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := generate(0); err != nil {
		return nil, err
	}
	return result, nil
}

// EnumeratePrimitiveCharacters returns only the primitive characters mod
// modulus.
func EnumeratePrimitiveCharacters(modulus, prime int64) ([]DirichletCharacter, error) {
	all, err := EnumerateCharacters(modulus, prime)
	if err != nil {
		return nil, err
	}
	var primitive []DirichletCharacter
	for _, chi := range all {
		if chi.IsPrimitive() {
			primitive = append(primitive, chi)
		}
	}
	return primitive, nil
}

// GaussSum computes g(chi) = Sum_{a mod modulus} chi(a) * zeta_modulus^a,
// requiring modulus to divide p-1 so the root of unity zeta_modulus embeds
// exactly into the cyclotomic extension (the clean replacement for the
// original's truncating integer division).
func (chi DirichletCharacter) GaussSum(precision int64) (cyclotomic.Cyclotomic, error) {
	sum, err := cyclotomic.New(chi.prime, precision)
	if err != nil {
		return cyclotomic.Cyclotomic{}, err
	}
	for a := int64(1); a <= chi.modulus; a++ {
		if gcd(a, chi.modulus) != 1 {
			continue
		}
		chiA, err := chi.EvaluateCyclotomic(a, precision)
		if err != nil {
			return cyclotomic.Cyclotomic{}, err
		}
		zetaPower, err := cyclotomic.Power(chi.prime, precision, chi.modulus, a)
		if err != nil {
			return cyclotomic.Cyclotomic{}, err
		}
		term, err := chiA.Mul(zetaPower)
		if err != nil {
			return cyclotomic.Cyclotomic{}, err
		}
		sum, err = sum.Add(term)
		if err != nil {
			return cyclotomic.Cyclotomic{}, err
		}
	}
	return sum, nil
}
