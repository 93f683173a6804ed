package orbital

import (
	"fmt"
	"math"
)

// factorials holds 0! through 20!, the largest that fits in an int64.
var factorials = func() [21]int64 {
	var t [21]int64
	t[0] = 1
	for i := 1; i < len(t); i++ {
		t[i] = t[i-1] * int64(i)
	}
	return t
}()

// Factorial returns k! exactly. k must be in [0, 20].
func Factorial(k int) (int64, error) {
	if k < 0 {
		return 0, fmt.Errorf("%w: factorial of negative integer %d", ErrDomain, k)
	}
	if k >= len(factorials) {
		return 0, fmt.Errorf("%w: %d! overflows int64", ErrDomain, k)
	}
	return factorials[k], nil
}

// FactorialRatio returns a!/b! as a float64 without forming either factorial.
func FactorialRatio(a, b int) (float64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: factorial ratio %d!/%d!", ErrDomain, a, b)
	}
	lo, hi, invert := b, a, false
	if a < b {
		lo, hi, invert = a, b, true
	}
	p := 1.0
	for i := lo + 1; i <= hi; i++ {
		p *= float64(i)
	}
	if invert {
		return 1 / p, nil
	}
	return p, nil
}

// Binomial returns the generalized binomial coefficient C(n, k) for real n.
func Binomial(n float64, k int) float64 {
	if k < 0 {
		return 0
	}
	c := 1.0
	for i := 0; i < k; i++ {
		c *= (n - float64(i)) / float64(i+1)
	}
	return c
}

// Polynomial is Σ Coeffs[i]·x^i multiplied by (1-x²)^(Order/2).
// Order is zero for ordinary polynomials and m for associated Legendre functions.
type Polynomial struct {
	Coeffs []float64
	Order  int
}

// Degree returns the degree of the polynomial part.
func (p Polynomial) Degree() int {
	return len(p.Coeffs) - 1
}

// Evaluate computes p(x). For Order > 0 the (1-x²) factor is clamped at zero,
// which only matters for cos(θ) values rounded just past ±1.
func (p Polynomial) Evaluate(x float64) float64 {
	v := 0.0
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		v = v*x + p.Coeffs[i]
	}
	if p.Order == 0 {
		return v
	}
	w := math.Max(0, 1-x*x)
	if p.Order%2 == 0 {
		return v * ipow(w, p.Order/2)
	}
	return v * ipow(w, p.Order/2) * math.Sqrt(w)
}

// EvaluateStrict is Evaluate with the associated-function domain |x| <= 1 enforced.
func (p Polynomial) EvaluateStrict(x float64) (float64, error) {
	if math.IsNaN(x) {
		return 0, fmt.Errorf("%w: NaN argument", ErrDomain)
	}
	if p.Order > 0 && math.Abs(x) > 1 {
		return 0, fmt.Errorf("%w: x=%g outside [-1, 1]", ErrDomain, x)
	}
	return p.Evaluate(x), nil
}

// GeneralizedLaguerre builds L_n^α(x) = Σ (-1)^i C(n+α, n-i) x^i / i!.
func GeneralizedLaguerre(degree int, alpha float64) (Polynomial, error) {
	if degree < 0 {
		return Polynomial{}, fmt.Errorf("%w: laguerre degree %d", ErrDomain, degree)
	}
	coeffs := make([]float64, degree+1)
	invFact := 1.0
	for i := 0; i <= degree; i++ {
		if i > 0 {
			invFact /= float64(i)
		}
		c := Binomial(float64(degree)+alpha, degree-i) * invFact
		if i%2 == 1 {
			c = -c
		}
		coeffs[i] = c
	}
	return Polynomial{Coeffs: coeffs}, nil
}

// legendre returns the coefficients of the Legendre polynomial P_l.
func legendre(l int) []float64 {
	coeffs := make([]float64, l+1)
	scale := math.Ldexp(1, -l)
	for k := 0; k <= l/2; k++ {
		c := Binomial(float64(l), k) * Binomial(float64(2*l-2*k), l) * scale
		if k%2 == 1 {
			c = -c
		}
		coeffs[l-2*k] = c
	}
	return coeffs
}

// AssociatedLegendre builds P_l^m(x) including the Condon-Shortley phase:
// (-1)^m (1-x²)^(m/2) d^m/dx^m P_l(x). Negative orders use
// P_l^-m = (-1)^m (l-m)!/(l+m)! P_l^m.
func AssociatedLegendre(degree, order int) (Polynomial, error) {
	if degree < 0 {
		return Polynomial{}, fmt.Errorf("%w: legendre degree %d", ErrDomain, degree)
	}
	m := order
	if m < 0 {
		m = -m
	}
	if m > degree {
		return Polynomial{}, fmt.Errorf("%w: legendre order %d exceeds degree %d", ErrDomain, order, degree)
	}

	base := legendre(degree)
	coeffs := make([]float64, degree-m+1)
	for p := m; p <= degree; p++ {
		falling, _ := FactorialRatio(p, p-m)
		coeffs[p-m] = base[p] * falling
	}

	scale := 1.0
	if m%2 == 1 {
		scale = -1
	}
	if order < 0 {
		ratio, err := FactorialRatio(degree-m, degree+m)
		if err != nil {
			return Polynomial{}, err
		}
		if m%2 == 1 {
			ratio = -ratio
		}
		scale *= ratio
	}
	for i := range coeffs {
		coeffs[i] *= scale
	}
	return Polynomial{Coeffs: coeffs, Order: m}, nil
}

func ipow(x float64, k int) float64 {
	r := 1.0
	for ; k > 0; k-- {
		r *= x
	}
	return r
}
