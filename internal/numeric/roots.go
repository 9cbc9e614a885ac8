// Package numeric implements the float64 root finders behind the numeric
// solve operations: Brent's method for bracketed roots, Newton's method
// with an analytic derivative, and a damped Newton iteration for square
// systems.
package numeric

import (
	"math"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

// Func is a scalar function of one variable.
type Func func(x float64) (float64, error)

// Options tunes the iteration budgets and tolerances.
type Options struct {
	Tolerance     float64
	MaxIterations int
}

// DefaultOptions matches the tolerances the service exposes by default.
func DefaultOptions() Options {
	return Options{Tolerance: 1e-10, MaxIterations: 100}
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-10
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 100
	}

	return o
}

// Brent finds a root of f in [a, b] by Brent's method. The interval must
// bracket a root: f(a) and f(b) need opposite signs.
func Brent(f Func, a, b float64, opts Options) (float64, error) {
	opts = opts.withDefaults()

	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}

	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if fa*fb > 0 {
		return 0, &domain.BracketError{Lower: a, Upper: b}
	}

	// |f(b)| stays the smaller of the two.
	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < opts.MaxIterations; i++ {
		if fb == 0 || math.Abs(b-a) < opts.Tolerance {
			return b, nil
		}

		var s float64
		if fa != fc && fb != fc {
			// Inverse quadratic interpolation.
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// Secant step.
			s = b - fb*(b-a)/(fb-fa)
		}

		// Accept the interpolated step only when it is well behaved,
		// otherwise bisect.
		lo := (3*a + b) / 4
		hi := b
		if lo > hi {
			lo, hi = hi, lo
		}
		bisect := s < lo || s > hi ||
			math.Abs(s-b) >= math.Abs(e)/2 ||
			math.Abs(e) < opts.Tolerance
		if bisect {
			s = (a + b) / 2
		}

		fs, err := f(s)
		if err != nil {
			return 0, err
		}

		e = d
		d = s - b

		c, fc = b, fb
		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}

		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}

	if math.Abs(fb) < math.Sqrt(opts.Tolerance) {
		return b, nil
	}

	return 0, &domain.ConvergenceError{Method: "brentq", Iterations: opts.MaxIterations, Residual: math.Abs(fb)}
}

// Newton finds a root of f starting from x0 using the derivative df.
func Newton(f, df Func, x0 float64, opts Options) (float64, error) {
	opts = opts.withDefaults()
	x := x0

	for i := 0; i < opts.MaxIterations; i++ {
		fx, err := f(x)
		if err != nil {
			return 0, err
		}
		if math.Abs(fx) < opts.Tolerance {
			return x, nil
		}

		dfx, err := df(x)
		if err != nil {
			return 0, err
		}
		if dfx == 0 || math.IsNaN(dfx) || math.IsInf(dfx, 0) {
			return 0, &domain.ConvergenceError{Method: "newton", Iterations: i, Residual: math.Abs(fx)}
		}

		step := fx / dfx
		x -= step

		if math.Abs(step) < opts.Tolerance*(1+math.Abs(x)) {
			fx, err = f(x)
			if err != nil {
				return 0, err
			}
			if math.Abs(fx) < math.Sqrt(opts.Tolerance) {
				return x, nil
			}
		}
	}

	fx, err := f(x)
	if err != nil {
		return 0, err
	}
	if math.Abs(fx) < math.Sqrt(opts.Tolerance) {
		return x, nil
	}

	return 0, &domain.ConvergenceError{Method: "newton", Iterations: opts.MaxIterations, Residual: math.Abs(fx)}
}

// NewtonNumeric is Newton's method with a central-difference derivative,
// used when no analytic derivative is available.
func NewtonNumeric(f Func, x0 float64, opts Options) (float64, error) {
	const h = 1e-7

	df := func(x float64) (float64, error) {
		hi, err := f(x + h)
		if err != nil {
			return 0, err
		}
		lo, err := f(x - h)
		if err != nil {
			return 0, err
		}

		return (hi - lo) / (2 * h), nil
	}

	return Newton(f, df, x0, opts)
}

// Hybrid finds a root of f starting from x0: Newton with a numeric
// derivative, then a sign-change scan with Brent as a fallback. This is the
// path behind the "fsolve" method for single equations.
func Hybrid(f Func, x0 float64, opts Options) (float64, error) {
	root, err := NewtonNumeric(f, x0, opts)
	if err == nil {
		return root, nil
	}

	// Scan outward from the start point for a sign change.
	scales := []float64{1, 2, 5, 10, 50, 100}
	for _, scale := range scales {
		a := x0 - scale
		b := x0 + scale
		fa, errA := f(a)
		fb, errB := f(b)
		if errA != nil || errB != nil {
			continue
		}
		if fa*fb < 0 {
			return Brent(f, a, b, opts)
		}
	}

	return 0, err
}
