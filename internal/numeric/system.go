package numeric

import (
	"math"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

// VectorFunc evaluates a square system of residuals at x.
type VectorFunc func(x []float64) ([]float64, error)

// SolveSystem finds a root of a square system by damped Newton iteration
// with a forward-difference Jacobian. It returns the solution vector and
// the maximum absolute residual at the solution.
func SolveSystem(f VectorFunc, x0 []float64, opts Options) ([]float64, float64, error) {
	opts = opts.withDefaults()
	n := len(x0)

	x := make([]float64, n)
	copy(x, x0)

	fx, err := f(x)
	if err != nil {
		return nil, 0, err
	}
	if len(fx) != n {
		return nil, 0, domain.NewValidationError("system", "residual count must match unknown count")
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		norm := maxAbs(fx)
		if norm < opts.Tolerance {
			return x, norm, nil
		}

		jac, err := jacobian(f, x, fx)
		if err != nil {
			return nil, 0, err
		}

		step, ok := solveLinear(jac, fx)
		if !ok {
			return nil, 0, &domain.ConvergenceError{Method: "fsolve", Iterations: iter, Residual: norm}
		}

		// Damped line search: halve the step until the residual shrinks.
		lambda := 1.0
		improved := false
		for k := 0; k < 30; k++ {
			trial := make([]float64, n)
			for i := range trial {
				trial[i] = x[i] - lambda*step[i]
			}

			ft, err := f(trial)
			if err == nil && maxAbs(ft) < norm {
				x = trial
				fx = ft
				improved = true
				break
			}
			lambda /= 2
		}

		if !improved {
			return nil, 0, &domain.ConvergenceError{Method: "fsolve", Iterations: iter, Residual: norm}
		}
	}

	norm := maxAbs(fx)
	if norm < math.Sqrt(opts.Tolerance) {
		return x, norm, nil
	}

	return nil, 0, &domain.ConvergenceError{Method: "fsolve", Iterations: opts.MaxIterations, Residual: norm}
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}

	return m
}

// jacobian computes a forward-difference Jacobian at x given f(x).
func jacobian(f VectorFunc, x, fx []float64) ([][]float64, error) {
	n := len(x)
	jac := make([][]float64, n)
	for i := range jac {
		jac[i] = make([]float64, n)
	}

	for j := 0; j < n; j++ {
		h := 1e-7 * (1 + math.Abs(x[j]))
		pert := make([]float64, n)
		copy(pert, x)
		pert[j] += h

		fp, err := f(pert)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			jac[i][j] = (fp[i] - fx[i]) / h
		}
	}

	return jac, nil
}

// solveLinear solves J*step = b by Gaussian elimination with partial
// pivoting. Returns false on a singular system.
func solveLinear(j [][]float64, b []float64) ([]float64, bool) {
	n := len(b)

	// Augmented working copy.
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n+1)
		copy(a[i], j[i])
		a[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-14 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k <= n; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}

	step := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := a[row][n]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * step[k]
		}
		step[row] = sum / a[row][row]
	}

	return step, true
}
