package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

func mustParseEquation(t *testing.T, raw string) Equation {
	t.Helper()
	eq, err := ParseEquation(NewContext(), raw)
	require.NoError(t, err)

	return eq
}

func TestSolveForLinear(t *testing.T) {
	eq := mustParseEquation(t, "2*x + 6 = 0")
	roots, err := SolveFor(eq, "x")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.True(t, roots[0].Equal(N(-3)), "got %s", roots[0])
}

func TestSolveForSymbolicLinear(t *testing.T) {
	// F = m*a solved for a gives F/m.
	eq := mustParseEquation(t, "F = m*a")
	roots, err := SolveFor(eq, "a")
	require.NoError(t, err)
	require.Len(t, roots, 1)

	got, evalErr := roots[0].Eval(map[string]float64{"F": 10, "m": 2})
	require.NoError(t, evalErr)
	assert.Equal(t, 5.0, got)
}

func TestSolveForQuadratic(t *testing.T) {
	eq := mustParseEquation(t, "x**2 - 5*x + 6 = 0")
	roots, err := SolveFor(eq, "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)

	vals := make([]float64, 2)
	for i, r := range roots {
		v, evalErr := r.Eval(nil)
		require.NoError(t, evalErr)
		vals[i] = v
	}
	assert.ElementsMatch(t, []float64{3, 2}, vals)
}

func TestSolveForQuadraticDoubleRoot(t *testing.T) {
	eq := mustParseEquation(t, "x**2 - 2*x + 1 = 0")
	roots, err := SolveFor(eq, "x")
	require.NoError(t, err)
	require.Len(t, roots, 1)

	got, evalErr := roots[0].Eval(nil)
	require.NoError(t, evalErr)
	assert.Equal(t, 1.0, got)
}

func TestSolveForCubic(t *testing.T) {
	// (x-1)(x-2)(x-3) = x^3 - 6x^2 + 11x - 6.
	eq := mustParseEquation(t, "x**3 - 6*x**2 + 11*x - 6 = 0")
	roots, err := SolveFor(eq, "x")
	require.NoError(t, err)
	require.Len(t, roots, 3)

	vals := make([]float64, 3)
	for i, r := range roots {
		v, evalErr := r.Eval(nil)
		require.NoError(t, evalErr)
		vals[i] = v
	}
	for _, want := range []float64{1, 2, 3} {
		found := false
		for _, v := range vals {
			if math.Abs(v-want) < 1e-9 {
				found = true
			}
		}
		assert.True(t, found, "missing root %g in %v", want, vals)
	}
}

func TestSolveForIsolation(t *testing.T) {
	// Exponential decay: N = N_0 * exp(-k*t) solved for t.
	eq := mustParseEquation(t, "N = N_0 * exp(-k*t)")
	roots, err := SolveFor(eq, "t")
	require.NoError(t, err)
	require.Len(t, roots, 1)

	env := map[string]float64{"N": 50, "N_0": 100, "k": 2}
	got, evalErr := roots[0].Eval(env)
	require.NoError(t, evalErr)
	assert.InDelta(t, math.Log(2)/2, got, 1e-12)
}

func TestSolveForSquareRoot(t *testing.T) {
	// T = 2*pi*sqrt(L/g) solved for L.
	eq := mustParseEquation(t, "T = 2*pi*sqrt(L/g)")
	roots, err := SolveFor(eq, "L")
	require.NoError(t, err)
	require.Len(t, roots, 1)

	env := map[string]float64{"T": 2, "g": 9.81}
	got, evalErr := roots[0].Eval(env)
	require.NoError(t, evalErr)
	assert.InDelta(t, 9.81/(math.Pi*math.Pi), got, 1e-9)
}

func TestSolveForErrors(t *testing.T) {
	eq := mustParseEquation(t, "y = z + 1")
	_, err := SolveFor(eq, "x")
	require.Error(t, err)
	assert.True(t, domain.IsNoSolution(err))

	// The target cancels out.
	eq = mustParseEquation(t, "x + 1 = x + 2")
	_, err = SolveFor(eq, "x")
	require.Error(t, err)
	assert.True(t, domain.IsNoSolution(err))
}

func TestSolveSystemSubstitution(t *testing.T) {
	eqs := []Equation{
		mustParseEquation(t, "y = x**2"),
		mustParseEquation(t, "x = 2"),
	}

	sets, err := SolveSystem(eqs, []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	assert.True(t, sets[0]["x"].Equal(N(2)), "x = %s", sets[0]["x"])
	assert.True(t, sets[0]["y"].Equal(N(4)), "y = %s", sets[0]["y"])
}

func TestSolveSystemLinearPair(t *testing.T) {
	eqs := []Equation{
		mustParseEquation(t, "x + y = 3"),
		mustParseEquation(t, "x - y = 1"),
	}

	sets, err := SolveSystem(eqs, []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	assert.True(t, sets[0]["x"].Equal(N(2)), "x = %s", sets[0]["x"])
	assert.True(t, sets[0]["y"].Equal(N(1)), "y = %s", sets[0]["y"])
}

func TestSolveSystemContradiction(t *testing.T) {
	eqs := []Equation{
		mustParseEquation(t, "x = 1"),
		mustParseEquation(t, "x = 2"),
	}

	_, err := SolveSystem(eqs, []string{"x"})
	require.Error(t, err)
	assert.True(t, domain.IsContradiction(err))
}

func TestSolveSystemUnderdetermined(t *testing.T) {
	eqs := []Equation{
		mustParseEquation(t, "x + y = 3"),
	}

	sets, err := SolveSystem(eqs, []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	// One unknown resolves in terms of the other.
	set := sets[0]
	require.Len(t, set, 1)
	for name, expr := range set {
		other := "y"
		if name == "y" {
			other = "x"
		}
		assert.True(t, ContainsSymbol(expr, other), "%s = %s should reference %s", name, expr, other)
	}
}

func TestSolveSystemBranching(t *testing.T) {
	// x^2 = 4 with x + y = 0 yields two sets.
	eqs := []Equation{
		mustParseEquation(t, "x**2 = 4"),
		mustParseEquation(t, "x + y = 0"),
	}

	sets, err := SolveSystem(eqs, []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, sets, 2)

	xs := make([]float64, 0, 2)
	for _, set := range sets {
		xv, evalErr := set["x"].Eval(nil)
		require.NoError(t, evalErr)
		yv, evalErr := set["y"].Eval(nil)
		require.NoError(t, evalErr)
		assert.InDelta(t, 0, xv+yv, 1e-12)
		xs = append(xs, xv)
	}
	assert.ElementsMatch(t, []float64{2, -2}, xs)
}

func TestSolveSystemParametric(t *testing.T) {
	// Knowns stay symbolic: v = u + a*t solved for v and t with t known.
	eqs := []Equation{
		mustParseEquation(t, "v = u + a*t"),
		mustParseEquation(t, "t = 5"),
	}

	sets, err := SolveSystem(eqs, []string{"v", "t"})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	got, evalErr := sets[0]["v"].Eval(map[string]float64{"u": 3, "a": 2})
	require.NoError(t, evalErr)
	assert.Equal(t, 13.0, got)
}
