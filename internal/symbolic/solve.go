package symbolic

import (
	"math"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

// SolveFor solves one equation for the target symbol. Polynomial equations
// up to degree three solve in closed form; other shapes solve by inverting
// the operation chain when the target occurs exactly once.
func SolveFor(eq Equation, target string) ([]Expr, error) {
	residual := eq.Residual()

	if !ContainsSymbol(residual, target) {
		return nil, domain.NewNoSolutionError(target, "equation does not contain the target")
	}

	if coeffs, ok := PolyCoeffs(residual, target); ok {
		return solvePoly(coeffs, target)
	}

	if sol, ok := isolate(residual, target); ok {
		return []Expr{sol}, nil
	}

	return nil, domain.NewNoSolutionError(target, "no closed form found")
}

func solvePoly(coeffs []Expr, target string) ([]Expr, error) {
	deg := len(coeffs) - 1
	for deg > 0 {
		if n, ok := coeffs[deg].(Num); ok && n.IsZero() {
			deg--
			continue
		}

		break
	}

	switch deg {
	case 0:
		return nil, domain.NewNoSolutionError(target, "target cancels out")
	case 1:
		// c1*x + c0 = 0.
		return []Expr{MulOf(N(-1), coeffs[0], PowOf(coeffs[1], N(-1)))}, nil
	case 2:
		return solveQuadratic(coeffs[0], coeffs[1], coeffs[2]), nil
	case 3:
		if roots, ok := solveCubicNumeric(coeffs); ok {
			return roots, nil
		}
	}

	return nil, domain.NewNoSolutionError(target, "polynomial degree too high")
}

// solveQuadratic returns both roots of a*x^2 + b*x + c = 0 symbolically.
func solveQuadratic(c, b, a Expr) []Expr {
	disc := AddOf(PowOf(b, N(2)), MulOf(N(-4), a, c))
	root := PowOf(disc, F(1, 2))
	inv := PowOf(MulOf(N(2), a), N(-1))

	plus := MulOf(AddOf(MulOf(N(-1), b), root), inv)
	minus := MulOf(AddOf(MulOf(N(-1), b), MulOf(N(-1), root)), inv)

	if plus.Equal(minus) {
		return []Expr{plus}
	}

	return []Expr{plus, minus}
}

// solveCubicNumeric finds the real roots of a numeric cubic by Cardano's
// method. Symbolic coefficients are out of scope.
func solveCubicNumeric(coeffs []Expr) ([]Expr, bool) {
	vals := make([]float64, 4)
	for i, c := range coeffs {
		n, ok := c.(Num)
		if !ok {
			return nil, false
		}
		vals[i] = n.Float()
	}

	a, b, c, d := vals[3], vals[2], vals[1], vals[0]
	if a == 0 {
		return nil, false
	}

	// Depressed form t^3 + pt + q with x = t - b/(3a).
	p := (3*a*c - b*b) / (3 * a * a)
	q := (2*b*b*b - 9*a*b*c + 27*a*a*d) / (27 * a * a * a)
	shift := -b / (3 * a)

	var roots []float64
	disc := q*q/4 + p*p*p/27

	switch {
	case disc > 0:
		u := math.Cbrt(-q/2 + math.Sqrt(disc))
		v := math.Cbrt(-q/2 - math.Sqrt(disc))
		roots = []float64{u + v + shift}
	case disc == 0 && p == 0:
		roots = []float64{shift}
	case disc == 0:
		roots = []float64{3*q/p + shift, -3*q/(2*p) + shift}
	default:
		// Three real roots via the trigonometric form.
		m := 2 * math.Sqrt(-p/3)
		theta := math.Acos(3*q/(p*m)) / 3
		for k := 0; k < 3; k++ {
			roots = append(roots, m*math.Cos(theta-2*math.Pi*float64(k)/3)+shift)
		}
	}

	out := make([]Expr, len(roots))
	for i, r := range roots {
		out[i] = NFloat(r)
	}

	return out, true
}

// isolate inverts the operation chain of residual = 0 for a target that
// occurs exactly once.
func isolate(residual Expr, target string) (Expr, bool) {
	return isolateStep(residual, N(0), target)
}

func isolateStep(side, acc Expr, target string) (Expr, bool) {
	switch n := side.(type) {
	case Sym:
		if n.Name == target {
			return Simplify(acc), true
		}

	case Add:
		with, without, ok := partitionOnce(n.Terms, target)
		if !ok {
			return nil, false
		}

		return isolateStep(with, AddOf(acc, MulOf(N(-1), AddOf(without...))), target)

	case Mul:
		with, without, ok := partitionOnce(n.Factors, target)
		if !ok {
			return nil, false
		}

		return isolateStep(with, MulOf(acc, PowOf(MulOf(without...), N(-1))), target)

	case Pow:
		inBase := ContainsSymbol(n.Base, target)
		inExp := ContainsSymbol(n.Exp, target)
		switch {
		case inBase && !inExp:
			return isolateStep(n.Base, PowOf(acc, PowOf(n.Exp, N(-1))), target)
		case inExp && !inBase:
			// base^u = acc  =>  u = log(acc)/log(base)
			return isolateStep(n.Exp, MulOf(CallOf("log", acc), PowOf(CallOf("log", n.Base), N(-1))), target)
		}

	case Call:
		if inv, ok := inverseCall(n.Fn, acc); ok {
			return isolateStep(n.Arg, inv, target)
		}
	}

	return nil, false
}

// partitionOnce splits operands into the single one containing target and
// the rest. Fails when the target occurs in more than one operand.
func partitionOnce(operands []Expr, target string) (Expr, []Expr, bool) {
	var with Expr
	without := make([]Expr, 0, len(operands))

	for _, op := range operands {
		if ContainsSymbol(op, target) {
			if with != nil {
				return nil, nil, false
			}
			with = op
		} else {
			without = append(without, op)
		}
	}

	if with == nil {
		return nil, nil, false
	}

	return with, without, true
}

func inverseCall(fn string, acc Expr) (Expr, bool) {
	switch fn {
	case "sin":
		return CallOf("asin", acc), true
	case "cos":
		return CallOf("acos", acc), true
	case "tan":
		return CallOf("atan", acc), true
	case "asin":
		return CallOf("sin", acc), true
	case "acos":
		return CallOf("cos", acc), true
	case "atan":
		return CallOf("tan", acc), true
	case "exp":
		return CallOf("log", acc), true
	case "log":
		return CallOf("exp", acc), true
	case "sinh", "cosh", "tanh":
		return nil, false
	}

	return nil, false
}

// maxSolutionSets caps branching when eliminated equations have multiple
// roots.
const maxSolutionSets = 8

// SolveSystem solves a set of equations for the given unknowns by
// successive elimination, branching on multi-root eliminations. Each
// returned set maps every unknown to an expression over the remaining
// known symbols.
func SolveSystem(eqs []Equation, unknowns []string) ([]map[string]Expr, error) {
	residuals := make([]Expr, len(eqs))
	raws := make([]string, len(eqs))
	for i, eq := range eqs {
		residuals[i] = eq.Residual()
		raws[i] = eq.Raw
	}

	sets, err := eliminate(residuals, raws, unknowns, map[string]Expr{})
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, domain.NewNoSolutionError("", "system has no closed-form solution")
	}

	return sets, nil
}

func eliminate(residuals []Expr, raws []string, unknowns []string, solved map[string]Expr) ([]map[string]Expr, error) {
	// Check residuals that no longer contain unknowns for consistency.
	remaining := []Expr{}
	remainingRaws := []string{}
	for i, r := range residuals {
		hasUnknown := false
		for _, u := range unknowns {
			if ContainsSymbol(r, u) {
				hasUnknown = true
				break
			}
		}
		if !hasUnknown {
			if n, ok := Simplify(r).(Num); ok && !n.IsZero() {
				return nil, domain.NewContradictionError("", raws[i])
			}
			continue
		}
		remaining = append(remaining, r)
		remainingRaws = append(remainingRaws, raws[i])
	}

	if len(unknowns) == 0 {
		return []map[string]Expr{cloneSolution(solved)}, nil
	}

	// Pick the first (equation, unknown) pair that solves; prefer linear
	// occurrences so substitution stays simple.
	type pick struct {
		eqIdx int
		u     string
		roots []Expr
	}

	var chosen *pick
	for pass := 0; pass < 2 && chosen == nil; pass++ {
		for i, r := range remaining {
			for _, u := range unknowns {
				if !ContainsSymbol(r, u) {
					continue
				}
				if pass == 0 && Degree(r, u) != 1 {
					continue
				}
				roots, err := SolveFor(Equation{LHS: r, RHS: N(0), Raw: remainingRaws[i]}, u)
				if err != nil || len(roots) == 0 {
					continue
				}
				chosen = &pick{eqIdx: i, u: u, roots: roots}
				break
			}
			if chosen != nil {
				break
			}
		}
	}

	if chosen == nil {
		if len(remaining) == 0 {
			// Underdetermined: leftover unknowns stay symbolic.
			return []map[string]Expr{cloneSolution(solved)}, nil
		}

		return nil, domain.NewNoSolutionError(unknowns[0], "cannot eliminate unknown")
	}

	restUnknowns := make([]string, 0, len(unknowns)-1)
	for _, u := range unknowns {
		if u != chosen.u {
			restUnknowns = append(restUnknowns, u)
		}
	}

	out := []map[string]Expr{}
	for _, root := range chosen.roots {
		sub := map[string]Expr{chosen.u: root}

		nextResiduals := make([]Expr, 0, len(remaining)-1)
		nextRaws := make([]string, 0, len(remaining)-1)
		for i, r := range remaining {
			if i == chosen.eqIdx {
				continue
			}
			nextResiduals = append(nextResiduals, r.Sub(sub))
			nextRaws = append(nextRaws, remainingRaws[i])
		}

		nextSolved := cloneSolution(solved)
		// Earlier eliminations may reference the unknown just solved.
		for name, expr := range nextSolved {
			nextSolved[name] = expr.Sub(sub)
		}
		nextSolved[chosen.u] = root

		sets, err := eliminate(nextResiduals, nextRaws, restUnknowns, nextSolved)
		if err != nil {
			// A contradicting branch just dies; other roots may survive.
			if domain.IsContradiction(err) && len(chosen.roots) > 1 {
				continue
			}
			if len(out) > 0 {
				continue
			}

			return nil, err
		}

		out = append(out, sets...)
		if len(out) >= maxSolutionSets {
			out = out[:maxSolutionSets]
			break
		}
	}

	// Back-substitute so every solution is fully resolved.
	for _, set := range out {
		resolveSet(set)
	}

	return out, nil
}

func cloneSolution(m map[string]Expr) map[string]Expr {
	out := make(map[string]Expr, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// resolveSet substitutes solved expressions into each other until no entry
// references another solved unknown.
func resolveSet(set map[string]Expr) {
	for range set {
		changed := false
		for name, expr := range set {
			next := expr.Sub(set)
			if !next.Equal(expr) {
				set[name] = Simplify(next)
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}
