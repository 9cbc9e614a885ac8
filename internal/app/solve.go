package app

import (
	"context"
	"math"
	"sort"

	"github.com/Mnehmos/provecalc-engine/internal/app/trace"
	"github.com/Mnehmos/provecalc-engine/internal/domain"
	"github.com/Mnehmos/provecalc-engine/internal/numeric"
	"github.com/Mnehmos/provecalc-engine/internal/ports"
	"github.com/Mnehmos/provecalc-engine/internal/symbolic"
)

// solveCandidates is the perform-stage output of the symbolic solve
// pipeline: the substituted equations plus the surviving candidates for
// the target.
type solveCandidates struct {
	// equations hold the parsed inputs with known values substituted.
	equations []symbolic.Equation

	// candidates are the simplified solutions for the target.
	candidates []symbolic.Expr

	// viaEquation is the index of the single equation that produced the
	// candidates, or -1 when the full system solver did.
	viaEquation int

	// substituted records whether known values were bound before solving.
	substituted bool
}

// Solve finds closed-form solutions for the target symbol. The symbolic
// work runs through the pipeline; the determinacy analysis runs
// concurrently and is attached to the result.
func (e *Engine) Solve(ctx context.Context, req ports.SolveRequest) (domain.SolveResult, error) {
	tr := trace.New()
	ctx = trace.WithContext(ctx, tr)

	op := Operation[ports.SolveRequest, solveCandidates, domain.SolveResult]{
		Name:     "solve",
		Validate: validateSolveRequest,
		Perform:  e.performSolve,
		Verify:   e.verifySolve,
		Respond:  e.respondSolve,
	}

	// The analysis never counts the target as known, even when a caller
	// passes a stale value for it.
	analysisKnowns := make(map[string]float64, len(req.Knowns))
	for name, value := range req.Knowns {
		if name != req.Target {
			analysisKnowns[name] = value
		}
	}

	result, analysis, err := Parallel2(ctx,
		func(ctx context.Context) (domain.SolveResult, error) {
			return Execute(ctx, e.logger, op, req)
		},
		func(ctx context.Context) (domain.SystemAnalysis, error) {
			return e.AnalyzeSystem(ctx, req.Equations, analysisKnowns)
		},
	)
	if err != nil {
		return domain.SolveResult{}, err
	}

	result.Analysis = &analysis
	result.Steps = tr.Steps()

	return result, nil
}

func validateSolveRequest(_ context.Context, req ports.SolveRequest) error {
	if len(req.Equations) == 0 {
		return domain.NewValidationError("equations", "at least one equation is required")
	}
	if req.Target == "" {
		return domain.NewValidationError("target", "target symbol is required")
	}

	return nil
}

func (e *Engine) performSolve(ctx context.Context, req ports.SolveRequest) (solveCandidates, error) {
	tr := trace.FromContext(ctx)
	sctx := symbolic.NewContext()

	bindings := make(map[string]symbolic.Expr, len(req.Knowns))
	for name, value := range req.Knowns {
		if name == req.Target {
			continue
		}
		bindings[name] = symbolic.NFloat(value)
	}

	tr.Step("Parsing %d equation(s)", len(req.Equations))

	targetPresent := false
	eqs := make([]symbolic.Equation, len(req.Equations))
	for i, raw := range req.Equations {
		eq, err := parseEquation(ctx, sctx, raw)
		if err != nil {
			return solveCandidates{}, err
		}

		for _, name := range eq.FreeSymbols() {
			if name == req.Target {
				targetPresent = true
			}
		}

		eqs[i] = symbolic.Equation{
			LHS: eq.LHS.Sub(bindings),
			RHS: eq.RHS.Sub(bindings),
			Raw: eq.Raw,
		}
	}

	if !targetPresent {
		return solveCandidates{}, domain.NewNoSolutionError(req.Target, "target does not appear in the equations")
	}
	if len(bindings) > 0 {
		tr.Step("Substituted %d known value(s)", len(bindings))
	}

	if len(eqs) == 1 {
		roots, err := symbolic.SolveFor(eqs[0], req.Target)
		if err != nil {
			return solveCandidates{}, err
		}
		tr.Step("Solved %s from %s: %d candidate(s)", req.Target, eqs[0].Raw, len(roots))

		return solveCandidates{
			equations:   eqs,
			candidates:  dedupeExprs(simplifyAll(roots)),
			viaEquation: 0,
			substituted: len(bindings) > 0,
		}, nil
	}

	unknowns := systemUnknowns(eqs)

	var systemErr error

	sets, err := symbolic.SolveSystem(eqs, unknowns)
	if err == nil {
		var candidates []symbolic.Expr
		for _, set := range sets {
			if sol, ok := set[req.Target]; ok {
				candidates = append(candidates, symbolic.Simplify(sol))
			}
		}
		if len(candidates) > 0 {
			tr.Step("Solved the %d-equation system: %d candidate(s) for %s", len(eqs), len(candidates), req.Target)

			return solveCandidates{
				equations:   eqs,
				candidates:  dedupeExprs(candidates),
				viaEquation: -1,
				substituted: len(bindings) > 0,
			}, nil
		}
		// The solver finished but left the target symbolic; scan the
		// equations individually instead.
	} else {
		if domain.IsContradiction(err) {
			return solveCandidates{}, err
		}
		systemErr = err
	}

	// Per-equation fallback: solve each equation containing the target on
	// its own, dropping candidates the other equations contradict. The
	// first equation with a surviving candidate wins.
	sawCandidates := false
	contradictedBy := ""
	for i, eq := range eqs {
		if !symbolic.ContainsSymbol(eq.Residual(), req.Target) {
			continue
		}

		roots, solveErr := symbolic.SolveFor(eq, req.Target)
		if solveErr != nil || len(roots) == 0 {
			continue
		}
		sawCandidates = true

		var verified []symbolic.Expr
		for _, candidate := range dedupeExprs(simplifyAll(roots)) {
			survived := true
			for j, other := range eqs {
				if j == i {
					continue
				}
				if e.contradictsEquation(other, req.Target, candidate) {
					survived = false
					contradictedBy = other.Raw

					break
				}
			}
			if survived {
				verified = append(verified, candidate)
			}
		}
		if len(verified) == 0 {
			continue
		}
		tr.Step("Solved %s from %s alone: %d surviving candidate(s)", req.Target, eq.Raw, len(verified))

		return solveCandidates{
			equations:   eqs,
			candidates:  verified,
			viaEquation: i,
			substituted: len(bindings) > 0,
		}, nil
	}

	if sawCandidates {
		return solveCandidates{}, domain.NewContradictionError(req.Target, contradictedBy)
	}
	if systemErr != nil {
		return solveCandidates{}, systemErr
	}

	return solveCandidates{}, domain.NewNoSolutionError(req.Target, "no equation yields a value for the target")
}

// contradictsEquation reports whether substituting the candidate for the
// target turns the equation residual into a nonzero number. Residuals that
// keep free symbols cannot contradict.
func (e *Engine) contradictsEquation(eq symbolic.Equation, target string, candidate symbolic.Expr) bool {
	residual := eq.Residual()
	if !symbolic.ContainsSymbol(residual, target) {
		return false
	}

	check := symbolic.Simplify(residual.Sub(map[string]symbolic.Expr{target: candidate}))

	value, err := check.Eval(map[string]float64{})
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}

	return math.Abs(value) > e.opts.Tolerance
}

// verifySolve re-checks the surviving candidates against the equations that
// did not participate in solving. Perform already filters the fallback
// path, so a failure here means an inconsistency slipped through.
func (e *Engine) verifySolve(ctx context.Context, req ports.SolveRequest, performed solveCandidates) error {
	if performed.viaEquation < 0 || len(performed.equations) < 2 {
		return nil
	}

	tr := trace.FromContext(ctx)

	for i, eq := range performed.equations {
		if i == performed.viaEquation {
			continue
		}

		for _, candidate := range performed.candidates {
			if e.contradictsEquation(eq, req.Target, candidate) {
				return domain.NewContradictionError(req.Target, eq.Raw)
			}
		}
	}

	tr.Step("Verified candidates against %d remaining equation(s)", len(performed.equations)-1)

	return nil
}

func (e *Engine) respondSolve(ctx context.Context, req ports.SolveRequest, performed solveCandidates) (domain.SolveResult, error) {
	tr := trace.FromContext(ctx)

	// Substituting known values makes the solve a symbolic+numeric hybrid
	// even when a candidate happens to come out as a bare number.
	method := domain.MethodSymbolic
	if performed.substituted {
		method = domain.MethodSymbolicNumeric
	}

	result := domain.SolveResult{
		Target:     req.Target,
		Solutions:  make([]string, len(performed.candidates)),
		LaTeX:      make([]string, len(performed.candidates)),
		MethodUsed: method,
	}

	for i, candidate := range performed.candidates {
		result.Solutions[i] = candidate.String()
		result.LaTeX[i] = candidate.LaTeX()
	}

	for _, candidate := range performed.candidates {
		if value, err := candidate.Eval(map[string]float64{}); err == nil && !math.IsNaN(value) && !math.IsInf(value, 0) {
			result.NumericValue = &value

			break
		}
	}

	tr.Step("Result: %s = %s", req.Target, result.Solutions[0])

	return result, nil
}

func simplifyAll(exprs []symbolic.Expr) []symbolic.Expr {
	out := make([]symbolic.Expr, len(exprs))
	for i, e := range exprs {
		out[i] = symbolic.Simplify(e)
	}

	return out
}

func dedupeExprs(exprs []symbolic.Expr) []symbolic.Expr {
	var out []symbolic.Expr
	for _, e := range exprs {
		duplicate := false
		for _, kept := range out {
			if kept.Equal(e) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, e)
		}
	}

	return out
}

// systemUnknowns returns the sorted union of free symbols across the
// substituted equations.
func systemUnknowns(eqs []symbolic.Equation) []string {
	set := map[string]struct{}{}
	for _, eq := range eqs {
		for _, name := range eq.FreeSymbols() {
			set[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// SolveNumeric finds a numeric root. Single equations dispatch on the
// requested method; multiple equations always solve as a square system.
func (e *Engine) SolveNumeric(ctx context.Context, req ports.NumericSolveRequest) (domain.NumericResult, error) {
	if len(req.Equations) == 0 {
		return domain.NumericResult{}, domain.NewValidationError("equations", "at least one equation is required")
	}
	if req.Target == "" {
		return domain.NumericResult{}, domain.NewValidationError("target", "target symbol is required")
	}

	sctx := symbolic.NewContext()
	eqs := make([]symbolic.Equation, len(req.Equations))
	for i, raw := range req.Equations {
		eq, err := parseEquation(ctx, sctx, raw)
		if err != nil {
			return domain.NumericResult{}, err
		}
		eqs[i] = eq
	}

	nopts := numeric.Options{
		Tolerance:     e.opts.Tolerance,
		MaxIterations: e.opts.MaxIterations,
	}

	if len(eqs) > 1 {
		return e.solveNumericSystem(ctx, req, eqs, nopts)
	}

	return e.solveNumericSingle(ctx, req, eqs[0], nopts)
}

func (e *Engine) solveNumericSingle(ctx context.Context, req ports.NumericSolveRequest, eq symbolic.Equation, nopts numeric.Options) (domain.NumericResult, error) {
	residual := symbolic.Simplify(eq.Residual())

	env := make(map[string]float64, len(req.Knowns))
	for name, value := range req.Knowns {
		if name != req.Target {
			env[name] = value
		}
	}

	var missing []string
	for _, name := range symbolic.FreeSymbols(residual) {
		if name == req.Target {
			continue
		}
		if _, ok := env[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.NumericResult{}, domain.NewUndefinedSymbolError(missing)
	}

	f := func(x float64) (float64, error) {
		scoped := make(map[string]float64, len(env)+1)
		for name, value := range env {
			scoped[name] = value
		}
		scoped[req.Target] = x

		return residual.Eval(scoped)
	}

	lower, upper := e.opts.BracketLow, e.opts.BracketHigh
	if req.Lower != nil {
		lower = *req.Lower
	}
	if req.Upper != nil {
		upper = *req.Upper
	}

	guess := 1.0
	if req.Guess != nil {
		guess = *req.Guess
	}

	var (
		root   float64
		method string
		err    error
	)

	switch req.Method {
	case "brentq":
		root, err = numeric.Brent(f, lower, upper, nopts)
		method = "brentq"
	case "newton":
		root, err = e.newtonRoot(residual, req.Target, env, f, guess, nopts)
		method = "newton"
	case "fsolve":
		root, err = numeric.Hybrid(f, guess, nopts)
		method = "fsolve"
	case "", "auto":
		// Prefer an exact solution; fall back to the hybrid solver only
		// when the equation has no closed form.
		if value, ok := symbolicRoot(residual, req.Target, env); ok {
			root, method = value, domain.MethodSymbolic
		} else {
			root, err = numeric.Hybrid(f, guess, nopts)
			method = "fsolve"
		}
	default:
		return domain.NumericResult{}, domain.NewValidationError("method",
			"unknown method "+req.Method+"; expected auto, fsolve, brentq or newton")
	}
	if err != nil {
		return domain.NumericResult{}, err
	}

	fx, err := f(root)
	if err != nil {
		return domain.NumericResult{}, err
	}

	e.logger.DebugContext(ctx, "numeric root found")

	return domain.NumericResult{
		Target:     req.Target,
		Value:      root,
		MethodUsed: method,
		Residual:   math.Abs(fx),
	}, nil
}

// symbolicRoot attempts an exact solve of residual = 0 for the target and
// returns the first candidate that evaluates to a finite number.
func symbolicRoot(residual symbolic.Expr, target string, env map[string]float64) (float64, bool) {
	bindings := make(map[string]symbolic.Expr, len(env))
	for name, value := range env {
		bindings[name] = symbolic.NFloat(value)
	}

	substituted := symbolic.Simplify(residual.Sub(bindings))

	roots, err := symbolic.SolveFor(symbolic.Equation{LHS: substituted, RHS: symbolic.N(0)}, target)
	if err != nil {
		return 0, false
	}

	for _, root := range roots {
		value, err := symbolic.Simplify(root).Eval(map[string]float64{})
		if err == nil && !math.IsNaN(value) && !math.IsInf(value, 0) {
			return value, true
		}
	}

	return 0, false
}

// newtonRoot runs Newton's method with the analytic derivative when the
// residual differentiates to something evaluable, and a central-difference
// derivative otherwise.
func (e *Engine) newtonRoot(residual symbolic.Expr, target string, env map[string]float64, f numeric.Func, guess float64, nopts numeric.Options) (float64, error) {
	derivative := symbolic.Simplify(residual.Diff(target))

	df := func(x float64) (float64, error) {
		scoped := make(map[string]float64, len(env)+1)
		for name, value := range env {
			scoped[name] = value
		}
		scoped[target] = x

		return derivative.Eval(scoped)
	}

	if _, err := df(guess); err != nil {
		return numeric.NewtonNumeric(f, guess, nopts)
	}

	return numeric.Newton(f, df, guess, nopts)
}

func (e *Engine) solveNumericSystem(ctx context.Context, req ports.NumericSolveRequest, eqs []symbolic.Equation, nopts numeric.Options) (domain.NumericResult, error) {
	env := make(map[string]float64, len(req.Knowns))
	for name, value := range req.Knowns {
		if name != req.Target {
			env[name] = value
		}
	}

	residuals := make([]symbolic.Expr, len(eqs))
	unknownSet := map[string]struct{}{}
	for i, eq := range eqs {
		residuals[i] = symbolic.Simplify(eq.Residual())
		for _, name := range symbolic.FreeSymbols(residuals[i]) {
			if _, ok := env[name]; !ok {
				unknownSet[name] = struct{}{}
			}
		}
	}

	unknowns := make([]string, 0, len(unknownSet))
	for name := range unknownSet {
		unknowns = append(unknowns, name)
	}
	sort.Strings(unknowns)

	if _, ok := unknownSet[req.Target]; !ok {
		return domain.NumericResult{}, domain.NewNoSolutionError(req.Target, "target does not appear as an unknown in the system")
	}
	if len(unknowns) != len(eqs) {
		return domain.NumericResult{}, domain.NewNoSolutionError(req.Target,
			"system is not square; provide known values until the unknown count matches the equation count")
	}

	vector := func(x []float64) ([]float64, error) {
		scoped := make(map[string]float64, len(env)+len(unknowns))
		for name, value := range env {
			scoped[name] = value
		}
		for i, name := range unknowns {
			scoped[name] = x[i]
		}

		out := make([]float64, len(residuals))
		for i, r := range residuals {
			value, err := r.Eval(scoped)
			if err != nil {
				return nil, err
			}
			out[i] = value
		}

		return out, nil
	}

	x0 := make([]float64, len(unknowns))
	for i := range x0 {
		x0[i] = 1
	}
	if req.Guess != nil {
		for i := range x0 {
			x0[i] = *req.Guess
		}
	}

	solution, residual, err := numeric.SolveSystem(vector, x0, nopts)
	if err != nil {
		return domain.NumericResult{}, err
	}

	values := make(map[string]float64, len(unknowns))
	for i, name := range unknowns {
		values[name] = solution[i]
	}

	e.logger.DebugContext(ctx, "numeric system solved")

	return domain.NumericResult{
		Target:     req.Target,
		Value:      values[req.Target],
		Values:     values,
		MethodUsed: domain.MethodFsolveSystem,
		Residual:   residual,
	}, nil
}
