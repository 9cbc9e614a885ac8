// Package app implements the computation services behind the ports. The
// Engine wires the symbolic core to the numeric root finders; the solve
// operations run through the validate/perform/verify/respond pipeline.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/Mnehmos/provecalc-engine/internal/app/trace"
	"github.com/Mnehmos/provecalc-engine/internal/domain"
	"github.com/Mnehmos/provecalc-engine/internal/ports"
	"github.com/Mnehmos/provecalc-engine/internal/symbolic"
	"github.com/Mnehmos/provecalc-engine/internal/units"
)

// Options tunes the numeric behavior of the engine.
type Options struct {
	// Tolerance is the convergence tolerance for the root finders.
	Tolerance float64

	// MaxIterations bounds every numeric iteration.
	MaxIterations int

	// BracketLow and BracketHigh are the default search interval for
	// bracketed methods when the caller supplies no bounds.
	BracketLow  float64
	BracketHigh float64

	// MaxPlotPoints caps the sample count of a plot request.
	MaxPlotPoints int

	// QuadraturePanels is the subinterval count for definite integrals
	// that have no closed-form antiderivative.
	QuadraturePanels int
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		Tolerance:        1e-10,
		MaxIterations:    100,
		BracketLow:       -10,
		BracketHigh:      10,
		MaxPlotPoints:    2000,
		QuadraturePanels: 200,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()

	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.BracketLow == 0 && o.BracketHigh == 0 {
		o.BracketLow = def.BracketLow
		o.BracketHigh = def.BracketHigh
	}
	if o.MaxPlotPoints <= 0 {
		o.MaxPlotPoints = def.MaxPlotPoints
	}
	if o.QuadraturePanels <= 0 {
		o.QuadraturePanels = def.QuadraturePanels
	}

	return o
}

// EngineConfig carries the engine dependencies.
type EngineConfig struct {
	Logger  *slog.Logger
	Options Options
}

// Engine implements ports.ComputeService.
type Engine struct {
	logger *slog.Logger
	opts   Options
}

// Compile-time interface check.
var _ ports.ComputeService = (*Engine)(nil)

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		logger: logger,
		opts:   cfg.Options.withDefaults(),
	}
}

// parseEquation parses one equation, memoized on the request trace so the
// solve and analysis paths of a single request parse each equation once.
func parseEquation(ctx context.Context, sctx *symbolic.Context, raw string) (symbolic.Equation, error) {
	tr := trace.FromContext(ctx)

	value, err := tr.GetOrCompute("eq:"+raw, func() (any, error) {
		return symbolic.ParseEquation(symbolic.NewContext(), raw)
	})
	if err != nil {
		return symbolic.Equation{}, err
	}

	eq := value.(symbolic.Equation)
	sctx.Register(eq.FreeSymbols()...)

	return eq, nil
}

// missingSymbols returns the free symbols of e that env does not bind.
func missingSymbols(e symbolic.Expr, env map[string]float64) []string {
	var missing []string
	for _, name := range symbolic.FreeSymbols(e) {
		if _, ok := env[name]; !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// Evaluate computes the numeric value of an expression under the supplied
// variable bindings, optionally substituting the physical constants.
func (e *Engine) Evaluate(ctx context.Context, req ports.EvaluateRequest) (ports.EvaluateResult, error) {
	sctx := symbolic.NewContext()

	expr, err := symbolic.ParseExpression(sctx, req.Expression)
	if err != nil {
		return ports.EvaluateResult{}, err
	}

	env := make(map[string]float64, len(req.Variables))
	for name, value := range req.Variables {
		env[name] = value
	}
	if req.Constants {
		for name, value := range units.ConstantValues() {
			if _, ok := env[name]; !ok {
				env[name] = value
			}
		}
	}

	if missing := missingSymbols(expr, env); len(missing) > 0 {
		return ports.EvaluateResult{}, domain.NewUndefinedSymbolError(missing)
	}

	value, err := expr.Eval(env)
	if err != nil {
		return ports.EvaluateResult{}, err
	}

	simplified := symbolic.Simplify(expr)

	e.logger.DebugContext(ctx, "expression evaluated",
		slog.String("expression", req.Expression),
		slog.Float64("value", value),
	)

	return ports.EvaluateResult{
		Value:      value,
		Expression: simplified.String(),
		LaTeX:      simplified.LaTeX(),
	}, nil
}

// Simplify returns the canonical simplified form of an expression.
func (e *Engine) Simplify(ctx context.Context, expression string) (ports.ExpressionForm, error) {
	sctx := symbolic.NewContext()

	expr, err := symbolic.ParseExpression(sctx, expression)
	if err != nil {
		return ports.ExpressionForm{}, err
	}

	simplified := symbolic.Simplify(symbolic.Expand(expr))

	return ports.ExpressionForm{
		Expression: simplified.String(),
		LaTeX:      simplified.LaTeX(),
	}, nil
}

// Differentiate returns the nth derivative of an expression.
func (e *Engine) Differentiate(ctx context.Context, req ports.CalculusRequest) (ports.ExpressionForm, error) {
	if req.Variable == "" {
		return ports.ExpressionForm{}, domain.NewValidationError("variable", "differentiation variable is required")
	}

	order := req.Order
	if order <= 0 {
		order = 1
	}

	sctx := symbolic.NewContext()

	expr, err := symbolic.ParseExpression(sctx, req.Expression)
	if err != nil {
		return ports.ExpressionForm{}, err
	}

	result := expr
	for range order {
		result = symbolic.Simplify(result.Diff(req.Variable))
	}

	return ports.ExpressionForm{
		Expression: result.String(),
		LaTeX:      result.LaTeX(),
	}, nil
}

// Integrate returns the antiderivative of an expression, and the definite
// value when both bounds are present.
func (e *Engine) Integrate(ctx context.Context, req ports.IntegrateRequest) (ports.IntegrateResult, error) {
	if req.Variable == "" {
		return ports.IntegrateResult{}, domain.NewValidationError("variable", "integration variable is required")
	}

	sctx := symbolic.NewContext()

	expr, err := symbolic.ParseExpression(sctx, req.Expression)
	if err != nil {
		return ports.IntegrateResult{}, err
	}

	var result ports.IntegrateResult

	anti, ok := symbolic.Integrate(expr, req.Variable)
	if ok {
		anti = symbolic.Simplify(anti)
		result.Antiderivative = anti.String()
		result.LaTeX = anti.LaTeX()
	}

	definite := req.Lower != nil && req.Upper != nil
	if !definite {
		if !ok {
			return ports.IntegrateResult{}, domain.NewNoSolutionError(req.Variable, "no closed-form antiderivative found")
		}

		return result, nil
	}

	env := make(map[string]float64, len(req.Variables))
	for name, value := range req.Variables {
		env[name] = value
	}

	value, err := symbolic.DefiniteIntegrate(expr, req.Variable, *req.Lower, *req.Upper, e.opts.QuadraturePanels, env)
	if err != nil {
		return ports.IntegrateResult{}, err
	}
	result.Value = &value

	return result, nil
}

// plotWorkers bounds the samplers a single plot request runs in parallel.
const plotWorkers = 4

// PlotData samples an expression over [Min, Max]. Samples that evaluate to
// NaN or infinity are carried as nil points.
func (e *Engine) PlotData(ctx context.Context, req ports.PlotRequest) (domain.PlotSeries, error) {
	if req.Variable == "" {
		return domain.PlotSeries{}, domain.NewValidationError("variable", "plot variable is required")
	}
	if req.Max <= req.Min {
		return domain.PlotSeries{}, domain.NewValidationError("max", "upper bound must exceed lower bound")
	}

	points := req.Points
	if points <= 1 {
		points = 100
	}
	if points > e.opts.MaxPlotPoints {
		points = e.opts.MaxPlotPoints
	}

	sctx := symbolic.NewContext()

	expr, err := symbolic.ParseExpression(sctx, req.Expression)
	if err != nil {
		return domain.PlotSeries{}, err
	}

	env := make(map[string]float64, len(req.Variables)+1)
	for name, value := range req.Variables {
		env[name] = value
	}
	env[req.Variable] = req.Min

	if missing := missingSymbols(expr, env); len(missing) > 0 {
		return domain.PlotSeries{}, domain.NewUndefinedSymbolError(missing)
	}

	series := domain.PlotSeries{
		X: make([]float64, points),
		Y: make([]*float64, points),
	}
	step := (req.Max - req.Min) / float64(points-1)

	indices := make([]int, points)
	for i := range indices {
		indices[i] = i
	}

	err = FanOut(ctx, plotWorkers, indices, func(_ context.Context, i int) error {
		x := req.Min + float64(i)*step

		scoped := make(map[string]float64, len(env))
		for name, value := range env {
			scoped[name] = value
		}
		scoped[req.Variable] = x

		series.X[i] = x

		y, evalErr := expr.Eval(scoped)
		if evalErr != nil || math.IsNaN(y) || math.IsInf(y, 0) {
			return nil
		}
		series.Y[i] = &y

		return nil
	})
	if err != nil {
		return domain.PlotSeries{}, err
	}

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, y := range series.Y {
		if y == nil {
			continue
		}
		yMin = math.Min(yMin, *y)
		yMax = math.Max(yMax, *y)
	}
	series.YMin = yMin
	series.YMax = yMax

	e.logger.DebugContext(ctx, "plot sampled",
		slog.String("expression", req.Expression),
		slog.Int("points", points),
	)

	return series, nil
}

// AnalyzeSystem classifies an equation set by determinacy. Equations the
// parser rejects still participate through a plain identifier scan, so a
// single typo does not void the whole analysis.
func (e *Engine) AnalyzeSystem(ctx context.Context, equations []string, knowns map[string]float64) (domain.SystemAnalysis, error) {
	if len(equations) == 0 {
		return domain.SystemAnalysis{}, domain.NewValidationError("equations", "at least one equation is required")
	}

	sctx := symbolic.NewContext()
	infos := make([]domain.EquationInfo, 0, len(equations))
	seen := map[string]struct{}{}

	for _, raw := range equations {
		info := domain.EquationInfo{Raw: raw}

		eq, err := parseEquation(ctx, sctx, raw)
		if err == nil {
			info.Symbols = eq.FreeSymbols()
			info.Parsed = true
		} else {
			info.Symbols = symbolic.ScanIdentifiers(symbolic.Normalize(raw))
			e.logger.DebugContext(ctx, "analysis fell back to identifier scan",
				slog.String("equation", raw),
				slog.Any("error", err),
			)
		}

		for _, name := range info.Symbols {
			seen[name] = struct{}{}
		}
		infos = append(infos, info)
	}

	var unknowns, knownNames []string
	for name := range seen {
		if _, ok := knowns[name]; ok {
			knownNames = append(knownNames, name)
		} else {
			unknowns = append(unknowns, name)
		}
	}
	sort.Strings(unknowns)
	sort.Strings(knownNames)

	analysis := domain.SystemAnalysis{
		EquationCount: len(equations),
		UnknownCount:  len(unknowns),
		KnownCount:    len(knownNames),
		Unknowns:      unknowns,
		Knowns:        knownNames,
		Equations:     infos,
	}

	switch {
	case len(equations) == len(unknowns):
		analysis.Status = domain.StatusDetermined
		analysis.Message = fmt.Sprintf("System is well-determined: %d equation(s) for %d unknown(s).",
			len(equations), len(unknowns))
	case len(equations) < len(unknowns):
		analysis.Status = domain.StatusUnderdetermined
		analysis.Message = fmt.Sprintf("System is under-determined: %d equation(s) but %d unknown(s). Need %d more equation(s) or value(s).",
			len(equations), len(unknowns), len(unknowns)-len(equations))
	default:
		analysis.Status = domain.StatusOverdetermined
		analysis.Message = fmt.Sprintf("System is over-determined: %d equation(s) for only %d unknown(s). Check for redundant or contradictory equations.",
			len(equations), len(unknowns))
	}

	// Any unknown is a plausible solve target once at least one equation
	// parsed; a fully failed parse leaves the list empty.
	for _, info := range infos {
		if info.Parsed {
			analysis.SolvableFor = append([]string{}, unknowns...)
			break
		}
	}

	return analysis, nil
}
