// Package ports defines the interfaces between the application core and
// the outside world. HTTP handlers consume the service ports defined here;
// the app package implements them. Handlers can therefore be tested
// against small fakes instead of the full engine.
package ports

import (
	"context"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

// EvaluateRequest asks for the numeric value of an expression.
type EvaluateRequest struct {
	Expression string
	Variables  map[string]float64
	// Constants substitutes the known physical constants (c, G, h, ...)
	// for any matching free symbols.
	Constants bool
}

// EvaluateResult is a numeric evaluation with the forms that produced it.
type EvaluateResult struct {
	Value      float64
	Expression string
	LaTeX      string
}

// ExpressionForm is a symbolic result rendered both ways.
type ExpressionForm struct {
	Expression string
	LaTeX      string
}

// SolveRequest asks for a closed-form solution of one or more equations.
type SolveRequest struct {
	Equations []string
	Target    string
	Knowns    map[string]float64
}

// NumericSolveRequest asks for a numeric root. Method is one of "auto",
// "fsolve", "brentq", or "newton"; bounds and guess apply per method.
type NumericSolveRequest struct {
	Equations []string
	Target    string
	Method    string
	Lower     *float64
	Upper     *float64
	Guess     *float64
	Knowns    map[string]float64
}

// CalculusRequest asks for a derivative.
type CalculusRequest struct {
	Expression string
	Variable   string
	Order      int
}

// IntegrateRequest asks for an antiderivative, or a definite integral when
// both bounds are set.
type IntegrateRequest struct {
	Expression string
	Variable   string
	Lower      *float64
	Upper      *float64
	Variables  map[string]float64
}

// IntegrateResult carries the symbolic antiderivative when one exists and
// the definite value when bounds were given.
type IntegrateResult struct {
	Antiderivative string
	LaTeX          string
	Value          *float64
}

// PlotRequest asks for sampled values of an expression over a range.
type PlotRequest struct {
	Expression string
	Variable   string
	Min        float64
	Max        float64
	Points     int
	Variables  map[string]float64
}

// ComputeService is the symbolic and numeric computation port.
type ComputeService interface {
	Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResult, error)
	Simplify(ctx context.Context, expression string) (ExpressionForm, error)
	Differentiate(ctx context.Context, req CalculusRequest) (ExpressionForm, error)
	Integrate(ctx context.Context, req IntegrateRequest) (IntegrateResult, error)
	PlotData(ctx context.Context, req PlotRequest) (domain.PlotSeries, error)
	Solve(ctx context.Context, req SolveRequest) (domain.SolveResult, error)
	SolveNumeric(ctx context.Context, req NumericSolveRequest) (domain.NumericResult, error)
	AnalyzeSystem(ctx context.Context, equations []string, knowns map[string]float64) (domain.SystemAnalysis, error)
}

// VariableInput is the caller-supplied value and unit of one equation
// variable.
type VariableInput struct {
	Value *float64
	Unit  string
}

// ValidateEquationRequest asks for a dimensional consistency check.
type ValidateEquationRequest struct {
	Equation  string
	Variables map[string]VariableInput
	Target    string
}

// UnitConversion is the result of a unit conversion.
type UnitConversion struct {
	Value     float64
	FromUnit  string
	ToUnit    string
	Converted float64
}

// UnitDimensions describes the dimension vector of a unit expression.
type UnitDimensions struct {
	Unit        string
	Dimensions  map[string]float64
	Rendered    string
	BaseUnits   string
	DerivedName string
}

// UnitService is the dimensional analysis port.
type UnitService interface {
	Convert(ctx context.Context, value float64, from, to string) (UnitConversion, error)
	Dimensions(ctx context.Context, unit string) (UnitDimensions, error)
	ValidateEquation(ctx context.Context, req ValidateEquationRequest) (domain.UnitValidation, error)
	Classify(ctx context.Context, unit string) (domain.DomainClassification, error)
	ClassifyBatch(ctx context.Context, units []string) ([]domain.DomainClassification, error)
	Domains(ctx context.Context) []domain.DomainInfo
	Constants(ctx context.Context) []domain.Constant
	Constant(ctx context.Context, name string) (domain.Constant, error)
}
