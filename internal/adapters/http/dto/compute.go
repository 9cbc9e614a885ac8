package dto

// EvaluateRequest asks for the numeric value of an expression.
type EvaluateRequest struct {
	Expression string             `json:"expression" validate:"required,notempty"`
	Variables  map[string]float64 `json:"variables"`

	// UseConstants substitutes known physical constants for free symbols.
	UseConstants bool `json:"use_constants"`
}

// EvaluateResponse is the numeric value together with the simplified forms.
type EvaluateResponse struct {
	Result     float64 `json:"result"`
	Expression string  `json:"expression"`
	LaTeX      string  `json:"latex"`
}

// ExpressionRequest carries a bare expression for simplify.
type ExpressionRequest struct {
	Expression string `json:"expression" validate:"required,notempty"`
}

// ExpressionResponse is a symbolic result rendered both ways.
type ExpressionResponse struct {
	Expression string `json:"expression"`
	LaTeX      string `json:"latex"`
}

// DifferentiateRequest asks for a derivative of the given order.
type DifferentiateRequest struct {
	Expression string `json:"expression" validate:"required,notempty"`
	Variable   string `json:"variable" validate:"required,notempty,identifier"`
	Order      int    `json:"order" validate:"gte=0,lte=10"`
}

// IntegrateRequest asks for an antiderivative, or a definite integral when
// both limits are present.
type IntegrateRequest struct {
	Expression string             `json:"expression" validate:"required,notempty"`
	Variable   string             `json:"variable" validate:"required,notempty,identifier"`
	Lower      *float64           `json:"lower"`
	Upper      *float64           `json:"upper"`
	Variables  map[string]float64 `json:"variables"`
}

// IntegrateResponse carries the antiderivative when a closed form exists
// and the definite value when limits were given.
type IntegrateResponse struct {
	Antiderivative string   `json:"antiderivative,omitempty"`
	LaTeX          string   `json:"latex,omitempty"`
	Value          *float64 `json:"value,omitempty"`
}

// SolveRequest asks for a closed-form solution of one or more equations.
type SolveRequest struct {
	Equations []string           `json:"equations" validate:"required,min=1,dive,notempty"`
	Target    string             `json:"target" validate:"required,notempty,identifier"`
	Variables map[string]float64 `json:"variables"`
}

// SolveResponse is the outcome of a symbolic solve.
type SolveResponse struct {
	Target         string                  `json:"target"`
	Solutions      []string                `json:"solutions"`
	LaTeX          []string                `json:"latex"`
	NumericValue   *float64                `json:"numeric_value,omitempty"`
	MethodUsed     string                  `json:"method_used"`
	Steps          []string                `json:"steps,omitempty"`
	SystemAnalysis *SystemAnalysisResponse `json:"system_analysis,omitempty"`
}

// SolveNumericRequest asks for a numeric root.
type SolveNumericRequest struct {
	Equations []string           `json:"equations" validate:"required,min=1,dive,notempty"`
	Target    string             `json:"target" validate:"required,notempty,identifier"`
	Method    string             `json:"method" validate:"omitempty,oneof=auto fsolve brentq newton"`
	Guess     *float64           `json:"initial_guess"`
	Lower     *float64           `json:"lower"`
	Upper     *float64           `json:"upper"`
	Variables map[string]float64 `json:"variables"`
}

// SolveNumericResponse is the outcome of a numeric solve.
type SolveNumericResponse struct {
	Target     string             `json:"target"`
	Value      float64            `json:"value"`
	Values     map[string]float64 `json:"values,omitempty"`
	MethodUsed string             `json:"method_used"`
	Residual   float64            `json:"residual"`
}

// AnalyzeSystemRequest asks for a determinacy analysis of an equation set.
type AnalyzeSystemRequest struct {
	Equations []string           `json:"equations" validate:"required,min=1,dive,notempty"`
	Variables map[string]float64 `json:"variables"`
}

// EquationInfoResponse describes one equation inside a system analysis.
type EquationInfoResponse struct {
	Equation string   `json:"equation"`
	Symbols  []string `json:"symbols"`
	Parsed   bool     `json:"parsed"`
}

// SystemAnalysisResponse classifies an equation set by determinacy.
type SystemAnalysisResponse struct {
	EquationCount int                    `json:"equation_count"`
	UnknownCount  int                    `json:"unknown_count"`
	KnownCount    int                    `json:"known_count"`
	Unknowns      []string               `json:"unknowns"`
	Knowns        []string               `json:"knowns"`
	Status        string                 `json:"status"`
	Message       string                 `json:"message"`
	SolvableFor   []string               `json:"solvable_for"`
	Equations     []EquationInfoResponse `json:"equations,omitempty"`
}

// VariableInputDTO is the caller-supplied value and unit of one variable.
type VariableInputDTO struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// ValidateEquationRequest asks for a dimensional consistency check.
type ValidateEquationRequest struct {
	Equation  string                      `json:"equation" validate:"required,notempty"`
	Variables map[string]VariableInputDTO `json:"variables"`
	Target    string                      `json:"target"`
}

// VariableUnitResponse is the per-variable result of a dimensional validation.
type VariableUnitResponse struct {
	Name       string `json:"name"`
	Unit       string `json:"unit,omitempty"`
	Status     string `json:"status"`
	Dimensions string `json:"dimensions,omitempty"`
	Quantity   string `json:"quantity,omitempty"`
	Note       string `json:"note,omitempty"`
}

// ValidateEquationResponse reports the dimensional analysis of an equation.
type ValidateEquationResponse struct {
	Valid          bool                   `json:"valid"`
	Balanced       *bool                  `json:"balanced,omitempty"`
	Variables      []VariableUnitResponse `json:"variables"`
	InferredTarget string                 `json:"inferred_target,omitempty"`
	Suggestion     string                 `json:"suggestion,omitempty"`
	Warnings       []string               `json:"warnings,omitempty"`
	Messages       []string               `json:"messages,omitempty"`
}

// PlotDataRequest asks for sampled values of an expression over a range.
type PlotDataRequest struct {
	Expression string             `json:"expression" validate:"required,notempty"`
	Variable   string             `json:"variable" validate:"required,notempty,identifier"`
	XMin       float64            `json:"x_min"`
	XMax       float64            `json:"x_max"`
	PointCount int                `json:"point_count" validate:"gte=0"`
	Variables  map[string]float64 `json:"variables"`
}

// PlotDataResponse is sampled expression data. Samples where the expression
// is singular or non-finite are null.
type PlotDataResponse struct {
	X    []float64  `json:"x"`
	Y    []*float64 `json:"y"`
	YMin float64    `json:"y_min"`
	YMax float64    `json:"y_max"`
}
