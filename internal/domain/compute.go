// Package domain contains core business entities and rules.
package domain

// System analysis status values.
const (
	StatusDetermined      = "determined"
	StatusUnderdetermined = "under_determined"
	StatusOverdetermined  = "over_determined"
)

// Solve methods reported to callers.
const (
	MethodSymbolic        = "symbolic"
	MethodSymbolicNumeric = "symbolic+numeric"
	MethodFsolveSystem    = "fsolve (system)"
)

// SolveResult is the outcome of a symbolic solve for a target symbol.
type SolveResult struct {
	// Target is the symbol that was solved for.
	Target string

	// Solutions are the surviving candidates, rendered as expressions.
	Solutions []string

	// LaTeX holds the LaTeX rendering of each solution, index-aligned
	// with Solutions.
	LaTeX []string

	// NumericValue is set when known values made a solution fully numeric.
	NumericValue *float64

	// MethodUsed is "symbolic" or "symbolic+numeric".
	MethodUsed string

	// Steps is the human-readable solve trace.
	Steps []string

	// Analysis describes the determinacy of the equation set, with the
	// target excluded from the knowns.
	Analysis *SystemAnalysis
}

// NumericResult is the outcome of a numeric solve.
type NumericResult struct {
	// Target is the symbol that was solved for.
	Target string

	// Value is the root found.
	Value float64

	// Values holds the full solution vector for multi-equation systems,
	// keyed by unknown name. Nil for single-equation solves.
	Values map[string]float64

	// MethodUsed names the algorithm that produced the result.
	MethodUsed string

	// Residual is the maximum absolute equation residual at the solution.
	Residual float64
}

// EquationInfo describes one equation inside a system analysis.
type EquationInfo struct {
	// Raw is the equation as supplied.
	Raw string

	// Symbols are the identifiers found in the equation.
	Symbols []string

	// Parsed is false when the symbolic parser failed and the symbols
	// were recovered by a plain identifier scan instead.
	Parsed bool
}

// SystemAnalysis classifies an equation set by determinacy.
type SystemAnalysis struct {
	EquationCount int
	UnknownCount  int
	KnownCount    int
	Unknowns      []string
	Knowns        []string
	Status        string
	Message       string

	// SolvableFor lists the unknowns the system can plausibly be solved
	// for. Empty when no equation parsed.
	SolvableFor []string

	Equations []EquationInfo
}

// VariableUnit statuses used by equation validation.
const (
	UnitStatusOK         = "ok"
	UnitStatusNoUnit     = "no_unit"
	UnitStatusParseError = "parse_error"
	UnitStatusSuspicious = "suspicious"
)

// VariableUnit is the per-variable result of a dimensional validation.
type VariableUnit struct {
	Name       string
	Unit       string
	Status     string
	Dimensions string
	Quantity   string
	Note       string
}

// UnitValidation is the outcome of validating an equation dimensionally.
type UnitValidation struct {
	// Valid is false only on a hard mismatch; advisory findings leave it true.
	Valid bool

	// Balanced reports whether both sides reduced to the same dimensions.
	// Nil when a balance check was not possible.
	Balanced *bool

	Variables []VariableUnit

	// InferredTarget holds the dimensions inferred for the target symbol,
	// when the equation shape allowed inference.
	InferredTarget string

	// Suggestion is a one-line remediation hint, set when validation
	// failed and a variable looks responsible.
	Suggestion string

	Warnings []string
	Messages []string
}

// DomainClassification assigns a dimension vector to an engineering domain.
type DomainClassification struct {
	Domain   string
	Quantity string
	Label    string
	Color    string
	Icon     string

	// Dimensions are the seven base exponents: mass, length, time,
	// current, temperature, amount, luminosity.
	Dimensions []float64

	// DimensionString is the human-readable rendering, e.g. "kg × m⁻³".
	DimensionString string
}

// DomainInfo is the presentation metadata for one engineering domain.
type DomainInfo struct {
	Name  string
	Label string
	Color string
	Icon  string
}

// Constant is a physical constant with its unit and dimensions.
type Constant struct {
	Name        string
	Symbol      string
	Value       float64
	Unit        string
	Description string
}

// PlotSeries is sampled expression data for plotting. Non-finite samples
// are carried as nil so they survive JSON encoding.
type PlotSeries struct {
	X    []float64
	Y    []*float64
	YMin float64
	YMax float64
}
