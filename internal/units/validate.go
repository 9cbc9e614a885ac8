package units

import (
	"fmt"
	"strings"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
	"github.com/Mnehmos/provecalc-engine/internal/symbolic"
)

// VariableSpec carries the caller-supplied value and unit of one variable.
type VariableSpec struct {
	Value *float64
	Unit  string
}

// Validator checks equations for dimensional consistency before solving.
// Findings are advisory except a hard left/right mismatch.
type Validator struct {
	registry *Registry
}

// NewValidator creates a validator over the given registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// dimHeatCapacity is energy per mass-temperature, the one accepted shape
// mixing temperature with mechanical dimensions.
var dimHeatCapacity = Dim(1, 2, -2, 0, -1, 0, 0)

// quantityNames maps common dimension vectors onto quantity names used in
// validation reports.
var quantityNames = map[[numDims]int64]string{
	{1, 0, 0, 0, 0, 0, 0}:   "mass",
	{0, 1, 0, 0, 0, 0, 0}:   "length",
	{0, 0, 1, 0, 0, 0, 0}:   "time",
	{0, 0, 0, 0, 1, 0, 0}:   "temperature",
	{0, 0, 0, 1, 0, 0, 0}:   "current",
	{0, 2, 0, 0, 0, 0, 0}:   "area",
	{0, 3, 0, 0, 0, 0, 0}:   "volume",
	{0, 1, -1, 0, 0, 0, 0}:  "velocity",
	{0, 1, -2, 0, 0, 0, 0}:  "acceleration",
	{1, 1, -2, 0, 0, 0, 0}:  "force",
	{1, -1, -2, 0, 0, 0, 0}: "pressure/stress",
	{1, 2, -2, 0, 0, 0, 0}:  "energy/work",
	{1, 2, -3, 0, 0, 0, 0}:  "power",
	{1, 2, -3, -1, 0, 0, 0}: "voltage",
	{1, 2, -3, -2, 0, 0, 0}: "resistance",
}

// QuantityName maps a dimension vector onto a common quantity name, or "".
func QuantityName(d Dimension) string {
	ints, ok := d.Ints()
	if !ok {
		return ""
	}

	return quantityNames[ints]
}

// ValidateEquation checks the dimensional consistency of an equation given
// per-variable units, in three passes: per-variable analysis, target
// dimension inference, and a left/right balance check.
func (v *Validator) ValidateEquation(equation string, variables map[string]VariableSpec, target string) domain.UnitValidation {
	out := domain.UnitValidation{Valid: true}

	normalized := symbolic.Normalize(equation)
	if !strings.Contains(normalized, "=") {
		out.Valid = false
		out.Messages = append(out.Messages, "Equation must contain '=' sign")

		return out
	}

	dims := map[string]Dimension{}

	// Per-variable analysis.
	for name, spec := range variables {
		entry := domain.VariableUnit{Name: name, Unit: spec.Unit, Status: domain.UnitStatusOK}

		if spec.Unit == "" {
			entry.Status = domain.UnitStatusNoUnit
			out.Variables = append(out.Variables, entry)
			continue
		}

		q, err := v.registry.ParseQuantity(spec.Unit)
		if err != nil {
			entry.Status = domain.UnitStatusParseError
			entry.Note = err.Error()
			out.Variables = append(out.Variables, entry)
			out.Valid = false
			out.Messages = append(out.Messages,
				fmt.Sprintf("Could not parse unit '%s' for variable '%s': %v", spec.Unit, name, err))
			continue
		}

		dims[name] = q.Dim
		entry.Dimensions = q.Dim.String()
		entry.Quantity = QuantityName(q.Dim)

		if suspiciousDimensions(q.Dim) {
			entry.Status = domain.UnitStatusSuspicious
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"Variable '%s' has unusual dimensions: %s. Temperature combined with mechanical quantities is often an error.",
				name, q.Dim.String()))
		}

		out.Variables = append(out.Variables, entry)
	}

	lhsText, rhsText := symbolic.SplitEquation(normalized)
	ctx := symbolic.NewContext()
	ctx.Register(symbolic.ScanIdentifiers(lhsText)...)
	ctx.Register(symbolic.ScanIdentifiers(rhsText)...)

	lhs, lhsErr := symbolic.Parse(ctx, lhsText)
	rhs, rhsErr := symbolic.Parse(ctx, rhsText)
	if lhsErr != nil || rhsErr != nil {
		out.Warnings = append(out.Warnings, "Could not parse equation for balance checking")

		return out
	}

	// Target inference: only when the target stands alone on the left and
	// does not occur on the right.
	inferredQuantity := ""
	if target != "" && len(dims) > 0 {
		if sym, ok := lhs.(symbolic.Sym); ok && sym.Name == target && !symbolic.ContainsSymbol(rhs, target) {
			if inferred, complete := v.sideDimensions(rhs, dims); complete == nil && !inferred.usedUnknown {
				out.InferredTarget = inferred.dim.String()
				if qty := QuantityName(inferred.dim); qty != "" {
					inferredQuantity = qty
					out.Messages = append(out.Messages,
						fmt.Sprintf("Target '%s' is expected to be %s (%s)", target, qty, inferred.dim.String()))
				}
			}
		}
	}

	v.checkBalance(lhs, rhs, dims, &out)

	out.Suggestion = suggestion(&out, target, inferredQuantity)

	return out
}

// suggestion points at the variable most likely responsible for a failed
// validation. Nothing is suggested on a clean result.
func suggestion(out *domain.UnitValidation, target, inferredQuantity string) string {
	if out.Valid {
		return ""
	}

	for _, entry := range out.Variables {
		if entry.Status != domain.UnitStatusSuspicious {
			continue
		}
		if entry.Name == target && inferredQuantity != "" {
			return fmt.Sprintf("Variable '%s' should have dimensions of %s. Check if the unit is correct.",
				entry.Name, inferredQuantity)
		}

		return fmt.Sprintf("Variable '%s' has unusual dimensions. Check if the unit is correct.", entry.Name)
	}

	return ""
}

// suspiciousDimensions flags positive temperature exponents mixed with mass
// or length, except the heat capacity signature.
func suspiciousDimensions(d Dimension) bool {
	if d[Temperature].IsZero() || d[Temperature].Float() <= 0 {
		return false
	}
	if d[Mass].IsZero() && d[Length].IsZero() {
		return false
	}

	return !d.Equal(dimHeatCapacity)
}

type sideResult struct {
	dim         Dimension
	usedUnknown bool
}

// sideDimensions reduces one side of the equation to a dimension vector.
// Symbols without unit information count as dimensionless and set
// usedUnknown. A non-nil error means the side could not be reduced at all.
func (v *Validator) sideDimensions(e symbolic.Expr, dims map[string]Dimension) (sideResult, error) {
	switch n := e.(type) {
	case symbolic.Num:
		return sideResult{dim: Dimensionless}, nil

	case symbolic.Sym:
		if d, ok := dims[n.Name]; ok {
			return sideResult{dim: d}, nil
		}
		if n.Name == "pi" {
			return sideResult{dim: Dimensionless}, nil
		}

		return sideResult{dim: Dimensionless, usedUnknown: true}, nil

	case symbolic.Add:
		var acc *sideResult
		for _, t := range n.Terms {
			r, err := v.sideDimensions(t, dims)
			if err != nil {
				return sideResult{}, err
			}
			if acc == nil {
				res := r
				acc = &res
				continue
			}
			acc.usedUnknown = acc.usedUnknown || r.usedUnknown
			if !acc.dim.Equal(r.dim) && !acc.usedUnknown {
				return sideResult{}, &domain.DimensionMismatchError{
					LHS: acc.dim.String(), RHS: r.dim.String(),
				}
			}
		}

		return *acc, nil

	case symbolic.Mul:
		out := sideResult{dim: Dimensionless}
		for _, f := range n.Factors {
			r, err := v.sideDimensions(f, dims)
			if err != nil {
				return sideResult{}, err
			}
			out.dim = out.dim.Mul(r.dim)
			out.usedUnknown = out.usedUnknown || r.usedUnknown
		}

		return out, nil

	case symbolic.Pow:
		base, err := v.sideDimensions(n.Base, dims)
		if err != nil {
			return sideResult{}, err
		}

		exp, ok := n.Exp.(symbolic.Num)
		if !ok {
			// Symbolic exponents only make sense on dimensionless bases.
			if base.dim.IsDimensionless() {
				return base, nil
			}

			return sideResult{}, domain.NewUnitParseError(e.String(), "non-numeric exponent on a dimensional base")
		}
		if !exp.Rat.Num().IsInt64() || !exp.Rat.Denom().IsInt64() {
			return sideResult{}, domain.NewUnitParseError(e.String(), "exponent out of range")
		}

		return sideResult{
			dim:         base.dim.Pow(E(exp.Rat.Num().Int64(), exp.Rat.Denom().Int64())),
			usedUnknown: base.usedUnknown,
		}, nil

	case symbolic.Call:
		arg, err := v.sideDimensions(n.Arg, dims)
		if err != nil {
			return sideResult{}, err
		}
		if !arg.dim.IsDimensionless() && !arg.usedUnknown {
			return sideResult{}, domain.NewUnitParseError(e.String(), n.Fn+" requires a dimensionless argument")
		}

		return sideResult{dim: Dimensionless, usedUnknown: arg.usedUnknown}, nil
	}

	return sideResult{}, domain.NewUnitParseError(e.String(), "unsupported expression")
}

// checkBalance compares the dimensions of both sides, degrading to
// warnings when unknowns or reduction failures prevent a hard verdict.
func (v *Validator) checkBalance(lhs, rhs symbolic.Expr, dims map[string]Dimension, out *domain.UnitValidation) {
	if len(dims) == 0 {
		out.Warnings = append(out.Warnings, "No units to validate")

		return
	}

	left, lerr := v.sideDimensions(lhs, dims)
	right, rerr := v.sideDimensions(rhs, dims)
	if lerr != nil || rerr != nil {
		err := lerr
		if err == nil {
			err = rerr
		}
		out.Warnings = append(out.Warnings, fmt.Sprintf("Validation incomplete: %v", err))

		return
	}

	switch {
	case left.usedUnknown && right.usedUnknown:
		out.Warnings = append(out.Warnings, "Cannot validate: unsubstituted variables on both sides")

	case left.usedUnknown || right.usedUnknown:
		// The unknown side will carry the missing dimensions; report the
		// known side informationally.
		knownSide := "LHS"
		knownDims := left.dim
		if left.usedUnknown {
			knownSide = "RHS"
			knownDims = right.dim
		}
		balanced := true
		out.Balanced = &balanced
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("%s has dimensions %s", knownSide, knownDims.String()))

	case left.dim.Equal(right.dim):
		balanced := true
		out.Balanced = &balanced

	default:
		balanced := false
		out.Balanced = &balanced
		out.Valid = false
		mismatch := &domain.DimensionMismatchError{LHS: left.dim.String(), RHS: right.dim.String()}
		out.Messages = append(out.Messages, mismatch.Error())
	}
}
