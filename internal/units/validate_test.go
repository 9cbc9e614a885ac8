package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

func newTestValidator() *Validator {
	return NewValidator(NewRegistry())
}

func TestValidateEquationBalanced(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("F = m*a", map[string]VariableSpec{
		"F": {Unit: "N"},
		"m": {Unit: "kg"},
		"a": {Unit: "m/s**2"},
	}, "")

	assert.True(t, out.Valid)
	require.NotNil(t, out.Balanced)
	assert.True(t, *out.Balanced)
	assert.Empty(t, out.Messages)
	assert.Empty(t, out.Suggestion)
	assert.Len(t, out.Variables, 3)
}

func TestValidateEquationMismatch(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("F = m*v", map[string]VariableSpec{
		"F": {Unit: "N"},
		"m": {Unit: "kg"},
		"v": {Unit: "m/s"},
	}, "")

	assert.False(t, out.Valid)
	require.NotNil(t, out.Balanced)
	assert.False(t, *out.Balanced)
	require.NotEmpty(t, out.Messages)
	assert.Equal(t,
		"Dimensional mismatch: LHS has dimensions length × mass × time^-2, RHS has dimensions length × mass × time^-1",
		out.Messages[0])
}

func TestValidateEquationTargetInference(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("v = d/t", map[string]VariableSpec{
		"d": {Unit: "m"},
		"t": {Unit: "s"},
	}, "v")

	assert.True(t, out.Valid)
	assert.Equal(t, "length × time^-1", out.InferredTarget)
	require.NotEmpty(t, out.Messages)
	assert.Contains(t, out.Messages[0], "velocity")
}

func TestValidateEquationUnknownSide(t *testing.T) {
	v := newTestValidator()

	// E has no unit, so only the right side can be reported.
	out := v.ValidateEquation("E = m*c**2", map[string]VariableSpec{
		"E": {},
		"m": {Unit: "kg"},
		"c": {Unit: "m/s"},
	}, "")

	assert.True(t, out.Valid)
	require.NotNil(t, out.Balanced)
	assert.True(t, *out.Balanced)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings, "RHS has dimensions length^2 × mass × time^-2")
}

func TestValidateEquationUnknownBothSides(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("a*x = b*y", map[string]VariableSpec{
		"a": {Unit: "kg"},
		"b": {Unit: "kg"},
	}, "")

	assert.Contains(t, out.Warnings, "Cannot validate: unsubstituted variables on both sides")
	assert.Nil(t, out.Balanced)
}

func TestValidateEquationSuspiciousUnits(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("Q = m*T", map[string]VariableSpec{
		"Q": {Unit: "J"},
		"m": {Unit: "kg"},
		"T": {Unit: "K*m"},
	}, "")

	var suspicious *domain.VariableUnit
	for i := range out.Variables {
		if out.Variables[i].Name == "T" {
			suspicious = &out.Variables[i]
		}
	}
	require.NotNil(t, suspicious)
	assert.Equal(t, domain.UnitStatusSuspicious, suspicious.Status)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[0], "Temperature combined with mechanical quantities is often an error.")
}

func TestValidateEquationSuggestionNamesSuspiciousVariable(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("Q = m*T", map[string]VariableSpec{
		"Q": {Unit: "J"},
		"m": {Unit: "kg"},
		"T": {Unit: "K*m"},
	}, "")

	assert.False(t, out.Valid)
	assert.Equal(t, "Variable 'T' has unusual dimensions. Check if the unit is correct.", out.Suggestion)
}

func TestValidateEquationSuggestionUsesInferredQuantity(t *testing.T) {
	v := newTestValidator()

	// The target wears a temperature-tainted unit while the right side
	// reduces cleanly to force.
	out := v.ValidateEquation("F = m*a", map[string]VariableSpec{
		"F": {Unit: "kg*K"},
		"m": {Unit: "kg"},
		"a": {Unit: "m/s**2"},
	}, "F")

	assert.False(t, out.Valid)
	assert.Equal(t, "Variable 'F' should have dimensions of force. Check if the unit is correct.", out.Suggestion)
}

func TestValidateEquationHeatCapacityNotSuspicious(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("Q = C*dT", map[string]VariableSpec{
		"C":  {Unit: "J/K"},
		"dT": {Unit: "K"},
		"Q":  {Unit: "J"},
	}, "")

	for _, vu := range out.Variables {
		assert.NotEqual(t, domain.UnitStatusSuspicious, vu.Status, "variable %s", vu.Name)
	}
	assert.True(t, out.Valid)
}

func TestValidateEquationErrors(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("x + y", nil, "")
	assert.False(t, out.Valid)
	assert.Contains(t, out.Messages, "Equation must contain '=' sign")

	out = v.ValidateEquation("F = m*a", map[string]VariableSpec{
		"F": {Unit: "florp"},
	}, "")
	assert.False(t, out.Valid)

	var parseFailed bool
	for _, vu := range out.Variables {
		if vu.Status == domain.UnitStatusParseError {
			parseFailed = true
		}
	}
	assert.True(t, parseFailed)
}

func TestValidateEquationNoUnits(t *testing.T) {
	v := newTestValidator()

	out := v.ValidateEquation("y = x**2", map[string]VariableSpec{
		"x": {},
		"y": {},
	}, "")

	assert.True(t, out.Valid)
	assert.Contains(t, out.Warnings, "No units to validate")
	assert.Nil(t, out.Balanced)
}
