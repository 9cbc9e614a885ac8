package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The zero value of Exp carries D == 0. Accumulators all over the package
// start from Dimensionless, so arithmetic must treat that zero value as 0/1
// rather than annihilating the other operand.
func TestExp_ZeroValueArithmetic(t *testing.T) {
	var zero Exp

	assert.Equal(t, E(3, 1), zero.Add(E(3, 1)))
	assert.Equal(t, E(-2, 1), E(-2, 1).Add(zero))
	assert.Equal(t, E(0, 1), zero.Mul(E(5, 1)))
	assert.Equal(t, E(0, 1), zero.Neg())
	assert.InDelta(t, 0, zero.Float(), 0)
	assert.True(t, zero.IsInt())
	assert.True(t, zero.IsZero())
}

func TestDimension_AccumulateFromDimensionless(t *testing.T) {
	velocity := Dim(0, 1, -1, 0, 0, 0, 0)

	product := Dimensionless.Mul(velocity)
	assert.True(t, product.Equal(velocity))
	assert.Equal(t, "length × time^-1", product.String())

	quotient := Dimensionless.Div(Dim(0, 0, 1, 0, 0, 0, 0))
	assert.True(t, quotient.Equal(Dim(0, 0, -1, 0, 0, 0, 0)))
}

func TestDimension_EqualNormalizesZeroValues(t *testing.T) {
	computed := Dim(0, 1, 0, 0, 0, 0, 0).Div(Dim(0, 1, 0, 0, 0, 0, 0))

	assert.True(t, computed.IsDimensionless())
	assert.True(t, computed.Equal(Dimensionless))
}

func TestDimension_ZeroValueConversions(t *testing.T) {
	ints, ok := Dimensionless.Ints()
	require.True(t, ok)
	assert.Equal(t, [numDims]int64{}, ints)

	for _, f := range Dimensionless.Floats() {
		assert.InDelta(t, 0, f, 0)
	}
}

// Compound parses walk a Dimensionless accumulator through Mul and Div, so
// they exercise the zero-value path end to end.
func TestParseQuantity_CompoundDimensions(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		expr string
		dim  Dimension
	}{
		{expr: "m/s", dim: Dim(0, 1, -1, 0, 0, 0, 0)},
		{expr: "kg*m/s**2", dim: Dim(1, 1, -2, 0, 0, 0, 0)},
		{expr: "kg/m**3", dim: Dim(1, -3, 0, 0, 0, 0, 0)},
		{expr: "J/K", dim: Dim(1, 2, -2, 0, -1, 0, 0)},
		{expr: "J/(kg*K)", dim: Dim(0, 2, -2, 0, -1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			q, err := r.ParseQuantity(tt.expr)
			require.NoError(t, err)
			assert.True(t, q.Dim.Equal(tt.dim), "got %s", q.Dim)
		})
	}
}
