package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(NewRegistry())

	tests := []struct {
		unit     string
		domain   string
		quantity string
	}{
		{unit: "kg/m**3", domain: "mechanics", quantity: "density"},
		{unit: "V/A", domain: "electrical", quantity: "resistance"},
		{unit: "N", domain: "mechanics", quantity: "force"},
		{unit: "J/K", domain: "thermodynamics", quantity: "heat_capacity"},
		{unit: "mol/L", domain: "chemistry", quantity: "concentration"},
		{unit: "T", domain: "magnetism", quantity: "magnetic_field"},
		{unit: "cd", domain: "optics", quantity: "luminous_intensity"},
		{unit: "Hz", domain: "mechanics", quantity: "frequency"},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got := c.Classify(tt.unit)
			assert.Equal(t, tt.domain, got.Domain)
			assert.Equal(t, tt.quantity, got.Quantity)
			assert.NotEmpty(t, got.Label)
			assert.NotEmpty(t, got.Color)
		})
	}
}

func TestClassifyFallbacks(t *testing.T) {
	c := NewClassifier(NewRegistry())

	// Ratios classify as dimensionless.
	got := c.Classify("m/m")
	assert.Equal(t, "dimensionless", got.Domain)
	assert.Equal(t, "ratio", got.Quantity)

	// Unparseable units degrade to unknown instead of failing.
	got = c.Classify("florp")
	assert.Equal(t, "unknown", got.Domain)

	// Off-taxonomy compounds infer the domain from the dominant dimension.
	got = c.Classify("A*s/m")
	assert.Equal(t, "electrical", got.Domain)
	assert.Equal(t, "compound", got.Quantity)

	// Fractional exponents never match the taxonomy exactly.
	got = ClassifyDimension(Dim(0, 1, 0, 0, 0, 0, 0).Pow(E(1, 2)))
	assert.Equal(t, "mechanics", got.Domain)
	assert.Equal(t, "fractional_compound", got.Quantity)
}

func TestDomains(t *testing.T) {
	domains := Domains()
	require.NotEmpty(t, domains)

	names := make(map[string]bool, len(domains))
	for _, d := range domains {
		names[d.Name] = true
		assert.NotEmpty(t, d.Label)
		assert.NotEmpty(t, d.Color)
		assert.NotEmpty(t, d.Icon)
	}
	for _, want := range []string{"mechanics", "thermodynamics", "electrical", "magnetism", "chemistry", "optics"} {
		assert.True(t, names[want], "missing domain %s", want)
	}
}
