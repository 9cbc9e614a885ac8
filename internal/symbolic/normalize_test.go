package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain passthrough", input: "x + 2*y", want: "x + 2*y"},
		{name: "frac", input: `\frac{a}{b}`, want: "(a)/(b)"},
		{name: "nested frac", input: `\frac{\frac{a}{b}}{c}`, want: "((a)/(b))/(c)"},
		{name: "frac with caret brace numerator", input: `\frac{v^{2}}{r}`, want: "(v^(2))/(r)"},
		{name: "caret brace", input: `x^{2}`, want: "x^(2)"},
		{name: "subscript brace", input: `T_{0}`, want: "T_0"},
		{name: "function brace", input: `\sin{x}`, want: "sin(x)"},
		{name: "cdot and times", input: `a \cdot b \times c`, want: "a * b * c"},
		{name: "left right stripped", input: `\left(x + 1\right)`, want: "(x + 1)"},
		{name: "pi", input: `2\pi r`, want: "2pi r"},
		{name: "sum stripped", input: `\sum_{i}^{n} x`, want: "x"},
		{name: "unknown command stripped", input: `\alpha + x`, want: "+ x"},
		{name: "stray braces become parens", input: `{x + 1}`, want: "(x + 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestSplitEquation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lhs   string
		rhs   string
	}{
		{name: "equality", input: "y = x + 1", lhs: "y", rhs: "x + 1"},
		{name: "assignment wins", input: "y := x = 1", lhs: "y", rhs: "x = 1"},
		{name: "bare expression", input: "x**2 - 4", lhs: "x**2 - 4", rhs: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lhs, rhs := SplitEquation(tt.input)
			assert.Equal(t, tt.lhs, lhs)
			assert.Equal(t, tt.rhs, rhs)
		})
	}
}

func TestScanIdentifiers(t *testing.T) {
	got := ScanIdentifiers("sin(omega*t) + x_0 - pi")
	assert.Equal(t, []string{"omega", "t", "x_0"}, got)
}
