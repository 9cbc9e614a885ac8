package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOf(t *testing.T) {
	tests := []struct {
		name string
		got  Expr
		want Expr
	}{
		{name: "constants fold", got: AddOf(N(2), N(3)), want: N(5)},
		{name: "zero drops", got: AddOf(S("x"), N(0)), want: S("x")},
		{name: "like terms collect", got: AddOf(S("x"), S("x")), want: MulOf(N(2), S("x"))},
		{name: "cancellation", got: AddOf(S("x"), MulOf(N(-1), S("x"))), want: N(0)},
		{name: "nested sums flatten", got: AddOf(AddOf(S("x"), N(1)), N(2)), want: AddOf(S("x"), N(3))},
		{name: "coefficients merge", got: AddOf(MulOf(N(2), S("x")), MulOf(N(3), S("x"))), want: MulOf(N(5), S("x"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.got.Equal(tt.want), "got %s, want %s", tt.got, tt.want)
		})
	}
}

func TestMulOf(t *testing.T) {
	tests := []struct {
		name string
		got  Expr
		want Expr
	}{
		{name: "constants fold", got: MulOf(N(2), N(3)), want: N(6)},
		{name: "zero annihilates", got: MulOf(S("x"), N(0)), want: N(0)},
		{name: "one drops", got: MulOf(S("x"), N(1)), want: S("x")},
		{name: "like bases combine", got: MulOf(S("x"), S("x")), want: PowOf(S("x"), N(2))},
		{name: "inverse cancels", got: MulOf(S("x"), PowOf(S("x"), N(-1))), want: N(1)},
		{name: "nested products flatten", got: MulOf(MulOf(N(2), S("x")), N(3)), want: MulOf(N(6), S("x"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.got.Equal(tt.want), "got %s, want %s", tt.got, tt.want)
		})
	}
}

func TestPowOf(t *testing.T) {
	assert.True(t, PowOf(S("x"), N(0)).Equal(N(1)))
	assert.True(t, PowOf(S("x"), N(1)).Equal(S("x")))
	assert.True(t, PowOf(N(2), N(10)).Equal(N(1024)))
	assert.True(t, PowOf(N(2), N(-2)).Equal(F(1, 4)))
	assert.True(t, PowOf(PowOf(S("x"), N(2)), N(3)).Equal(PowOf(S("x"), N(6))))
	assert.True(t, PowOf(MulOf(S("a"), S("b")), N(2)).Equal(MulOf(PowOf(S("a"), N(2)), PowOf(S("b"), N(2)))))

	// Fractional powers of numbers stay symbolic unless the base is an
	// exact perfect power.
	half := PowOf(N(2), F(1, 2))
	_, isPow := half.(Pow)
	assert.True(t, isPow)
}

func TestPowOf_PerfectPowerRoots(t *testing.T) {
	tests := []struct {
		name string
		got  Expr
		want Expr
	}{
		{name: "square root of 16", got: PowOf(N(16), F(1, 2)), want: N(4)},
		{name: "cube root of -8", got: PowOf(N(-8), F(1, 3)), want: N(-2)},
		{name: "8 to the 2/3", got: PowOf(N(8), F(2, 3)), want: N(4)},
		{name: "rational base", got: PowOf(F(9, 4), F(1, 2)), want: F(3, 2)},
		{name: "negative exponent", got: PowOf(N(4), F(-1, 2)), want: F(1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.got.Equal(tt.want), "got %s, want %s", tt.got, tt.want)
		})
	}

	_, stillPow := PowOf(N(12), F(1, 2)).(Pow)
	assert.True(t, stillPow)
	_, evenRootOfNegative := PowOf(N(-4), F(1, 2)).(Pow)
	assert.True(t, evenRootOfNegative)
}

func TestCallOf(t *testing.T) {
	assert.True(t, CallOf("sin", N(0)).Equal(N(0)))
	assert.True(t, CallOf("cos", N(0)).Equal(N(1)))
	assert.True(t, CallOf("exp", N(0)).Equal(N(1)))
	assert.True(t, CallOf("log", N(1)).Equal(N(0)))

	kept, isCall := CallOf("sin", S("x")).(Call)
	require.True(t, isCall)
	assert.Equal(t, "sin", kept.Fn)
}

func TestExpand(t *testing.T) {
	// (x + 1)*(x - 1) expands to x^2 - 1.
	got := Expand(MulOf(AddOf(S("x"), N(1)), AddOf(S("x"), N(-1))))
	want := AddOf(PowOf(S("x"), N(2)), N(-1))
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)

	// (x + 1)^2 expands to x^2 + 2x + 1.
	got = Expand(PowOf(AddOf(S("x"), N(1)), N(2)))
	want = AddOf(PowOf(S("x"), N(2)), MulOf(N(2), S("x")), N(1))
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
}

func TestStringRendering(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{name: "sum with negative term", expr: AddOf(S("x"), MulOf(N(-2), S("y"))), want: "x - 2*y"},
		{name: "constant leads sum", expr: AddOf(S("x"), N(3)), want: "3 + x"},
		{name: "negated symbol", expr: MulOf(N(-1), S("x")), want: "-x"},
		{name: "power", expr: PowOf(S("x"), N(2)), want: "x^2"},
		{name: "power of sum", expr: PowOf(AddOf(S("x"), N(1)), N(2)), want: "(1 + x)^2"},
		{name: "negative exponent", expr: PowOf(S("x"), N(-1)), want: "x^(-1)"},
		{name: "fraction", expr: F(1, 3), want: "1/3"},
		{name: "decimal", expr: F(1, 4), want: "0.25"},
		{name: "call", expr: CallOf("sin", MulOf(N(2), S("x"))), want: "sin(2*x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestLaTeXRendering(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{name: "fraction", expr: F(1, 3), want: `\frac{1}{3}`},
		{name: "division renders as frac", expr: MulOf(S("a"), PowOf(S("b"), N(-1))), want: `\frac{a}{b}`},
		{name: "greek symbol", expr: S("omega"), want: `\omega`},
		{name: "subscript", expr: S("T_0"), want: `T_{0}`},
		{name: "sqrt", expr: PowOf(S("x"), F(1, 2)), want: `\sqrt{x}`},
		{name: "abs", expr: Call{Fn: "abs", Arg: S("x")}, want: `\left|x\right|`},
		{name: "log is ln", expr: Call{Fn: "log", Arg: S("x")}, want: `\ln\left(x\right)`},
		{name: "power", expr: PowOf(S("x"), N(2)), want: `x^{2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.LaTeX())
		})
	}
}
