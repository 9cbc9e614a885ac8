// Package symbolic implements the expression engine: an immutable expression
// tree over exact rationals, a text parser for normalized algebraic input,
// differentiation, rule-based integration, and equation solving.
package symbolic

import (
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

// Expr is an immutable symbolic expression node.
type Expr interface {
	// String renders the expression as plain algebraic text.
	String() string

	// LaTeX renders the expression as LaTeX.
	LaTeX() string

	// Diff returns the derivative with respect to the named symbol.
	Diff(v string) Expr

	// Sub substitutes expressions for symbols.
	Sub(bindings map[string]Expr) Expr

	// Eval computes a float64 value with the given environment.
	Eval(env map[string]float64) (float64, error)

	// Equal reports structural equality.
	Equal(o Expr) bool
}

// Num is an exact rational constant.
type Num struct {
	Rat *big.Rat
}

// Sym is a named symbol. Obtain instances through a Context so that equal
// names share one identity per engine.
type Sym struct {
	Name string
}

// Add is a flattened n-ary sum.
type Add struct {
	Terms []Expr
}

// Mul is a flattened n-ary product.
type Mul struct {
	Factors []Expr
}

// Pow is base^exp. Roots are powers with fractional exponents.
type Pow struct {
	Base Expr
	Exp  Expr
}

// Call is an elementary function application with a single argument.
type Call struct {
	Fn  string
	Arg Expr
}

// N builds an integer constant.
func N(i int64) Num {
	return Num{Rat: big.NewRat(i, 1)}
}

// F builds an exact fraction p/q.
func F(p, q int64) Num {
	return Num{Rat: big.NewRat(p, q)}
}

// NFloat builds a constant from a finite float64.
func NFloat(f float64) Num {
	r := new(big.Rat)
	r.SetFloat64(f)

	return Num{Rat: r}
}

// S builds a free-standing symbol. Prefer Context.Symbol in engine code.
func S(name string) Sym {
	return Sym{Name: name}
}

var (
	zero = big.NewRat(0, 1)
	one  = big.NewRat(1, 1)
)

// IsZero reports whether the constant is exactly zero.
func (n Num) IsZero() bool { return n.Rat.Sign() == 0 }

// IsOne reports whether the constant is exactly one.
func (n Num) IsOne() bool { return n.Rat.Cmp(one) == 0 }

// IsInt reports whether the constant is an integer.
func (n Num) IsInt() bool { return n.Rat.IsInt() }

// Float returns the constant as a float64.
func (n Num) Float() float64 {
	f, _ := n.Rat.Float64()
	return f
}

// Eval implementations.

func (n Num) Eval(map[string]float64) (float64, error) {
	return n.Float(), nil
}

func (s Sym) Eval(env map[string]float64) (float64, error) {
	if v, ok := env[s.Name]; ok {
		return v, nil
	}
	if s.Name == "pi" {
		return math.Pi, nil
	}

	return 0, domain.NewUndefinedSymbolError([]string{s.Name})
}

func (a Add) Eval(env map[string]float64) (float64, error) {
	sum := 0.0
	for _, t := range a.Terms {
		v, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		sum += v
	}

	return sum, nil
}

func (m Mul) Eval(env map[string]float64) (float64, error) {
	prod := 1.0
	for _, f := range m.Factors {
		v, err := f.Eval(env)
		if err != nil {
			return 0, err
		}
		prod *= v
	}

	return prod, nil
}

func (p Pow) Eval(env map[string]float64) (float64, error) {
	b, err := p.Base.Eval(env)
	if err != nil {
		return 0, err
	}

	e, err := p.Exp.Eval(env)
	if err != nil {
		return 0, err
	}

	return math.Pow(b, e), nil
}

func (c Call) Eval(env map[string]float64) (float64, error) {
	arg, err := c.Arg.Eval(env)
	if err != nil {
		return 0, err
	}

	switch c.Fn {
	case "sin":
		return math.Sin(arg), nil
	case "cos":
		return math.Cos(arg), nil
	case "tan":
		return math.Tan(arg), nil
	case "asin":
		return math.Asin(arg), nil
	case "acos":
		return math.Acos(arg), nil
	case "atan":
		return math.Atan(arg), nil
	case "sinh":
		return math.Sinh(arg), nil
	case "cosh":
		return math.Cosh(arg), nil
	case "tanh":
		return math.Tanh(arg), nil
	case "exp":
		return math.Exp(arg), nil
	case "log":
		return math.Log(arg), nil
	case "abs":
		return math.Abs(arg), nil
	}

	return 0, domain.NewParseError(c.Fn, 0, "unknown function")
}

// Sub implementations. Substitution rebuilds through the simplifying
// constructors so the result is already normalized.

func (n Num) Sub(map[string]Expr) Expr { return n }

func (s Sym) Sub(bindings map[string]Expr) Expr {
	if e, ok := bindings[s.Name]; ok {
		return e
	}

	return s
}

func (a Add) Sub(bindings map[string]Expr) Expr {
	terms := make([]Expr, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = t.Sub(bindings)
	}

	return AddOf(terms...)
}

func (m Mul) Sub(bindings map[string]Expr) Expr {
	factors := make([]Expr, len(m.Factors))
	for i, f := range m.Factors {
		factors[i] = f.Sub(bindings)
	}

	return MulOf(factors...)
}

func (p Pow) Sub(bindings map[string]Expr) Expr {
	return PowOf(p.Base.Sub(bindings), p.Exp.Sub(bindings))
}

func (c Call) Sub(bindings map[string]Expr) Expr {
	return CallOf(c.Fn, c.Arg.Sub(bindings))
}

// Equal implementations.

func (n Num) Equal(o Expr) bool {
	on, ok := o.(Num)
	return ok && n.Rat.Cmp(on.Rat) == 0
}

func (s Sym) Equal(o Expr) bool {
	os, ok := o.(Sym)
	return ok && s.Name == os.Name
}

func (a Add) Equal(o Expr) bool {
	oa, ok := o.(Add)
	if !ok || len(a.Terms) != len(oa.Terms) {
		return false
	}
	for i := range a.Terms {
		if !a.Terms[i].Equal(oa.Terms[i]) {
			return false
		}
	}

	return true
}

func (m Mul) Equal(o Expr) bool {
	om, ok := o.(Mul)
	if !ok || len(m.Factors) != len(om.Factors) {
		return false
	}
	for i := range m.Factors {
		if !m.Factors[i].Equal(om.Factors[i]) {
			return false
		}
	}

	return true
}

func (p Pow) Equal(o Expr) bool {
	op, ok := o.(Pow)
	return ok && p.Base.Equal(op.Base) && p.Exp.Equal(op.Exp)
}

func (c Call) Equal(o Expr) bool {
	oc, ok := o.(Call)
	return ok && c.Fn == oc.Fn && c.Arg.Equal(oc.Arg)
}

// FreeSymbols returns the sorted distinct symbol names in e. The constant
// pi is not reported as free.
func FreeSymbols(e Expr) []string {
	set := map[string]struct{}{}
	collectSymbols(e, set)
	delete(set, "pi")

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func collectSymbols(e Expr, set map[string]struct{}) {
	switch n := e.(type) {
	case Sym:
		set[n.Name] = struct{}{}
	case Add:
		for _, t := range n.Terms {
			collectSymbols(t, set)
		}
	case Mul:
		for _, f := range n.Factors {
			collectSymbols(f, set)
		}
	case Pow:
		collectSymbols(n.Base, set)
		collectSymbols(n.Exp, set)
	case Call:
		collectSymbols(n.Arg, set)
	}
}

// ContainsSymbol reports whether name occurs anywhere in e.
func ContainsSymbol(e Expr, name string) bool {
	switch n := e.(type) {
	case Sym:
		return n.Name == name
	case Add:
		for _, t := range n.Terms {
			if ContainsSymbol(t, name) {
				return true
			}
		}
	case Mul:
		for _, f := range n.Factors {
			if ContainsSymbol(f, name) {
				return true
			}
		}
	case Pow:
		return ContainsSymbol(n.Base, name) || ContainsSymbol(n.Exp, name)
	case Call:
		return ContainsSymbol(n.Arg, name)
	}

	return false
}

// sortKey is the canonical ordering key used by the constructors. Numbers
// sort first so products render as "3*x" and sums as "c + x"; a product
// keys on its symbolic part so "x - 2*y" keeps x before y.
func sortKey(e Expr) string {
	switch n := e.(type) {
	case Num:
		return "\x00"
	case Mul:
		if _, ok := n.Factors[0].(Num); ok && len(n.Factors) > 1 {
			return Mul{Factors: n.Factors[1:]}.String()
		}
	}

	return e.String()
}

func sortExprs(es []Expr) {
	sort.SliceStable(es, func(i, j int) bool {
		return strings.Compare(sortKey(es[i]), sortKey(es[j])) < 0
	})
}
