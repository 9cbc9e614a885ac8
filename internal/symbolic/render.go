package symbolic

import (
	"math/big"
	"strings"
)

// Rendering precedence levels, loosest to tightest.
const (
	precAdd = iota
	precMul
	precPow
	precAtom
)

func precedence(e Expr) int {
	switch n := e.(type) {
	case Add:
		return precAdd
	case Mul:
		return precMul
	case Pow:
		return precPow
	case Num:
		if n.Rat.Sign() < 0 || !n.IsInt() {
			return precMul
		}

		return precAtom
	}

	return precAtom
}

func renderChild(e Expr, parentPrec int) string {
	s := e.String()
	if precedence(e) < parentPrec {
		return "(" + s + ")"
	}

	return s
}

// String implementations.

func (n Num) String() string {
	if n.IsInt() {
		return n.Rat.Num().String()
	}

	// Decimal fractions render as decimals, others as p/q.
	if exact, ok := decimalString(n.Rat); ok {
		return exact
	}

	return n.Rat.Num().String() + "/" + n.Rat.Denom().String()
}

// decimalString renders rationals with 2^a*5^b denominators exactly.
func decimalString(r *big.Rat) (string, bool) {
	den := new(big.Int).Set(r.Denom())
	two := big.NewInt(2)
	five := big.NewInt(5)
	rem := new(big.Int)

	digits := 0
	for {
		if den.Cmp(big.NewInt(1)) == 0 {
			break
		}
		if new(big.Int).Mod(den, two).Sign() == 0 {
			den.Div(den, two)
			digits++
			continue
		}
		if rem.Mod(den, five); rem.Sign() == 0 {
			den.Div(den, five)
			digits++
			continue
		}

		return "", false
	}
	if digits > 12 {
		return "", false
	}

	s := r.FloatString(digits)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")

	return s, true
}

func (s Sym) String() string { return s.Name }

func (a Add) String() string {
	var b strings.Builder
	for i, t := range a.Terms {
		part := renderChild(t, precAdd)
		if i == 0 {
			b.WriteString(part)
			continue
		}
		if rest, ok := strings.CutPrefix(part, "-"); ok {
			b.WriteString(" - ")
			b.WriteString(rest)
		} else {
			b.WriteString(" + ")
			b.WriteString(part)
		}
	}

	return b.String()
}

func (m Mul) String() string {
	// A leading -1 coefficient renders as a sign.
	factors := m.Factors
	prefix := ""
	if n, ok := factors[0].(Num); ok && n.Rat.Cmp(big.NewRat(-1, 1)) == 0 && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}

	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, renderChild(f, precMul))
	}

	return prefix + strings.Join(parts, "*")
}

func (p Pow) String() string {
	base := p.Base.String()
	if precedence(p.Base) <= precPow {
		base = "(" + base + ")"
	}

	exp := p.Exp.String()
	if precedence(p.Exp) < precAtom {
		exp = "(" + exp + ")"
	}

	return base + "^" + exp
}

func (c Call) String() string {
	return c.Fn + "(" + c.Arg.String() + ")"
}

// LaTeX implementations.

func (n Num) LaTeX() string {
	if n.IsInt() {
		return n.Rat.Num().String()
	}
	if exact, ok := decimalString(n.Rat); ok {
		return exact
	}

	num := new(big.Int).Abs(n.Rat.Num()).String()
	frac := "\\frac{" + num + "}{" + n.Rat.Denom().String() + "}"
	if n.Rat.Sign() < 0 {
		return "-" + frac
	}

	return frac
}

// latexSymbols maps plain names onto LaTeX commands.
var latexSymbols = map[string]string{
	"pi":      "\\pi",
	"alpha":   "\\alpha",
	"beta":    "\\beta",
	"gamma":   "\\gamma",
	"delta":   "\\delta",
	"epsilon": "\\epsilon",
	"theta":   "\\theta",
	"lambda":  "\\lambda",
	"mu":      "\\mu",
	"rho":     "\\rho",
	"sigma":   "\\sigma",
	"tau":     "\\tau",
	"phi":     "\\phi",
	"omega":   "\\omega",
}

func (s Sym) LaTeX() string {
	if cmd, ok := latexSymbols[s.Name]; ok {
		return cmd
	}

	// Subscripted names like T_0 render with braced subscripts.
	if base, sub, ok := strings.Cut(s.Name, "_"); ok && base != "" && sub != "" {
		basePart := base
		if cmd, found := latexSymbols[base]; found {
			basePart = cmd
		}

		return basePart + "_{" + sub + "}"
	}

	return s.Name
}

func (a Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.Terms {
		part := t.LaTeX()
		if precedence(t) < precAdd {
			part = "\\left(" + part + "\\right)"
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		if rest, ok := strings.CutPrefix(part, "-"); ok {
			b.WriteString(" - ")
			b.WriteString(rest)
		} else {
			b.WriteString(" + ")
			b.WriteString(part)
		}
	}

	return b.String()
}

func (m Mul) LaTeX() string {
	// Negative powers render the product as a fraction.
	num := []Expr{}
	den := []Expr{}
	for _, f := range m.Factors {
		if p, ok := f.(Pow); ok {
			if e, isNum := p.Exp.(Num); isNum && e.Rat.Sign() < 0 {
				den = append(den, PowOf(p.Base, Num{Rat: new(big.Rat).Neg(e.Rat)}))
				continue
			}
		}
		num = append(num, f)
	}

	if len(den) > 0 {
		top := "1"
		if len(num) > 0 {
			top = Mul{Factors: num}.latexProduct()
		}

		return "\\frac{" + top + "}{" + Mul{Factors: den}.latexProduct() + "}"
	}

	return m.latexProduct()
}

func (m Mul) latexProduct() string {
	if len(m.Factors) == 1 {
		return m.Factors[0].LaTeX()
	}

	factors := m.Factors
	prefix := ""
	if n, ok := factors[0].(Num); ok && n.Rat.Cmp(big.NewRat(-1, 1)) == 0 && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}

	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		part := f.LaTeX()
		if precedence(f) < precMul {
			part = "\\left(" + part + "\\right)"
		}
		parts = append(parts, part)
	}

	return prefix + strings.Join(parts, " \\cdot ")
}

func (p Pow) LaTeX() string {
	// Half powers render as roots.
	if e, ok := p.Exp.(Num); ok && e.Rat.Cmp(big.NewRat(1, 2)) == 0 {
		return "\\sqrt{" + p.Base.LaTeX() + "}"
	}

	base := p.Base.LaTeX()
	if precedence(p.Base) <= precPow {
		base = "\\left(" + base + "\\right)"
	}

	return base + "^{" + p.Exp.LaTeX() + "}"
}

func (c Call) LaTeX() string {
	arg := c.Arg.LaTeX()

	switch c.Fn {
	case "abs":
		return "\\left|" + arg + "\\right|"
	case "exp":
		return "e^{" + arg + "}"
	case "log":
		return "\\ln\\left(" + arg + "\\right)"
	case "asin", "acos", "atan":
		return "\\arc" + c.Fn[1:] + "\\left(" + arg + "\\right)"
	}

	return "\\" + c.Fn + "\\left(" + arg + "\\right)"
}
