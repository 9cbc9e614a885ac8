package symbolic

// Diff implementations. Results come out of the simplifying constructors,
// so derivatives are already in normal form.

func (n Num) Diff(string) Expr { return N(0) }

func (s Sym) Diff(v string) Expr {
	if s.Name == v {
		return N(1)
	}

	return N(0)
}

func (a Add) Diff(v string) Expr {
	terms := make([]Expr, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = t.Diff(v)
	}

	return AddOf(terms...)
}

func (m Mul) Diff(v string) Expr {
	// Product rule over n factors.
	terms := make([]Expr, 0, len(m.Factors))
	for i := range m.Factors {
		factors := make([]Expr, len(m.Factors))
		copy(factors, m.Factors)
		factors[i] = m.Factors[i].Diff(v)
		terms = append(terms, MulOf(factors...))
	}

	return AddOf(terms...)
}

func (p Pow) Diff(v string) Expr {
	baseHas := ContainsSymbol(p.Base, v)
	expHas := ContainsSymbol(p.Exp, v)

	switch {
	case !baseHas && !expHas:
		return N(0)
	case baseHas && !expHas:
		// d(u^c) = c * u^(c-1) * u'
		return MulOf(p.Exp, PowOf(p.Base, AddOf(p.Exp, N(-1))), p.Base.Diff(v))
	case !baseHas && expHas:
		// d(c^u) = c^u * log(c) * u'
		return MulOf(p, CallOf("log", p.Base), p.Exp.Diff(v))
	}

	// General case: u^w = exp(w*log(u)).
	return MulOf(p, AddOf(
		MulOf(p.Exp.Diff(v), CallOf("log", p.Base)),
		MulOf(p.Exp, p.Base.Diff(v), PowOf(p.Base, N(-1))),
	))
}

func (c Call) Diff(v string) Expr {
	inner := c.Arg.Diff(v)
	if n, ok := inner.(Num); ok && n.IsZero() {
		return N(0)
	}

	var outer Expr
	switch c.Fn {
	case "sin":
		outer = CallOf("cos", c.Arg)
	case "cos":
		outer = MulOf(N(-1), CallOf("sin", c.Arg))
	case "tan":
		outer = PowOf(CallOf("cos", c.Arg), N(-2))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(c.Arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(c.Arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(c.Arg, N(2))), N(-1))
	case "sinh":
		outer = CallOf("cosh", c.Arg)
	case "cosh":
		outer = CallOf("sinh", c.Arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(CallOf("tanh", c.Arg), N(2))))
	case "exp":
		outer = c
	case "log":
		outer = PowOf(c.Arg, N(-1))
	case "abs":
		// d|u| = u/|u| * u' away from zero.
		outer = MulOf(c.Arg, PowOf(c, N(-1)))
	default:
		return N(0)
	}

	return MulOf(outer, inner)
}

// Integrate returns an antiderivative of e with respect to v, or false when
// no rule applies. Integration is rule-based: linearity, the power rule,
// and elementary functions of linear arguments.
func Integrate(e Expr, v string) (Expr, bool) {
	if !ContainsSymbol(e, v) {
		return MulOf(e, S(v)), true
	}

	switch n := e.(type) {
	case Sym:
		if n.Name == v {
			return MulOf(F(1, 2), PowOf(n, N(2))), true
		}

	case Add:
		terms := make([]Expr, len(n.Terms))
		for i, t := range n.Terms {
			anti, ok := Integrate(t, v)
			if !ok {
				return nil, false
			}
			terms[i] = anti
		}

		return AddOf(terms...), true

	case Mul:
		// Constant factors move outside the integral.
		varying := []Expr{}
		constant := []Expr{}
		for _, f := range n.Factors {
			if ContainsSymbol(f, v) {
				varying = append(varying, f)
			} else {
				constant = append(constant, f)
			}
		}
		if len(constant) > 0 {
			anti, ok := Integrate(MulOf(varying...), v)
			if !ok {
				return nil, false
			}
			constant = append(constant, anti)

			return MulOf(constant...), true
		}

	case Pow:
		if base, isSym := n.Base.(Sym); isSym && base.Name == v && !ContainsSymbol(n.Exp, v) {
			if k, ok := n.Exp.(Num); ok && k.Rat.Cmp(negOneRat) == 0 {
				return CallOf("log", CallOf("abs", base)), true
			}
			newExp := AddOf(n.Exp, N(1))

			return MulOf(PowOf(newExp, N(-1)), PowOf(base, newExp)), true
		}
		// c^x for constant c.
		if !ContainsSymbol(n.Base, v) {
			if a, _, ok := linearIn(n.Exp, v); ok {
				return MulOf(n, PowOf(MulOf(a, CallOf("log", n.Base)), N(-1))), true
			}
		}

	case Call:
		a, _, ok := linearIn(n.Arg, v)
		if !ok {
			return nil, false
		}
		scale := PowOf(a, N(-1))

		switch n.Fn {
		case "sin":
			return MulOf(N(-1), scale, CallOf("cos", n.Arg)), true
		case "cos":
			return MulOf(scale, CallOf("sin", n.Arg)), true
		case "exp":
			return MulOf(scale, n), true
		case "sinh":
			return MulOf(scale, CallOf("cosh", n.Arg)), true
		case "cosh":
			return MulOf(scale, CallOf("sinh", n.Arg)), true
		case "tan":
			return MulOf(N(-1), scale, CallOf("log", CallOf("abs", CallOf("cos", n.Arg)))), true
		case "log":
			// ∫log(ax+b) = ((ax+b)*log(ax+b) - (ax+b))/a
			u := n.Arg
			return MulOf(scale, AddOf(MulOf(u, CallOf("log", u)), MulOf(N(-1), u))), true
		}
	}

	return nil, false
}

var negOneRat = N(-1).Rat

// linearIn decomposes e as a*v + b with v-free a and b, requiring a != 0.
func linearIn(e Expr, v string) (a, b Expr, ok bool) {
	coeffs, ok := PolyCoeffs(e, v)
	if !ok || len(coeffs) > 2 {
		return nil, nil, false
	}

	b = N(0)
	if len(coeffs) >= 1 {
		b = coeffs[0]
	}
	if len(coeffs) < 2 {
		return nil, nil, false
	}
	a = coeffs[1]
	if n, isNum := a.(Num); isNum && n.IsZero() {
		return nil, nil, false
	}

	return a, b, true
}

// gauss10 holds the nodes and weights of 10-point Gauss-Legendre
// quadrature on [-1, 1].
var gauss10 = [10][2]float64{
	{-0.9739065285171717, 0.0666713443086881},
	{-0.8650633666889845, 0.1494513491505806},
	{-0.6794095682990244, 0.2190863625159820},
	{-0.4333953941292472, 0.2692667193099963},
	{-0.1488743389816312, 0.2955242247147529},
	{0.1488743389816312, 0.2955242247147529},
	{0.4333953941292472, 0.2692667193099963},
	{0.6794095682990244, 0.2190863625159820},
	{0.8650633666889845, 0.1494513491505806},
	{0.9739065285171717, 0.0666713443086881},
}

// DefiniteIntegrate evaluates the definite integral of e over [lo, hi].
// A symbolic antiderivative is used when one exists; otherwise composite
// 10-point Gauss-Legendre quadrature over n subintervals.
func DefiniteIntegrate(e Expr, v string, lo, hi float64, n int, env map[string]float64) (float64, error) {
	if anti, ok := Integrate(e, v); ok {
		bound := func(x float64) (float64, error) {
			scoped := map[string]float64{}
			for k, val := range env {
				scoped[k] = val
			}
			scoped[v] = x

			return anti.Eval(scoped)
		}

		upper, err := bound(hi)
		if err == nil {
			lower, lerr := bound(lo)
			if lerr == nil {
				return upper - lower, nil
			}
		}
		// Fall through to quadrature when the antiderivative cannot be
		// evaluated at the endpoints.
	}

	if n < 1 {
		n = 1
	}

	scoped := map[string]float64{}
	for k, val := range env {
		scoped[k] = val
	}

	h := (hi - lo) / float64(n)
	total := 0.0
	for i := 0; i < n; i++ {
		a := lo + float64(i)*h
		mid := a + h/2
		half := h / 2
		for _, nw := range gauss10 {
			scoped[v] = mid + half*nw[0]
			y, err := e.Eval(scoped)
			if err != nil {
				return 0, err
			}
			total += half * nw[1] * y
		}
	}

	return total, nil
}
