package symbolic

// PolyCoeffs extracts the coefficients of e viewed as a polynomial in v,
// ordered from degree zero upward. Coefficients may contain other symbols.
// Extraction fails when v occurs non-polynomially (inside a function call,
// in an exponent, or under a fractional power).
func PolyCoeffs(e Expr, v string) ([]Expr, bool) {
	expanded := Expand(e)

	var terms []Expr
	if a, ok := expanded.(Add); ok {
		terms = a.Terms
	} else {
		terms = []Expr{expanded}
	}

	coeffs := map[int][]Expr{}
	maxDeg := 0

	for _, term := range terms {
		deg, rest, ok := termDegree(term, v)
		if !ok {
			return nil, false
		}
		coeffs[deg] = append(coeffs[deg], rest)
		if deg > maxDeg {
			maxDeg = deg
		}
	}

	out := make([]Expr, maxDeg+1)
	for d := 0; d <= maxDeg; d++ {
		if parts, ok := coeffs[d]; ok {
			out[d] = AddOf(parts...)
		} else {
			out[d] = N(0)
		}
	}

	return out, true
}

// termDegree splits a single term into its degree in v and the v-free rest.
func termDegree(term Expr, v string) (int, Expr, bool) {
	var factors []Expr
	if m, ok := term.(Mul); ok {
		factors = m.Factors
	} else {
		factors = []Expr{term}
	}

	deg := 0
	rest := make([]Expr, 0, len(factors))

	for _, f := range factors {
		if !ContainsSymbol(f, v) {
			rest = append(rest, f)
			continue
		}

		switch n := f.(type) {
		case Sym:
			deg++
		case Pow:
			base, isSym := n.Base.(Sym)
			exp, isNum := n.Exp.(Num)
			if !isSym || base.Name != v || !isNum || !exp.IsInt() {
				return 0, nil, false
			}
			if !exp.Rat.Num().IsInt64() {
				return 0, nil, false
			}
			k := exp.Rat.Num().Int64()
			if k < 0 || k > 1<<20 {
				return 0, nil, false
			}
			deg += int(k)
		default:
			return 0, nil, false
		}
	}

	return deg, MulOf(rest...), true
}

// Degree returns the polynomial degree of e in v, or -1 when e is not
// polynomial in v.
func Degree(e Expr, v string) int {
	coeffs, ok := PolyCoeffs(e, v)
	if !ok {
		return -1
	}

	for d := len(coeffs) - 1; d >= 0; d-- {
		if n, isNum := coeffs[d].(Num); isNum && n.IsZero() {
			continue
		}

		return d
	}

	return 0
}
