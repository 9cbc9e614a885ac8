package symbolic

import (
	"math"
	"math/big"
)

// The constructors below normalize as they build: nested sums and products
// are flattened, numeric parts folded exactly, like terms and like factors
// combined. All engine code builds expressions through them, so every Expr
// in flight is already in normal form.

// AddOf builds the simplified sum of the given terms.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if a, ok := t.(Add); ok {
			flat = append(flat, a.Terms...)
		} else {
			flat = append(flat, t)
		}
	}

	constant := new(big.Rat)
	coeffs := map[string]*big.Rat{}
	parts := map[string]Expr{}
	order := []string{}

	for _, t := range flat {
		coeff, rest := splitCoeff(t)
		if rest == nil {
			constant.Add(constant, coeff)
			continue
		}

		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			coeffs[key] = new(big.Rat)
			parts[key] = rest
			order = append(order, key)
		}
		coeffs[key].Add(coeffs[key], coeff)
	}

	out := make([]Expr, 0, len(order)+1)
	if constant.Sign() != 0 {
		out = append(out, Num{Rat: constant})
	}
	for _, key := range order {
		c := coeffs[key]
		if c.Sign() == 0 {
			continue
		}
		if c.Cmp(one) == 0 {
			out = append(out, parts[key])
		} else {
			out = append(out, mulNoCollect(Num{Rat: c}, parts[key]))
		}
	}

	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}

	sortExprs(out)

	return Add{Terms: out}
}

// splitCoeff separates the numeric coefficient of a term from its symbolic
// rest. A pure number yields (number, nil).
func splitCoeff(e Expr) (*big.Rat, Expr) {
	switch n := e.(type) {
	case Num:
		return n.Rat, nil
	case Mul:
		coeff := big.NewRat(1, 1)
		rest := make([]Expr, 0, len(n.Factors))
		for _, f := range n.Factors {
			if num, ok := f.(Num); ok {
				coeff = new(big.Rat).Mul(coeff, num.Rat)
			} else {
				rest = append(rest, f)
			}
		}
		switch len(rest) {
		case 0:
			return coeff, nil
		case 1:
			return coeff, rest[0]
		}

		return coeff, Mul{Factors: rest}
	}

	return one, e
}

// mulNoCollect pairs a coefficient with an already-normalized part without
// re-running factor collection.
func mulNoCollect(coeff Num, part Expr) Expr {
	if m, ok := part.(Mul); ok {
		factors := make([]Expr, 0, len(m.Factors)+1)
		factors = append(factors, coeff)
		factors = append(factors, m.Factors...)

		return Mul{Factors: factors}
	}

	return Mul{Factors: []Expr{coeff, part}}
}

// MulOf builds the simplified product of the given factors.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if m, ok := f.(Mul); ok {
			flat = append(flat, m.Factors...)
		} else {
			flat = append(flat, f)
		}
	}

	constant := big.NewRat(1, 1)
	exps := map[string][]Expr{}
	bases := map[string]Expr{}
	order := []string{}

	for _, f := range flat {
		if num, ok := f.(Num); ok {
			if num.IsZero() {
				return N(0)
			}
			constant = new(big.Rat).Mul(constant, num.Rat)
			continue
		}

		base, exp := splitPow(f)
		key := base.String()
		if _, seen := exps[key]; !seen {
			bases[key] = base
			order = append(order, key)
		}
		exps[key] = append(exps[key], exp)
	}

	out := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		combined := PowOf(bases[key], AddOf(exps[key]...))
		if num, ok := combined.(Num); ok {
			if num.IsZero() {
				return N(0)
			}
			constant = new(big.Rat).Mul(constant, num.Rat)
			continue
		}
		out = append(out, combined)
	}

	if constant.Sign() == 0 {
		return N(0)
	}

	switch {
	case len(out) == 0:
		return Num{Rat: constant}
	case constant.Cmp(one) != 0:
		out = append(out, Num{Rat: constant})
	}

	if len(out) == 1 {
		return out[0]
	}

	sortExprs(out)

	return Mul{Factors: out}
}

// splitPow separates a factor into base and exponent.
func splitPow(e Expr) (Expr, Expr) {
	if p, ok := e.(Pow); ok {
		return p.Base, p.Exp
	}

	return e, N(1)
}

// maxFoldExp bounds exact integer exponentiation of rationals.
const maxFoldExp = 64

// PowOf builds the simplified power base^exp.
func PowOf(base, exp Expr) Expr {
	if n, ok := exp.(Num); ok {
		if n.IsZero() {
			return N(1)
		}
		if n.IsOne() {
			return base
		}

		if b, ok := base.(Num); ok {
			if b.IsZero() {
				return N(0)
			}
			if b.IsOne() {
				return N(1)
			}
			if n.IsInt() && n.Rat.Num().IsInt64() {
				k := n.Rat.Num().Int64()
				if k > -maxFoldExp && k < maxFoldExp {
					return Num{Rat: ratPow(b.Rat, k)}
				}
			}
			// Rational exponents fold when the base is an exact perfect
			// power: 16^(1/2) is 4, (-8)^(1/3) is -2. Inexact roots like
			// 2^(1/2) stay symbolic.
			if !n.IsInt() && n.Rat.Num().IsInt64() && n.Rat.Denom().IsInt64() {
				if folded, ok := ratRoot(b.Rat, n.Rat.Num().Int64(), n.Rat.Denom().Int64()); ok {
					return Num{Rat: folded}
				}
			}
		}

		// (x^a)^n folds for integer n.
		if p, ok := base.(Pow); ok && n.IsInt() {
			return PowOf(p.Base, MulOf(p.Exp, n))
		}

		// (a*b)^n distributes for integer n.
		if m, ok := base.(Mul); ok && n.IsInt() {
			factors := make([]Expr, len(m.Factors))
			for i, f := range m.Factors {
				factors[i] = PowOf(f, n)
			}

			return MulOf(factors...)
		}
	}

	return Pow{Base: base, Exp: exp}
}

func ratPow(r *big.Rat, k int64) *big.Rat {
	neg := k < 0
	if neg {
		k = -k
	}

	out := big.NewRat(1, 1)
	acc := new(big.Rat).Set(r)
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			out.Mul(out, acc)
		}
		acc.Mul(acc, acc)
	}
	if neg {
		out.Inv(out)
	}

	return out
}

// ratRoot computes r^(p/q) exactly when numerator and denominator of r are
// both perfect q-th powers. Negative bases fold only for odd q.
func ratRoot(r *big.Rat, p, q int64) (*big.Rat, bool) {
	if q <= 1 || q > 8 {
		return nil, false
	}
	if r.Sign() < 0 && q%2 == 0 {
		return nil, false
	}

	num, ok := intRoot(r.Num(), q)
	if !ok {
		return nil, false
	}
	den, ok := intRoot(r.Denom(), q)
	if !ok {
		return nil, false
	}

	return ratPow(new(big.Rat).SetFrac(num, den), p), true
}

// intRoot returns the exact q-th root of x, or false when x is not a
// perfect q-th power.
func intRoot(x *big.Int, q int64) (*big.Int, bool) {
	neg := x.Sign() < 0
	if neg && q%2 == 0 {
		return nil, false
	}

	abs := new(big.Int).Abs(x)
	if !abs.IsInt64() {
		return nil, false
	}

	guess := int64(math.Round(math.Pow(float64(abs.Int64()), 1/float64(q))))
	for _, cand := range []int64{guess - 1, guess, guess + 1} {
		if cand < 0 {
			continue
		}
		if new(big.Int).Exp(big.NewInt(cand), big.NewInt(q), nil).Cmp(abs) == 0 {
			root := big.NewInt(cand)
			if neg {
				root.Neg(root)
			}

			return root, true
		}
	}

	return nil, false
}

// CallOf builds a function application, folding the handful of exact
// special values.
func CallOf(fn string, arg Expr) Expr {
	if n, ok := arg.(Num); ok && n.IsZero() {
		switch fn {
		case "sin", "tan", "sinh", "tanh", "asin", "atan", "abs":
			return N(0)
		case "cos", "cosh", "exp":
			return N(1)
		}
	}
	if n, ok := arg.(Num); ok && n.IsOne() && fn == "log" {
		return N(0)
	}

	return Call{Fn: fn, Arg: arg}
}

// Simplify rebuilds an expression bottom-up through the constructors.
// Useful after manual tree construction; constructor output is a fixpoint.
func Simplify(e Expr) Expr {
	switch n := e.(type) {
	case Add:
		terms := make([]Expr, len(n.Terms))
		for i, t := range n.Terms {
			terms[i] = Simplify(t)
		}

		return AddOf(terms...)
	case Mul:
		factors := make([]Expr, len(n.Factors))
		for i, f := range n.Factors {
			factors[i] = Simplify(f)
		}

		return MulOf(factors...)
	case Pow:
		return PowOf(Simplify(n.Base), Simplify(n.Exp))
	case Call:
		return CallOf(n.Fn, Simplify(n.Arg))
	}

	return e
}

// Expand distributes products over sums and expands small integer powers
// of sums. Polynomial extraction runs on expanded form.
func Expand(e Expr) Expr {
	switch n := e.(type) {
	case Add:
		terms := make([]Expr, len(n.Terms))
		for i, t := range n.Terms {
			terms[i] = Expand(t)
		}

		return AddOf(terms...)
	case Mul:
		factors := make([]Expr, len(n.Factors))
		for i, f := range n.Factors {
			factors[i] = Expand(f)
		}

		return distribute(factors)
	case Pow:
		base := Expand(n.Base)
		if num, ok := n.Exp.(Num); ok && num.IsInt() && num.Rat.Num().IsInt64() {
			k := num.Rat.Num().Int64()
			if k >= 2 && k <= 8 {
				if _, isAdd := base.(Add); isAdd {
					factors := make([]Expr, k)
					for i := range factors {
						factors[i] = base
					}

					return distribute(factors)
				}
			}
		}

		return PowOf(base, n.Exp)
	case Call:
		return CallOf(n.Fn, Expand(n.Arg))
	}

	return e
}

// distribute multiplies out a factor list, expanding across any Add factors.
func distribute(factors []Expr) Expr {
	acc := []Expr{N(1)}
	for _, f := range factors {
		var addends []Expr
		if a, ok := f.(Add); ok {
			addends = a.Terms
		} else {
			addends = []Expr{f}
		}

		next := make([]Expr, 0, len(acc)*len(addends))
		for _, left := range acc {
			for _, right := range addends {
				next = append(next, MulOf(left, right))
			}
		}
		acc = next
	}

	return AddOf(acc...)
}
