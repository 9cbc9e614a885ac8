// Package units implements dimensional analysis: a unit registry with SI
// prefixes, quantity arithmetic over seven base dimensions, engineering
// domain classification, and dimensional validation of equations.
package units

import (
	"fmt"
	"sort"
	"strings"
)

// Base dimension indices: mass, length, time, current, temperature,
// amount of substance, luminosity.
const (
	Mass = iota
	Length
	Time
	Current
	Temperature
	Substance
	Luminosity
	numDims
)

var dimNames = [numDims]string{
	"mass", "length", "time", "current", "temperature", "substance", "luminosity",
}

// Exp is a small exact rational exponent. Fractional exponents appear in
// quantities like thermal response coefficients (m^0.5).
type Exp struct {
	N int64
	D int64
}

// E builds a normalized rational exponent.
func E(n, d int64) Exp {
	if d == 0 {
		d = 1
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs64(n), d)
	if g > 1 {
		n /= g
		d /= g
	}

	return Exp{N: n, D: d}
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}

	return x
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}

	return a
}

// norm maps the zero value {0, 0} onto 0/1 so arithmetic on Exps taken
// from a zero-valued Dimension stays exact.
func (e Exp) norm() Exp {
	if e.D == 0 {
		e.D = 1
	}

	return e
}

// Add returns the sum of two exponents.
func (e Exp) Add(o Exp) Exp {
	e, o = e.norm(), o.norm()

	return E(e.N*o.D+o.N*e.D, e.D*o.D)
}

// Mul returns the product of two exponents.
func (e Exp) Mul(o Exp) Exp {
	e, o = e.norm(), o.norm()

	return E(e.N*o.N, e.D*o.D)
}

// Neg returns the negated exponent.
func (e Exp) Neg() Exp { return E(-e.N, e.norm().D) }

// IsZero reports whether the exponent is zero.
func (e Exp) IsZero() bool { return e.N == 0 }

// IsInt reports whether the exponent is integral.
func (e Exp) IsInt() bool { return e.norm().D == 1 }

// Float returns the exponent as a float64.
func (e Exp) Float() float64 {
	e = e.norm()

	return float64(e.N) / float64(e.D)
}

// String renders "2", "-1" or "1/2".
func (e Exp) String() string {
	if e.IsInt() {
		return fmt.Sprintf("%d", e.N)
	}

	return fmt.Sprintf("%d/%d", e.N, e.D)
}

// Dimension is a vector of base-dimension exponents.
type Dimension [numDims]Exp

// Dimensionless is the zero dimension vector.
var Dimensionless = Dimension{}

// Dim builds an integral dimension vector in base order.
func Dim(mass, length, time, current, temperature, substance, luminosity int64) Dimension {
	return Dimension{
		E(mass, 1), E(length, 1), E(time, 1), E(current, 1),
		E(temperature, 1), E(substance, 1), E(luminosity, 1),
	}
}

// Mul returns the dimension of a product.
func (d Dimension) Mul(o Dimension) Dimension {
	var out Dimension
	for i := range d {
		out[i] = d[i].Add(o[i])
	}

	return out
}

// Div returns the dimension of a quotient.
func (d Dimension) Div(o Dimension) Dimension {
	var out Dimension
	for i := range d {
		out[i] = d[i].Add(o[i].Neg())
	}

	return out
}

// Pow returns the dimension raised to a rational exponent.
func (d Dimension) Pow(e Exp) Dimension {
	var out Dimension
	for i := range d {
		out[i] = d[i].Mul(e)
	}

	return out
}

// IsDimensionless reports whether every exponent is zero.
func (d Dimension) IsDimensionless() bool {
	for _, e := range d {
		if !e.IsZero() {
			return false
		}
	}

	return true
}

// Ints returns the exponents as integers, or false when any exponent is
// fractional. Fractional vectors cannot match the integer-keyed taxonomy.
func (d Dimension) Ints() ([numDims]int64, bool) {
	var out [numDims]int64
	for i, e := range d {
		if !e.IsInt() {
			return out, false
		}
		out[i] = e.N
	}

	return out, true
}

// Floats returns the exponents as float64 in base order.
func (d Dimension) Floats() []float64 {
	out := make([]float64, numDims)
	for i, e := range d {
		out[i] = e.Float()
	}

	return out
}

// Equal reports exact equality of dimension vectors. Exponents compare
// normalized, so a zero-valued vector equals a computed zero vector.
func (d Dimension) Equal(o Dimension) bool {
	for i := range d {
		if d[i].norm() != o[i].norm() {
			return false
		}
	}

	return true
}

// String renders the dimensions in readable form, names sorted
// alphabetically: "length × time^-2", or "dimensionless".
func (d Dimension) String() string {
	type part struct {
		name string
		exp  Exp
	}

	parts := []part{}
	for i, e := range d {
		if !e.IsZero() {
			parts = append(parts, part{name: dimNames[i], exp: e})
		}
	}
	if len(parts) == 0 {
		return "dimensionless"
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].name < parts[j].name })

	rendered := make([]string, len(parts))
	for i, p := range parts {
		if p.exp.IsInt() && p.exp.N == 1 {
			rendered[i] = p.name
		} else {
			rendered[i] = p.name + "^" + p.exp.String()
		}
	}

	return strings.Join(rendered, " × ")
}

// Map returns the nonzero exponents keyed by dimension name.
func (d Dimension) Map() map[string]float64 {
	out := map[string]float64{}
	for i, e := range d {
		if !e.IsZero() {
			out[dimNames[i]] = e.Float()
		}
	}

	return out
}
