package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
	"github.com/Mnehmos/provecalc-engine/internal/symbolic"
)

// Unit is a named unit with its SI scale factor and dimensions. Offset is
// nonzero only for affine temperature scales.
type Unit struct {
	Name   string
	Symbol string
	Factor float64
	Offset float64
	Dim    Dimension
}

// Quantity is a value reduced to SI base units.
type Quantity struct {
	Value float64
	Dim   Dimension
}

// DerivedUnit is an SI derived unit keyed by its integral dimension vector.
type DerivedUnit struct {
	Name   string
	Symbol string
}

var (
	dimForce        = Dim(1, 1, -2, 0, 0, 0, 0)
	dimPressure     = Dim(1, -1, -2, 0, 0, 0, 0)
	dimEnergy       = Dim(1, 2, -2, 0, 0, 0, 0)
	dimPower        = Dim(1, 2, -3, 0, 0, 0, 0)
	dimCharge       = Dim(0, 0, 1, 1, 0, 0, 0)
	dimVoltage      = Dim(1, 2, -3, -1, 0, 0, 0)
	dimResistance   = Dim(1, 2, -3, -2, 0, 0, 0)
	dimCapacitance  = Dim(-1, -2, 4, 2, 0, 0, 0)
	dimInductance   = Dim(1, 2, -2, -2, 0, 0, 0)
	dimMagneticFlux = Dim(1, 2, -2, -1, 0, 0, 0)
	dimMagneticFld  = Dim(1, 0, -2, -1, 0, 0, 0)
	dimConductance  = Dim(-1, -2, 3, 2, 0, 0, 0)
	dimFrequency    = Dim(0, 0, -1, 0, 0, 0, 0)
)

// siDerivedUnits maps integral dimension vectors onto named SI derived
// units for simplified display.
var siDerivedUnits = map[[numDims]int64]DerivedUnit{
	{1, 1, -2, 0, 0, 0, 0}:   {Name: "newton", Symbol: "N"},
	{1, -1, -2, 0, 0, 0, 0}:  {Name: "pascal", Symbol: "Pa"},
	{1, 2, -2, 0, 0, 0, 0}:   {Name: "joule", Symbol: "J"},
	{1, 2, -3, 0, 0, 0, 0}:   {Name: "watt", Symbol: "W"},
	{0, 0, 1, 1, 0, 0, 0}:    {Name: "coulomb", Symbol: "C"},
	{1, 2, -3, -1, 0, 0, 0}:  {Name: "volt", Symbol: "V"},
	{1, 2, -3, -2, 0, 0, 0}:  {Name: "ohm", Symbol: "Ω"},
	{-1, -2, 4, 2, 0, 0, 0}:  {Name: "farad", Symbol: "F"},
	{1, 2, -2, -2, 0, 0, 0}:  {Name: "henry", Symbol: "H"},
	{1, 2, -2, -1, 0, 0, 0}:  {Name: "weber", Symbol: "Wb"},
	{1, 0, -2, -1, 0, 0, 0}:  {Name: "tesla", Symbol: "T"},
	{-1, -2, 3, 2, 0, 0, 0}:  {Name: "siemens", Symbol: "S"},
	{0, 0, -1, 0, 0, 0, 0}:   {Name: "hertz", Symbol: "Hz"},
}

// siPrefixes are the metric prefixes accepted before any prefixable unit.
var siPrefixes = map[string]float64{
	"Y": 1e24, "Z": 1e21, "E": 1e18, "P": 1e15, "T": 1e12,
	"G": 1e9, "M": 1e6, "k": 1e3, "h": 1e2, "da": 1e1,
	"d": 1e-1, "c": 1e-2, "m": 1e-3, "u": 1e-6, "µ": 1e-6,
	"n": 1e-9, "p": 1e-12, "f": 1e-15,
}

// Registry resolves unit symbols and evaluates unit expressions.
type Registry struct {
	units map[string]Unit
}

// NewRegistry builds a registry with the SI base units, the derived units,
// and the customary engineering units the service accepts.
func NewRegistry() *Registry {
	r := &Registry{units: map[string]Unit{}}

	add := func(factor float64, dim Dimension, name string, symbols ...string) {
		for _, sym := range symbols {
			r.units[sym] = Unit{Name: name, Symbol: symbols[0], Factor: factor, Dim: dim}
		}
	}

	// SI base units. Mass is registered on the gram so prefixes work.
	add(1, Dim(0, 1, 0, 0, 0, 0, 0), "meter", "m", "meter", "meters", "metre")
	add(1e-3, Dim(1, 0, 0, 0, 0, 0, 0), "gram", "g", "gram", "grams")
	add(1, Dim(0, 0, 1, 0, 0, 0, 0), "second", "s", "sec", "second", "seconds")
	add(1, Dim(0, 0, 0, 1, 0, 0, 0), "ampere", "A", "amp", "ampere", "amperes")
	add(1, Dim(0, 0, 0, 0, 1, 0, 0), "kelvin", "K", "kelvin")
	add(1, Dim(0, 0, 0, 0, 0, 1, 0), "mole", "mol", "mole", "moles")
	add(1, Dim(0, 0, 0, 0, 0, 0, 1), "candela", "cd", "candela")
	add(1, Dimensionless, "radian", "rad", "radian", "radians")

	// SI derived units.
	add(1, dimForce, "newton", "N", "newton", "newtons")
	add(1, dimPressure, "pascal", "Pa", "pascal", "pascals")
	add(1, dimEnergy, "joule", "J", "joule", "joules")
	add(1, dimPower, "watt", "W", "watt", "watts")
	add(1, dimCharge, "coulomb", "C", "coulomb", "coulombs")
	add(1, dimVoltage, "volt", "V", "volt", "volts")
	add(1, dimResistance, "ohm", "ohm", "Ω", "ohms")
	add(1, dimCapacitance, "farad", "F", "farad", "farads")
	add(1, dimInductance, "henry", "H", "henry")
	add(1, dimMagneticFlux, "weber", "Wb", "weber")
	add(1, dimMagneticFld, "tesla", "T", "tesla")
	add(1, dimConductance, "siemens", "S", "siemens")
	add(1, dimFrequency, "hertz", "Hz", "hertz")

	// Customary and off-system units.
	add(1e-3, Dim(0, 3, 0, 0, 0, 0, 0), "liter", "L", "l", "liter", "litre", "liters")
	add(60, Dim(0, 0, 1, 0, 0, 0, 0), "minute", "min", "minute", "minutes")
	add(3600, Dim(0, 0, 1, 0, 0, 0, 0), "hour", "hr", "hour", "hours")
	add(86400, Dim(0, 0, 1, 0, 0, 0, 0), "day", "day", "days")
	add(1e5, dimPressure, "bar", "bar")
	add(101325, dimPressure, "atmosphere", "atm", "atmosphere")
	add(6894.757293168, dimPressure, "psi", "psi")
	add(4.184, dimEnergy, "calorie", "cal", "calorie", "calories")
	add(1.602176634e-19, dimEnergy, "electronvolt", "eV", "electronvolt")
	add(745.6998715822702, dimPower, "horsepower", "hp", "horsepower")
	add(0.0254, Dim(0, 1, 0, 0, 0, 0, 0), "inch", "in", "inch", "inches")
	add(0.3048, Dim(0, 1, 0, 0, 0, 0, 0), "foot", "ft", "foot", "feet")
	add(0.9144, Dim(0, 1, 0, 0, 0, 0, 0), "yard", "yd", "yard", "yards")
	add(1609.344, Dim(0, 1, 0, 0, 0, 0, 0), "mile", "mi", "mile", "miles")
	add(0.45359237, Dim(1, 0, 0, 0, 0, 0, 0), "pound", "lb", "lbs", "pound", "pounds")
	add(1000, Dim(1, 0, 0, 0, 0, 0, 0), "tonne", "t", "tonne", "ton")

	// Affine temperature scales.
	r.units["degC"] = Unit{Name: "degree Celsius", Symbol: "degC", Factor: 1, Offset: 273.15, Dim: Dim(0, 0, 0, 0, 1, 0, 0)}
	r.units["celsius"] = r.units["degC"]
	r.units["°C"] = r.units["degC"]
	r.units["degF"] = Unit{Name: "degree Fahrenheit", Symbol: "degF", Factor: 5.0 / 9.0, Offset: 255.372222222222, Dim: Dim(0, 0, 0, 0, 1, 0, 0)}
	r.units["fahrenheit"] = r.units["degF"]
	r.units["°F"] = r.units["degF"]

	return r
}

// Lookup resolves a single unit symbol, trying an exact match before
// prefix splitting. The dimensionless "1" resolves to unity.
func (r *Registry) Lookup(symbol string) (Unit, error) {
	if symbol == "" || symbol == "1" || symbol == "dimensionless" {
		return Unit{Name: "dimensionless", Symbol: "", Factor: 1, Dim: Dimensionless}, nil
	}

	if u, ok := r.units[symbol]; ok {
		return u, nil
	}

	// Prefix + unit, longest prefix first so "da" wins over "d".
	for _, plen := range []int{2, 1} {
		if len(symbol) <= plen {
			continue
		}
		prefix := symbol[:plen]
		scale, ok := siPrefixes[prefix]
		if !ok {
			continue
		}
		if u, found := r.units[symbol[plen:]]; found && u.Offset == 0 {
			u.Factor *= scale
			u.Symbol = symbol

			return u, nil
		}
	}

	return Unit{}, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, symbol)
}

// ParseQuantity evaluates a unit expression like "kg*m/s**2" or "J/(kg*K)"
// into an SI quantity of magnitude equal to the expression's numeric part.
func (r *Registry) ParseQuantity(expr string) (Quantity, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Quantity{Value: 1, Dim: Dimensionless}, nil
	}

	// Plain symbols skip the expression machinery.
	if u, err := r.Lookup(trimmed); err == nil {
		return Quantity{Value: u.Factor, Dim: u.Dim}, nil
	}

	parsed, err := symbolic.Parse(symbolic.NewContext(), trimmed)
	if err != nil {
		return Quantity{}, domain.NewUnitParseError(expr, err.Error())
	}

	q, err := r.evalQuantity(parsed)
	if err != nil {
		return Quantity{}, fmt.Errorf("evaluating unit %q: %w", expr, err)
	}

	return q, nil
}

func (r *Registry) evalQuantity(e symbolic.Expr) (Quantity, error) {
	switch n := e.(type) {
	case symbolic.Num:
		return Quantity{Value: n.Float(), Dim: Dimensionless}, nil

	case symbolic.Sym:
		u, err := r.Lookup(n.Name)
		if err != nil {
			return Quantity{}, err
		}

		return Quantity{Value: u.Factor, Dim: u.Dim}, nil

	case symbolic.Mul:
		out := Quantity{Value: 1, Dim: Dimensionless}
		for _, f := range n.Factors {
			q, err := r.evalQuantity(f)
			if err != nil {
				return Quantity{}, err
			}
			out.Value *= q.Value
			out.Dim = out.Dim.Mul(q.Dim)
		}

		return out, nil

	case symbolic.Add:
		var out *Quantity
		for _, t := range n.Terms {
			q, err := r.evalQuantity(t)
			if err != nil {
				return Quantity{}, err
			}
			if out == nil {
				out = &q
				continue
			}
			if !out.Dim.Equal(q.Dim) {
				return Quantity{}, &domain.DimensionMismatchError{
					LHS: out.Dim.String(), RHS: q.Dim.String(),
				}
			}
			out.Value += q.Value
		}

		return *out, nil

	case symbolic.Pow:
		base, err := r.evalQuantity(n.Base)
		if err != nil {
			return Quantity{}, err
		}

		exp, ok := n.Exp.(symbolic.Num)
		if !ok {
			return Quantity{}, domain.NewUnitParseError(e.String(), "exponent must be numeric")
		}
		if !exp.Rat.Num().IsInt64() || !exp.Rat.Denom().IsInt64() {
			return Quantity{}, domain.NewUnitParseError(e.String(), "exponent out of range")
		}
		power := E(exp.Rat.Num().Int64(), exp.Rat.Denom().Int64())

		return Quantity{
			Value: math.Pow(base.Value, exp.Float()),
			Dim:   base.Dim.Pow(power),
		}, nil

	case symbolic.Call:
		arg, err := r.evalQuantity(n.Arg)
		if err != nil {
			return Quantity{}, err
		}
		if !arg.Dim.IsDimensionless() {
			return Quantity{}, domain.NewUnitParseError(e.String(), n.Fn+" requires a dimensionless argument")
		}
		v, err := symbolic.CallOf(n.Fn, symbolic.NFloat(arg.Value)).Eval(nil)
		if err != nil {
			return Quantity{}, err
		}

		return Quantity{Value: v, Dim: Dimensionless}, nil
	}

	return Quantity{}, domain.NewUnitParseError(e.String(), "unsupported unit expression")
}

// Convert converts a value between compatible units, handling affine
// temperature scales for simple unit symbols.
func (r *Registry) Convert(value float64, from, to string) (float64, error) {
	fromUnit, fromErr := r.Lookup(strings.TrimSpace(from))
	toUnit, toErr := r.Lookup(strings.TrimSpace(to))

	if fromErr == nil && toErr == nil {
		if !fromUnit.Dim.Equal(toUnit.Dim) {
			return 0, &domain.DimensionMismatchError{
				LHS: fromUnit.Dim.String(), RHS: toUnit.Dim.String(),
			}
		}

		si := value*fromUnit.Factor + fromUnit.Offset

		return (si - toUnit.Offset) / toUnit.Factor, nil
	}

	// Compound expressions have no offsets.
	fq, err := r.ParseQuantity(from)
	if err != nil {
		return 0, err
	}
	tq, err := r.ParseQuantity(to)
	if err != nil {
		return 0, err
	}
	if !fq.Dim.Equal(tq.Dim) {
		return 0, &domain.DimensionMismatchError{LHS: fq.Dim.String(), RHS: tq.Dim.String()}
	}

	return value * fq.Value / tq.Value, nil
}

// Dimensions returns the dimension vector of a unit expression.
func (r *Registry) Dimensions(unit string) (Dimension, error) {
	q, err := r.ParseQuantity(unit)
	if err != nil {
		return Dimension{}, err
	}

	return q.Dim, nil
}

// Derived looks up the SI derived unit matching a dimension vector.
func Derived(d Dimension) (DerivedUnit, bool) {
	ints, ok := d.Ints()
	if !ok {
		return DerivedUnit{}, false
	}
	du, found := siDerivedUnits[ints]

	return du, found
}

var superscripts = map[rune]string{
	'0': "⁰", '1': "¹", '2': "²", '3': "³", '4': "⁴",
	'5': "⁵", '6': "⁶", '7': "⁷", '8': "⁸", '9': "⁹", '-': "⁻",
}

var baseSymbols = [numDims]string{"kg", "m", "s", "A", "K", "mol", "cd"}

// BaseUnitString renders a dimension vector in SI base symbols, numerator
// over denominator: "kg·m/s²".
func BaseUnitString(d Dimension) string {
	if d.IsDimensionless() {
		return "dimensionless"
	}

	var num, den []string
	for i, e := range d {
		if e.IsZero() {
			continue
		}
		mag := e
		neg := e.N < 0
		if neg {
			mag = e.Neg()
		}

		part := baseSymbols[i]
		if !(mag.IsInt() && mag.N == 1) {
			part += toSuperscript(mag.String())
		}

		if neg {
			den = append(den, part)
		} else {
			num = append(num, part)
		}
	}

	top := strings.Join(num, "·")
	if top == "" {
		top = "1"
	}
	if len(den) == 0 {
		return top
	}

	return top + "/" + strings.Join(den, "·")
}

func toSuperscript(s string) string {
	var b strings.Builder
	for _, r := range s {
		if sup, ok := superscripts[r]; ok {
			b.WriteString(sup)
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
