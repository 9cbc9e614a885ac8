package units

import (
	"fmt"
	"sort"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

// physicalConstants holds the CODATA values recognized in expressions and
// exposed through the constants endpoints.
var physicalConstants = map[string]domain.Constant{
	"c":         {Name: "c", Symbol: "c", Value: 299792458, Unit: "m/s", Description: "speed of light in vacuum"},
	"G":         {Name: "G", Symbol: "G", Value: 6.67430e-11, Unit: "m**3/(kg*s**2)", Description: "gravitational constant"},
	"h":         {Name: "h", Symbol: "h", Value: 6.62607015e-34, Unit: "J*s", Description: "Planck constant"},
	"k_B":       {Name: "k_B", Symbol: "k_B", Value: 1.380649e-23, Unit: "J/K", Description: "Boltzmann constant"},
	"N_A":       {Name: "N_A", Symbol: "N_A", Value: 6.02214076e23, Unit: "1/mol", Description: "Avogadro constant"},
	"R":         {Name: "R", Symbol: "R", Value: 8.314462618, Unit: "J/(mol*K)", Description: "molar gas constant"},
	"e":         {Name: "e", Symbol: "e", Value: 1.602176634e-19, Unit: "C", Description: "elementary charge"},
	"m_e":       {Name: "m_e", Symbol: "m_e", Value: 9.1093837015e-31, Unit: "kg", Description: "electron mass"},
	"m_p":       {Name: "m_p", Symbol: "m_p", Value: 1.67262192369e-27, Unit: "kg", Description: "proton mass"},
	"epsilon_0": {Name: "epsilon_0", Symbol: "ε₀", Value: 8.8541878128e-12, Unit: "F/m", Description: "vacuum permittivity"},
	"mu_0":      {Name: "mu_0", Symbol: "μ₀", Value: 1.25663706212e-6, Unit: "N/A**2", Description: "vacuum permeability"},
	"g":         {Name: "g", Symbol: "g", Value: 9.80665, Unit: "m/s**2", Description: "standard gravity"},
	"atm":       {Name: "atm", Symbol: "atm", Value: 101325, Unit: "Pa", Description: "standard atmosphere"},
	"sigma":     {Name: "sigma", Symbol: "σ", Value: 5.670374419e-8, Unit: "W/(m**2*K**4)", Description: "Stefan-Boltzmann constant"},
}

// Constants returns all known physical constants sorted by name.
func Constants() []domain.Constant {
	out := make([]domain.Constant, 0, len(physicalConstants))
	for _, c := range physicalConstants {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// LookupConstant resolves a constant by name.
func LookupConstant(name string) (domain.Constant, error) {
	c, ok := physicalConstants[name]
	if !ok {
		return domain.Constant{}, fmt.Errorf("%w: %q", domain.ErrUnknownConstant, name)
	}

	return c, nil
}

// ConstantValues returns a name-to-value map for substitution into
// expressions when constant resolution is requested.
func ConstantValues() map[string]float64 {
	out := make(map[string]float64, len(physicalConstants))
	for name, c := range physicalConstants {
		out[name] = c.Value
	}

	return out
}
