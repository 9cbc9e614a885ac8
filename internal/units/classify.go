package units

import (
	"sort"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

// domainTaxonomy maps integral dimension vectors onto (domain, quantity,
// icon) triples, in base order mass, length, time, current, temperature,
// substance, luminosity.
var domainTaxonomy = map[[numDims]int64][3]string{
	// Mechanics: motion.
	{0, 1, 0, 0, 0, 0, 0}:  {"mechanics", "length", "📏"},
	{0, 2, 0, 0, 0, 0, 0}:  {"mechanics", "area", "⬜"},
	{0, 3, 0, 0, 0, 0, 0}:  {"mechanics", "volume", "📦"},
	{0, 1, -1, 0, 0, 0, 0}: {"mechanics", "velocity", "🚀"},
	{0, 1, -2, 0, 0, 0, 0}: {"mechanics", "acceleration", "⚡"},
	{0, 0, -1, 0, 0, 0, 0}: {"mechanics", "frequency", "〰️"},
	{0, 0, 1, 0, 0, 0, 0}:  {"mechanics", "time", "⏱️"},

	// Mechanics: force and energy.
	{1, 0, 0, 0, 0, 0, 0}:   {"mechanics", "mass", "⚖️"},
	{1, -3, 0, 0, 0, 0, 0}:  {"mechanics", "density", "🧊"},
	{1, 1, -2, 0, 0, 0, 0}:  {"mechanics", "force", "💪"},
	{1, -1, -2, 0, 0, 0, 0}: {"mechanics", "pressure", "🎯"},
	{1, 2, -2, 0, 0, 0, 0}:  {"mechanics", "energy", "⚡"},
	{1, 2, -3, 0, 0, 0, 0}:  {"mechanics", "power", "🔋"},
	{1, 1, -1, 0, 0, 0, 0}:  {"mechanics", "momentum", "🎱"},
	{1, 2, -1, 0, 0, 0, 0}:  {"mechanics", "angular_momentum", "🌀"},
	{1, 0, -2, 0, 0, 0, 0}:  {"mechanics", "stiffness", "🔩"},
	{1, -1, -1, 0, 0, 0, 0}: {"mechanics", "viscosity", "🍯"},

	// Thermodynamics.
	{0, 0, 0, 0, 1, 0, 0}:   {"thermodynamics", "temperature", "🌡️"},
	{1, 2, -2, 0, -1, 0, 0}: {"thermodynamics", "heat_capacity", "🔥"},
	{1, 1, -3, 0, -1, 0, 0}: {"thermodynamics", "thermal_conductivity", "♨️"},
	{1, 2, -2, 0, 0, -1, 0}: {"thermodynamics", "molar_energy", "🧪"},

	// Electrical.
	{0, 0, 1, 1, 0, 0, 0}:   {"electrical", "charge", "⚡"},
	{0, 0, 0, 1, 0, 0, 0}:   {"electrical", "current", "🔌"},
	{1, 2, -3, -1, 0, 0, 0}: {"electrical", "voltage", "⚡"},
	{1, 2, -3, -2, 0, 0, 0}: {"electrical", "resistance", "Ω"},
	{-1, -2, 4, 2, 0, 0, 0}: {"electrical", "capacitance", "🔋"},
	{1, 2, -2, -2, 0, 0, 0}: {"electrical", "inductance", "🧲"},
	{-1, -2, 3, 2, 0, 0, 0}: {"electrical", "conductance", "🔗"},

	// Magnetism.
	{1, 2, -2, -1, 0, 0, 0}: {"magnetism", "magnetic_flux", "🧲"},
	{1, 0, -2, -1, 0, 0, 0}: {"magnetism", "magnetic_field", "🧲"},

	// Chemistry.
	{0, 0, 0, 0, 0, 1, 0}:  {"chemistry", "amount", "🧪"},
	{1, 0, 0, 0, 0, -1, 0}: {"chemistry", "molar_mass", "⚗️"},
	{0, -3, 0, 0, 0, 1, 0}: {"chemistry", "concentration", "💧"},

	// Optics.
	{0, 0, 0, 0, 0, 0, 1}:  {"optics", "luminous_intensity", "💡"},
	{0, -2, 0, 0, 0, 0, 1}: {"optics", "illuminance", "☀️"},
}

// domainInfo is the presentation metadata for each engineering domain.
var domainInfo = map[string]domain.DomainInfo{
	"mechanics":      {Name: "mechanics", Label: "Mechanics", Color: "#3b82f6", Icon: "⚙️"},
	"thermodynamics": {Name: "thermodynamics", Label: "Thermodynamics", Color: "#ef4444", Icon: "🔥"},
	"electrical":     {Name: "electrical", Label: "Electrical", Color: "#eab308", Icon: "⚡"},
	"magnetism":      {Name: "magnetism", Label: "Magnetism", Color: "#8b5cf6", Icon: "🧲"},
	"chemistry":      {Name: "chemistry", Label: "Chemistry", Color: "#22c55e", Icon: "🧪"},
	"optics":         {Name: "optics", Label: "Optics", Color: "#f97316", Icon: "💡"},
	"dimensionless":  {Name: "dimensionless", Label: "Dimensionless", Color: "#6b7280", Icon: "∅"},
	"unknown":        {Name: "unknown", Label: "Unknown", Color: "#9ca3af", Icon: "❓"},
}

// Classifier assigns units to engineering domains by dimension vector.
type Classifier struct {
	registry *Registry
}

// NewClassifier creates a classifier over the given registry.
func NewClassifier(registry *Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify determines the engineering domain and quantity of a unit
// expression. Classification is advisory: unparseable units classify as
// unknown rather than failing.
func (c *Classifier) Classify(unit string) domain.DomainClassification {
	q, err := c.registry.ParseQuantity(unit)
	if err != nil {
		info := domainInfo["unknown"]

		return domain.DomainClassification{
			Domain:          "unknown",
			Quantity:        "unknown",
			Label:           info.Label,
			Color:           info.Color,
			Icon:            info.Icon,
			Dimensions:      []float64{},
			DimensionString: "",
		}
	}

	return ClassifyDimension(q.Dim)
}

// ClassifyDimension classifies a dimension vector directly.
func ClassifyDimension(d Dimension) domain.DomainClassification {
	build := func(name, quantity, icon string) domain.DomainClassification {
		info, ok := domainInfo[name]
		if !ok {
			info = domainInfo["unknown"]
		}
		if icon == "" {
			icon = info.Icon
		}

		return domain.DomainClassification{
			Domain:          name,
			Quantity:        quantity,
			Label:           info.Label,
			Color:           info.Color,
			Icon:            icon,
			Dimensions:      d.Floats(),
			DimensionString: d.String(),
		}
	}

	ints, integral := d.Ints()

	// Fractional exponents cannot match the integer-keyed taxonomy.
	if !integral {
		return build(inferDomain(d), "fractional_compound", "")
	}

	if d.IsDimensionless() {
		return build("dimensionless", "ratio", "∅")
	}

	if entry, ok := domainTaxonomy[ints]; ok {
		return build(entry[0], entry[1], entry[2])
	}

	return build(inferDomain(d), "compound", "")
}

// inferDomain guesses a domain from dimension components when the vector is
// not in the taxonomy. Current wins over temperature, then amount, then
// luminosity; everything else is mechanics.
func inferDomain(d Dimension) string {
	switch {
	case !d[Current].IsZero():
		return "electrical"
	case !d[Temperature].IsZero():
		return "thermodynamics"
	case !d[Substance].IsZero():
		return "chemistry"
	case !d[Luminosity].IsZero():
		return "optics"
	}

	return "mechanics"
}

// Domains returns the domain metadata, sorted by name.
func Domains() []domain.DomainInfo {
	out := make([]domain.DomainInfo, 0, len(domainInfo))
	for _, info := range domainInfo {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
