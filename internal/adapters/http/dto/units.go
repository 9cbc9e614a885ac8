package dto

// ConvertRequest asks for a unit conversion.
type ConvertRequest struct {
	Value    float64 `json:"value"`
	FromUnit string  `json:"from_unit" validate:"required,notempty"`
	ToUnit   string  `json:"to_unit" validate:"required,notempty"`
}

// ConvertResponse is the result of a unit conversion.
type ConvertResponse struct {
	Value     float64 `json:"value"`
	FromUnit  string  `json:"from_unit"`
	ToUnit    string  `json:"to_unit"`
	Converted float64 `json:"converted"`
}

// DimensionsResponse describes the dimension vector of a unit expression.
type DimensionsResponse struct {
	Unit        string             `json:"unit"`
	Dimensions  map[string]float64 `json:"dimensions"`
	Rendered    string             `json:"rendered"`
	BaseUnits   string             `json:"base_units"`
	DerivedName string             `json:"derived_name,omitempty"`
}

// ClassifyResponse assigns a unit to an engineering domain.
type ClassifyResponse struct {
	Unit            string    `json:"unit"`
	Domain          string    `json:"domain"`
	Quantity        string    `json:"quantity"`
	Label           string    `json:"label"`
	Color           string    `json:"color"`
	Icon            string    `json:"icon"`
	Dimensions      []float64 `json:"dimensions"`
	DimensionString string    `json:"dimension_string"`
}

// ClassifyBatchRequest asks for domain classification of several units.
type ClassifyBatchRequest struct {
	Units []string `json:"units" validate:"required,min=1,dive,notempty"`
}

// ClassifyBatchResponse carries one classification per requested unit,
// index-aligned with the request.
type ClassifyBatchResponse struct {
	Results []ClassifyResponse `json:"results"`
}

// DomainInfoResponse is the presentation metadata for one engineering domain.
type DomainInfoResponse struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// DomainsResponse lists the known engineering domains.
type DomainsResponse struct {
	Domains []DomainInfoResponse `json:"domains"`
}

// ConstantResponse is a physical constant with its unit.
type ConstantResponse struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Description string  `json:"description,omitempty"`
}

// ConstantsResponse lists all known physical constants.
type ConstantsResponse struct {
	Constants []ConstantResponse `json:"constants"`
}
