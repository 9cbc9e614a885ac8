package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Mnehmos/provecalc-engine/internal/adapters/http/dto"
	"github.com/Mnehmos/provecalc-engine/internal/domain"
	"github.com/Mnehmos/provecalc-engine/internal/ports"
)

// UnitsHandler handles unit conversion, dimensional analysis and physical
// constant endpoints.
type UnitsHandler struct {
	service ports.UnitService
}

// NewUnitsHandler creates a new units handler.
func NewUnitsHandler(service ports.UnitService) *UnitsHandler {
	return &UnitsHandler{
		service: service,
	}
}

// Convert handles POST /api/v1/units/convert.
func (h *UnitsHandler) Convert(c *gin.Context) {
	var req dto.ConvertRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Convert(c.Request.Context(), req.Value, req.FromUnit, req.ToUnit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		Value:     result.Value,
		FromUnit:  result.FromUnit,
		ToUnit:    result.ToUnit,
		Converted: result.Converted,
	})
}

// Dimensions handles GET /api/v1/units/dimensions/*unit.
// The unit is a wildcard parameter so compound expressions like "m/s" work.
func (h *UnitsHandler) Dimensions(c *gin.Context) {
	unit := unitParam(c)
	if unit == "" {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "unit is required")
		return
	}

	result, err := h.service.Dimensions(c.Request.Context(), unit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DimensionsResponse{
		Unit:        result.Unit,
		Dimensions:  result.Dimensions,
		Rendered:    result.Rendered,
		BaseUnits:   result.BaseUnits,
		DerivedName: result.DerivedName,
	})
}

// ClassifyDomain handles GET /api/v1/units/domain/*unit.
// Classification never fails on unrecognized units; they fall back to the
// unknown domain.
func (h *UnitsHandler) ClassifyDomain(c *gin.Context) {
	unit := unitParam(c)
	if unit == "" {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "unit is required")
		return
	}

	result, err := h.service.Classify(c.Request.Context(), unit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClassifyResponse(unit, result))
}

// ClassifyBatch handles POST /api/v1/units/domain/batch.
func (h *UnitsHandler) ClassifyBatch(c *gin.Context) {
	var req dto.ClassifyBatchRequest
	if !bindJSON(c, &req) {
		return
	}

	results, err := h.service.ClassifyBatch(c.Request.Context(), req.Units)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := dto.ClassifyBatchResponse{
		Results: make([]dto.ClassifyResponse, 0, len(results)),
	}
	for i, result := range results {
		resp.Results = append(resp.Results, toClassifyResponse(req.Units[i], result))
	}

	c.JSON(http.StatusOK, resp)
}

// Domains handles GET /api/v1/units/domains.
func (h *UnitsHandler) Domains(c *gin.Context) {
	domains := h.service.Domains(c.Request.Context())

	resp := dto.DomainsResponse{
		Domains: make([]dto.DomainInfoResponse, 0, len(domains)),
	}
	for _, d := range domains {
		resp.Domains = append(resp.Domains, dto.DomainInfoResponse{
			Name:  d.Name,
			Label: d.Label,
			Color: d.Color,
			Icon:  d.Icon,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// Constants handles GET /api/v1/constants.
func (h *UnitsHandler) Constants(c *gin.Context) {
	constants := h.service.Constants(c.Request.Context())

	resp := dto.ConstantsResponse{
		Constants: make([]dto.ConstantResponse, 0, len(constants)),
	}
	for _, constant := range constants {
		resp.Constants = append(resp.Constants, toConstantResponse(constant))
	}

	c.JSON(http.StatusOK, resp)
}

// Constant handles GET /api/v1/constants/:name.
func (h *UnitsHandler) Constant(c *gin.Context) {
	name := c.Param("name")

	constant, err := h.service.Constant(c.Request.Context(), name)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toConstantResponse(constant))
}

// RegisterUnitRoutes registers unit and constant routes on the given router group.
func (h *UnitsHandler) RegisterUnitRoutes(rg *gin.RouterGroup) {
	units := rg.Group("/units")
	units.POST("/convert", h.Convert)
	units.GET("/dimensions/*unit", h.Dimensions)
	units.GET("/domain/*unit", h.ClassifyDomain)
	units.POST("/domain/batch", h.ClassifyBatch)
	units.GET("/domains", h.Domains)

	constants := rg.Group("/constants")
	constants.GET("", h.Constants)
	constants.GET("/:name", h.Constant)
}

// unitParam extracts a wildcard unit parameter, stripping the leading slash
// Gin includes in wildcard matches.
func unitParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("unit"), "/")
}

// toClassifyResponse converts a domain classification to an HTTP response.
func toClassifyResponse(unit string, result domain.DomainClassification) dto.ClassifyResponse {
	return dto.ClassifyResponse{
		Unit:            unit,
		Domain:          result.Domain,
		Quantity:        result.Quantity,
		Label:           result.Label,
		Color:           result.Color,
		Icon:            result.Icon,
		Dimensions:      result.Dimensions,
		DimensionString: result.DimensionString,
	}
}

// toConstantResponse converts a domain constant to an HTTP response.
func toConstantResponse(constant domain.Constant) dto.ConstantResponse {
	return dto.ConstantResponse{
		Name:        constant.Name,
		Symbol:      constant.Symbol,
		Value:       constant.Value,
		Unit:        constant.Unit,
		Description: constant.Description,
	}
}
