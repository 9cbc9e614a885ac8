package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mnehmos/provecalc-engine/internal/adapters/http/dto"
	"github.com/Mnehmos/provecalc-engine/internal/domain"
	"github.com/Mnehmos/provecalc-engine/internal/ports"
)

// ComputeHandler handles symbolic and numeric computation endpoints.
type ComputeHandler struct {
	compute ports.ComputeService
	units   ports.UnitService
}

// NewComputeHandler creates a new compute handler.
func NewComputeHandler(compute ports.ComputeService, units ports.UnitService) *ComputeHandler {
	return &ComputeHandler{
		compute: compute,
		units:   units,
	}
}

// Evaluate handles POST /api/v1/compute/evaluate.
// Substitutes the supplied variables (and optionally the physical constants)
// into the expression and returns its numeric value.
func (h *ComputeHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.compute.Evaluate(c.Request.Context(), ports.EvaluateRequest{
		Expression: req.Expression,
		Variables:  req.Variables,
		Constants:  req.UseConstants,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EvaluateResponse{
		Result:     result.Value,
		Expression: result.Expression,
		LaTeX:      result.LaTeX,
	})
}

// Simplify handles POST /api/v1/compute/simplify.
func (h *ComputeHandler) Simplify(c *gin.Context) {
	var req dto.ExpressionRequest
	if !bindJSON(c, &req) {
		return
	}

	form, err := h.compute.Simplify(c.Request.Context(), req.Expression)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExpressionResponse{
		Expression: form.Expression,
		LaTeX:      form.LaTeX,
	})
}

// Differentiate handles POST /api/v1/compute/differentiate.
func (h *ComputeHandler) Differentiate(c *gin.Context) {
	var req dto.DifferentiateRequest
	if !bindJSON(c, &req) {
		return
	}

	form, err := h.compute.Differentiate(c.Request.Context(), ports.CalculusRequest{
		Expression: req.Expression,
		Variable:   req.Variable,
		Order:      req.Order,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExpressionResponse{
		Expression: form.Expression,
		LaTeX:      form.LaTeX,
	})
}

// Integrate handles POST /api/v1/compute/integrate.
// Returns the antiderivative when a closed form exists and the definite
// value when both limits are present.
func (h *ComputeHandler) Integrate(c *gin.Context) {
	var req dto.IntegrateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.compute.Integrate(c.Request.Context(), ports.IntegrateRequest{
		Expression: req.Expression,
		Variable:   req.Variable,
		Lower:      req.Lower,
		Upper:      req.Upper,
		Variables:  req.Variables,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.IntegrateResponse{
		Antiderivative: result.Antiderivative,
		LaTeX:          result.LaTeX,
		Value:          result.Value,
	})
}

// Solve handles POST /api/v1/compute/solve.
// Solves the equation set symbolically for the target and attaches the
// determinacy analysis of the system.
func (h *ComputeHandler) Solve(c *gin.Context) {
	var req dto.SolveRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.compute.Solve(c.Request.Context(), ports.SolveRequest{
		Equations: req.Equations,
		Target:    req.Target,
		Knowns:    req.Variables,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSolveResponse(result))
}

// SolveNumeric handles POST /api/v1/compute/solve_numeric.
func (h *ComputeHandler) SolveNumeric(c *gin.Context) {
	var req dto.SolveNumericRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.compute.SolveNumeric(c.Request.Context(), ports.NumericSolveRequest{
		Equations: req.Equations,
		Target:    req.Target,
		Method:    req.Method,
		Lower:     req.Lower,
		Upper:     req.Upper,
		Guess:     req.Guess,
		Knowns:    req.Variables,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SolveNumericResponse{
		Target:     result.Target,
		Value:      result.Value,
		Values:     result.Values,
		MethodUsed: result.MethodUsed,
		Residual:   result.Residual,
	})
}

// AnalyzeSystem handles POST /api/v1/compute/analyze_system.
func (h *ComputeHandler) AnalyzeSystem(c *gin.Context) {
	var req dto.AnalyzeSystemRequest
	if !bindJSON(c, &req) {
		return
	}

	analysis, err := h.compute.AnalyzeSystem(c.Request.Context(), req.Equations, req.Variables)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := toSystemAnalysisResponse(&analysis)
	c.JSON(http.StatusOK, resp)
}

// ValidateEquation handles POST /api/v1/compute/validate_equation.
// Checks the equation for dimensional consistency given per-variable units.
func (h *ComputeHandler) ValidateEquation(c *gin.Context) {
	var req dto.ValidateEquationRequest
	if !bindJSON(c, &req) {
		return
	}

	vars := make(map[string]ports.VariableInput, len(req.Variables))
	for name, v := range req.Variables {
		vars[name] = ports.VariableInput{Value: v.Value, Unit: v.Unit}
	}

	result, err := h.units.ValidateEquation(c.Request.Context(), ports.ValidateEquationRequest{
		Equation:  req.Equation,
		Variables: vars,
		Target:    req.Target,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toValidateEquationResponse(result))
}

// PlotData handles POST /api/v1/compute/plot_data.
func (h *ComputeHandler) PlotData(c *gin.Context) {
	var req dto.PlotDataRequest
	if !bindJSON(c, &req) {
		return
	}

	series, err := h.compute.PlotData(c.Request.Context(), ports.PlotRequest{
		Expression: req.Expression,
		Variable:   req.Variable,
		Min:        req.XMin,
		Max:        req.XMax,
		Points:     req.PointCount,
		Variables:  req.Variables,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PlotDataResponse{
		X:    series.X,
		Y:    series.Y,
		YMin: series.YMin,
		YMax: series.YMax,
	})
}

// RegisterComputeRoutes registers computation routes on the given router group.
func (h *ComputeHandler) RegisterComputeRoutes(rg *gin.RouterGroup) {
	compute := rg.Group("/compute")
	compute.POST("/evaluate", h.Evaluate)
	compute.POST("/simplify", h.Simplify)
	compute.POST("/differentiate", h.Differentiate)
	compute.POST("/integrate", h.Integrate)
	compute.POST("/solve", h.Solve)
	compute.POST("/solve_numeric", h.SolveNumeric)
	compute.POST("/analyze_system", h.AnalyzeSystem)
	compute.POST("/validate_equation", h.ValidateEquation)
	compute.POST("/plot_data", h.PlotData)
}

// toSolveResponse converts a domain solve result to an HTTP response.
func toSolveResponse(result domain.SolveResult) dto.SolveResponse {
	resp := dto.SolveResponse{
		Target:       result.Target,
		Solutions:    result.Solutions,
		LaTeX:        result.LaTeX,
		NumericValue: result.NumericValue,
		MethodUsed:   result.MethodUsed,
		Steps:        result.Steps,
	}

	if result.Analysis != nil {
		analysis := toSystemAnalysisResponse(result.Analysis)
		resp.SystemAnalysis = &analysis
	}

	return resp
}

// toSystemAnalysisResponse converts a domain system analysis to an HTTP response.
func toSystemAnalysisResponse(analysis *domain.SystemAnalysis) dto.SystemAnalysisResponse {
	equations := make([]dto.EquationInfoResponse, 0, len(analysis.Equations))
	for _, eq := range analysis.Equations {
		equations = append(equations, dto.EquationInfoResponse{
			Equation: eq.Raw,
			Symbols:  eq.Symbols,
			Parsed:   eq.Parsed,
		})
	}

	return dto.SystemAnalysisResponse{
		EquationCount: analysis.EquationCount,
		UnknownCount:  analysis.UnknownCount,
		KnownCount:    analysis.KnownCount,
		Unknowns:      analysis.Unknowns,
		Knowns:        analysis.Knowns,
		Status:        analysis.Status,
		Message:       analysis.Message,
		SolvableFor:   analysis.SolvableFor,
		Equations:     equations,
	}
}

// toValidateEquationResponse converts a domain unit validation to an HTTP response.
func toValidateEquationResponse(result domain.UnitValidation) dto.ValidateEquationResponse {
	variables := make([]dto.VariableUnitResponse, 0, len(result.Variables))
	for _, v := range result.Variables {
		variables = append(variables, dto.VariableUnitResponse{
			Name:       v.Name,
			Unit:       v.Unit,
			Status:     v.Status,
			Dimensions: v.Dimensions,
			Quantity:   v.Quantity,
			Note:       v.Note,
		})
	}

	return dto.ValidateEquationResponse{
		Valid:          result.Valid,
		Balanced:       result.Balanced,
		Variables:      variables,
		InferredTarget: result.InferredTarget,
		Suggestion:     result.Suggestion,
		Warnings:       result.Warnings,
		Messages:       result.Messages,
	}
}
