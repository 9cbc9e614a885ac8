package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
	"github.com/Mnehmos/provecalc-engine/internal/platform/logging"
)

// MapDomainError maps a domain error to an HTTP status code and error response.
// Parse and validation failures are the caller's fault (400); computation
// failures on well-formed input are 422; unknown units and constants are 404.
// Anything unrecognized maps to 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsParse(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeParse, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())
		// Extract field details if available
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsUndefinedSymbol(err):
		return http.StatusUnprocessableEntity, NewErrorResponse(ErrorCodeUndefinedSymbol, err.Error())

	case domain.IsContradiction(err):
		return http.StatusUnprocessableEntity, NewErrorResponse(ErrorCodeContradiction, err.Error())

	case domain.IsNoSolution(err):
		return http.StatusUnprocessableEntity, NewErrorResponse(ErrorCodeNoSolution, err.Error())

	case domain.IsBracket(err):
		return http.StatusUnprocessableEntity, NewErrorResponse(ErrorCodeBracket, err.Error())

	case domain.IsConvergence(err):
		return http.StatusUnprocessableEntity, NewErrorResponse(ErrorCodeConvergence, err.Error())

	case domain.IsDimensionMismatch(err):
		return http.StatusUnprocessableEntity, NewErrorResponse(ErrorCodeDimensionMismatch, err.Error())

	case domain.IsUnitParse(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeParse, err.Error())

	case domain.IsUnknownUnit(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeUnknownUnit, err.Error())

	case domain.IsUnknownConstant(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeUnknownConstant, err.Error())

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// GetTraceID returns the OpenTelemetry trace ID for the request, or "".
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError writes an error response to the gin.Context.
// It maps domain errors to HTTP responses and includes the trace ID if available.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	// Log internal errors with full details
	if status == http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// HandleBindingError writes the response for a failed bind-and-validate.
// Validator failures become field-level 400 details; malformed JSON becomes
// a generic bad request.
func HandleBindingError(c *gin.Context, err error) {
	if IsValidationError(err) {
		RespondWithValidationErrors(c, ValidationErrors(err))
		return
	}

	errResp := NewErrorResponse(ErrorCodeBadRequest, "invalid request body")
	errResp.TraceID = GetTraceID(c)

	c.JSON(http.StatusBadRequest, errResp)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors that don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	errResp := NewErrorResponse(code, message)
	errResp.TraceID = GetTraceID(c)

	c.JSON(HTTPStatusFromCode(code), errResp)
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := NewErrorResponseWithDetails(
		ErrorCodeValidation,
		"request validation failed",
		fieldErrors,
	)
	errResp.TraceID = GetTraceID(c)

	c.JSON(http.StatusBadRequest, errResp)
}

// AbortWithError aborts the request chain and writes an error response.
// Use this in middleware when you want to stop further processing.
func AbortWithError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	c.AbortWithStatusJSON(status, errResp)
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	errResp := NewErrorResponse(code, message)
	errResp.TraceID = GetTraceID(c)

	c.AbortWithStatusJSON(HTTPStatusFromCode(code), errResp)
}
