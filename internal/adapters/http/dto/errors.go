// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import "net/http"

// ErrorResponse is the standard error envelope for all error responses.
// It provides a consistent structure for API error handling.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "PARSE_ERROR", "NO_SOLUTION").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	// For validation errors, this contains field-level error messages.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeParse indicates an expression or equation could not be parsed.
	ErrorCodeParse = "PARSE_ERROR"

	// ErrorCodeUndefinedSymbol indicates an expression references unbound symbols.
	ErrorCodeUndefinedSymbol = "UNDEFINED_SYMBOL"

	// ErrorCodeNoSolution indicates no solution could be produced.
	ErrorCodeNoSolution = "NO_SOLUTION"

	// ErrorCodeContradiction indicates the equation set is inconsistent.
	ErrorCodeContradiction = "CONTRADICTION"

	// ErrorCodeBracket indicates a bracketing interval does not enclose a root.
	ErrorCodeBracket = "BRACKET_ERROR"

	// ErrorCodeConvergence indicates an iterative method failed to converge.
	ErrorCodeConvergence = "CONVERGENCE_ERROR"

	// ErrorCodeDimensionMismatch indicates a dimensional inconsistency.
	ErrorCodeDimensionMismatch = "DIMENSION_MISMATCH"

	// ErrorCodeUnknownUnit indicates a unit is not in the registry.
	ErrorCodeUnknownUnit = "UNKNOWN_UNIT"

	// ErrorCodeUnknownConstant indicates a constant is not in the table.
	ErrorCodeUnknownConstant = "UNKNOWN_CONSTANT"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeUnauthorized indicates authentication is required.
	ErrorCodeUnauthorized = "UNAUTHORIZED"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request timed out.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest indicates the request was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
// Computation failures on well-formed requests map to 422: the request was
// syntactically fine but the mathematics rejected it.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeParse, ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUndefinedSymbol, ErrorCodeNoSolution, ErrorCodeContradiction,
		ErrorCodeBracket, ErrorCodeConvergence, ErrorCodeDimensionMismatch:
		return http.StatusUnprocessableEntity
	case ErrorCodeUnknownUnit, ErrorCodeUnknownConstant:
		return http.StatusNotFound
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
