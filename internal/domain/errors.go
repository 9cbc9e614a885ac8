// Package domain contains business logic types and errors.
// Domain errors represent computation-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates an expression or equation could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrUndefinedSymbol indicates an expression references symbols with no value.
	ErrUndefinedSymbol = errors.New("undefined symbol")

	// ErrNoSolution indicates the symbolic solver found no closed form.
	ErrNoSolution = errors.New("no symbolic solution")

	// ErrContradiction indicates the equation set is mutually inconsistent.
	ErrContradiction = errors.New("contradictory equations")

	// ErrBracket indicates a bracketing interval does not enclose a root.
	ErrBracket = errors.New("bracket does not enclose a root")

	// ErrConvergence indicates an iterative method failed to converge.
	ErrConvergence = errors.New("failed to converge")

	// ErrDimensionMismatch indicates the two sides of an equation carry
	// different physical dimensions.
	ErrDimensionMismatch = errors.New("dimensional mismatch")

	// ErrUnitParse indicates a unit expression could not be interpreted.
	ErrUnitParse = errors.New("unit parse error")

	// ErrUnknownUnit indicates a unit is not in the registry.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrUnknownConstant indicates a physical constant is not in the table.
	ErrUnknownConstant = errors.New("unknown constant")

	// ErrValidation indicates request-level validation failed.
	ErrValidation = errors.New("validation failed")
)

// ParseError provides context for parse failures.
type ParseError struct {
	Input    string
	Position int
	Reason   string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("cannot parse %q at position %d: %s", e.Input, e.Position, e.Reason)
	}

	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// NewParseError creates a parse error with context.
func NewParseError(input string, position int, reason string) error {
	return &ParseError{Input: input, Position: position, Reason: reason}
}

// UndefinedSymbolError lists the symbols that remained free when a fully
// numeric value was required.
type UndefinedSymbolError struct {
	Symbols []string
}

// Error implements the error interface.
func (e *UndefinedSymbolError) Error() string {
	msg := "Undefined variables: "
	for i, s := range e.Symbols {
		if i > 0 {
			msg += ", "
		}
		msg += s
	}

	return msg
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UndefinedSymbolError) Unwrap() error {
	return ErrUndefinedSymbol
}

// NewUndefinedSymbolError creates an undefined symbol error. The symbol
// list should already be sorted for stable messages.
func NewUndefinedSymbolError(symbols []string) error {
	return &UndefinedSymbolError{Symbols: symbols}
}

// NoSolutionError provides context for solver failures.
type NoSolutionError struct {
	Target string
	Reason string
}

// Error implements the error interface.
func (e *NoSolutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no solution for %q: %s", e.Target, e.Reason)
	}

	return fmt.Sprintf("no solution for %q", e.Target)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NoSolutionError) Unwrap() error {
	return ErrNoSolution
}

// NewNoSolutionError creates a no-solution error with context.
func NewNoSolutionError(target, reason string) error {
	return &NoSolutionError{Target: target, Reason: reason}
}

// ContradictionError identifies the equation that rejected a candidate.
type ContradictionError struct {
	Target   string
	Equation string
}

// Error implements the error interface.
func (e *ContradictionError) Error() string {
	if e.Equation != "" {
		return fmt.Sprintf("solutions for %q contradict equation %q", e.Target, e.Equation)
	}

	return fmt.Sprintf("solutions for %q are mutually contradictory", e.Target)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ContradictionError) Unwrap() error {
	return ErrContradiction
}

// NewContradictionError creates a contradiction error with context.
func NewContradictionError(target, equation string) error {
	return &ContradictionError{Target: target, Equation: equation}
}

// BracketError reports a failed bracketing attempt.
type BracketError struct {
	Lower float64
	Upper float64
	Cause error
}

// Error implements the error interface.
func (e *BracketError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("brentq failed: %v. Ensure bounds bracket a root.", e.Cause)
	}

	return fmt.Sprintf("brentq failed: f(%g) and f(%g) have the same sign. Ensure bounds bracket a root.", e.Lower, e.Upper)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *BracketError) Unwrap() error {
	return ErrBracket
}

// ConvergenceError reports how far an iterative method got before giving up.
type ConvergenceError struct {
	Method     string
	Iterations int
	Residual   float64
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations (residual %g)", e.Method, e.Iterations, e.Residual)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

// DimensionMismatchError carries the rendered dimensions of both sides.
type DimensionMismatchError struct {
	LHS string
	RHS string
}

// Error implements the error interface.
func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("Dimensional mismatch: LHS has dimensions %s, RHS has dimensions %s", e.LHS, e.RHS)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}

// UnitParseError provides context for unit expression failures.
type UnitParseError struct {
	Unit   string
	Reason string
}

// Error implements the error interface.
func (e *UnitParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot parse unit %q: %s", e.Unit, e.Reason)
	}

	return fmt.Sprintf("cannot parse unit %q", e.Unit)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnitParseError) Unwrap() error {
	return ErrUnitParse
}

// NewUnitParseError creates a unit parse error with context.
func NewUnitParseError(unit, reason string) error {
	return &UnitParseError{Unit: unit, Reason: reason}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsParse checks if an error is a parse error.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsUndefinedSymbol checks if an error is an undefined symbol error.
func IsUndefinedSymbol(err error) bool {
	return errors.Is(err, ErrUndefinedSymbol)
}

// IsNoSolution checks if an error is a no-solution error.
func IsNoSolution(err error) bool {
	return errors.Is(err, ErrNoSolution)
}

// IsContradiction checks if an error is a contradiction error.
func IsContradiction(err error) bool {
	return errors.Is(err, ErrContradiction)
}

// IsBracket checks if an error is a bracketing error.
func IsBracket(err error) bool {
	return errors.Is(err, ErrBracket)
}

// IsConvergence checks if an error is a convergence error.
func IsConvergence(err error) bool {
	return errors.Is(err, ErrConvergence)
}

// IsDimensionMismatch checks if an error is a dimensional mismatch.
func IsDimensionMismatch(err error) bool {
	return errors.Is(err, ErrDimensionMismatch)
}

// IsUnitParse checks if an error is a unit parse error.
func IsUnitParse(err error) bool {
	return errors.Is(err, ErrUnitParse)
}

// IsUnknownUnit checks if an error is an unknown unit error.
func IsUnknownUnit(err error) bool {
	return errors.Is(err, ErrUnknownUnit)
}

// IsUnknownConstant checks if an error is an unknown constant error.
func IsUnknownConstant(err error) bool {
	return errors.Is(err, ErrUnknownConstant)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
