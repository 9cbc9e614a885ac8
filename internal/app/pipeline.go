package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/Mnehmos/provecalc-engine/internal/platform/logging"
	"github.com/Mnehmos/provecalc-engine/internal/platform/telemetry"
)

// Solve requests run through a fixed pipeline: Validate → Perform → Verify
// → Respond. Perform produces candidate solutions; Verify substitutes them
// back into the equations that did not participate in solving, so a
// contradictory system never reaches the response step.

// PipelineStep identifies a stage of the solve pipeline.
type PipelineStep string

const (
	StepValidate PipelineStep = "validate"
	StepPerform  PipelineStep = "perform"
	StepVerify   PipelineStep = "verify"
	StepRespond  PipelineStep = "respond"
)

// PipelineError wraps an error with the step where it occurred.
type PipelineError struct {
	Step    PipelineStep
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Operation defines the functions for each pipeline step. Steps left nil
// are skipped.
type Operation[I, P, O any] struct {
	// Name identifies this operation for logging.
	Name string

	// Validate checks inputs and preconditions before any work happens.
	Validate func(ctx context.Context, input I) error

	// Perform produces the candidate result.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify confirms the candidate holds against the parts of the input
	// that Perform did not consume.
	Verify func(ctx context.Context, input I, performed P) error

	// Respond shapes the verified result for the caller.
	Respond func(ctx context.Context, input I, performed P) (O, error)
}

// Execute runs an operation through the full pipeline.
func Execute[I, P, O any](ctx context.Context, logger *slog.Logger, op Operation[I, P, O], input I) (O, error) {
	var zero O

	if l := logging.FromContext(ctx); l != nil {
		logger = l
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx = logging.WithContext(ctx, logger)
	ctx = logging.WithOperation(ctx, op.Name)
	logger = logging.FromContext(ctx)

	ctx, span := telemetry.ComputeTracer().Start(ctx, op.Name)
	defer span.End()
	fail := func(step PipelineStep, err error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(step))
	}

	start := time.Now()

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			logger.WarnContext(ctx, "validation failed", slog.Any("error", err))
			fail(StepValidate, err)

			return zero, &PipelineError{Step: StepValidate, Message: "input validation failed", Cause: err}
		}
	}

	var performed P
	if op.Perform != nil {
		var err error
		performed, err = op.Perform(ctx, input)
		if err != nil {
			logger.DebugContext(ctx, "perform failed", slog.Any("error", err))
			fail(StepPerform, err)

			return zero, &PipelineError{Step: StepPerform, Message: "operation failed", Cause: err}
		}
	}

	if op.Verify != nil {
		if err := op.Verify(ctx, input, performed); err != nil {
			logger.DebugContext(ctx, "verification failed", slog.Any("error", err))
			fail(StepVerify, err)

			return zero, &PipelineError{Step: StepVerify, Message: "verification failed", Cause: err}
		}
	}

	var result O
	if op.Respond != nil {
		var err error
		result, err = op.Respond(ctx, input, performed)
		if err != nil {
			logger.WarnContext(ctx, "respond formatting failed", slog.Any("error", err))
			fail(StepRespond, err)

			return zero, err
		}
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// IsPipelineError reports whether an error originated inside the pipeline.
func IsPipelineError(err error) bool {
	var pipeErr *PipelineError

	return errors.As(err, &pipeErr)
}

// PipelineStepOf extracts the failing step from a pipeline error.
func PipelineStepOf(err error) (PipelineStep, bool) {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Step, true
	}

	return "", false
}
