package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RunsStepsInOrder(t *testing.T) {
	var order []string

	op := Operation[int, int, string]{
		Name: "test-op",
		Validate: func(_ context.Context, input int) error {
			order = append(order, "validate")
			return nil
		},
		Perform: func(_ context.Context, input int) (int, error) {
			order = append(order, "perform")
			return input * 2, nil
		},
		Verify: func(_ context.Context, _ int, performed int) error {
			order = append(order, "verify")
			return nil
		},
		Respond: func(_ context.Context, _ int, performed int) (string, error) {
			order = append(order, "respond")
			return "done", nil
		},
	}

	result, err := Execute(context.Background(), nil, op, 21)

	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, []string{"validate", "perform", "verify", "respond"}, order)
}

func TestExecute_ValidateFailureShortCircuits(t *testing.T) {
	performed := false

	op := Operation[int, int, int]{
		Name: "test-op",
		Validate: func(context.Context, int) error {
			return errors.New("bad input")
		},
		Perform: func(_ context.Context, input int) (int, error) {
			performed = true
			return input, nil
		},
	}

	_, err := Execute(context.Background(), nil, op, 1)

	require.Error(t, err)
	assert.False(t, performed)
	assert.True(t, IsPipelineError(err))

	step, ok := PipelineStepOf(err)
	require.True(t, ok)
	assert.Equal(t, StepValidate, step)
}

func TestExecute_PerformFailurePreservesCause(t *testing.T) {
	sentinel := errors.New("perform broke")

	op := Operation[int, int, int]{
		Name: "test-op",
		Perform: func(context.Context, int) (int, error) {
			return 0, sentinel
		},
	}

	_, err := Execute(context.Background(), nil, op, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)

	step, ok := PipelineStepOf(err)
	require.True(t, ok)
	assert.Equal(t, StepPerform, step)
}

func TestExecute_VerifyRejectsCandidate(t *testing.T) {
	responded := false

	op := Operation[int, int, int]{
		Name: "test-op",
		Perform: func(_ context.Context, input int) (int, error) {
			return input, nil
		},
		Verify: func(context.Context, int, int) error {
			return errors.New("candidate rejected")
		},
		Respond: func(_ context.Context, _ int, performed int) (int, error) {
			responded = true
			return performed, nil
		},
	}

	_, err := Execute(context.Background(), nil, op, 1)

	require.Error(t, err)
	assert.False(t, responded)

	step, ok := PipelineStepOf(err)
	require.True(t, ok)
	assert.Equal(t, StepVerify, step)
}

func TestExecute_NilStepsAreSkipped(t *testing.T) {
	op := Operation[int, int, int]{
		Name: "test-op",
		Perform: func(_ context.Context, input int) (int, error) {
			return input + 1, nil
		},
		Respond: func(_ context.Context, _ int, performed int) (int, error) {
			return performed, nil
		},
	}

	result, err := Execute(context.Background(), nil, op, 41)

	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestIsPipelineError_PlainError(t *testing.T) {
	assert.False(t, IsPipelineError(errors.New("plain")))

	_, ok := PipelineStepOf(errors.New("plain"))
	assert.False(t, ok)
}
