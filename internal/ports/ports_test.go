package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChecker implements HealthChecker for testing.
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) error {
	return m.err
}

func TestNewHealthRegistry(t *testing.T) {
	registry := NewHealthRegistry()

	require.NotNil(t, registry)
	assert.NotNil(t, registry.checkers)
	assert.Empty(t, registry.checkers)
}

func TestRegister_Success(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &mockChecker{name: "engine"}

	err := registry.Register(checker)

	require.NoError(t, err)
	assert.Len(t, registry.checkers, 1)
	assert.Equal(t, "engine", registry.checkers[0].Name())
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "engine"}
	checker2 := &mockChecker{name: "engine"}

	err := registry.Register(checker1)
	require.NoError(t, err)

	err = registry.Register(checker2)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "engine")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckerFunc(t *testing.T) {
	registry := NewHealthRegistry()
	called := false

	err := registry.Register(CheckerFunc{
		CheckName: "units",
		Fn: func(ctx context.Context) error {
			called = true
			return nil
		},
	})
	require.NoError(t, err)

	result := registry.CheckAll(context.Background())
	assert.True(t, called)
	assert.Equal(t, HealthStatusHealthy, result.Checks["units"].Status)
}

func TestCheckAll_NoCheckers(t *testing.T) {
	registry := NewHealthRegistry()
	ctx := context.Background()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.NotNil(t, result.Checks)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

func TestCheckAll_AllHealthy(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "engine", err: nil}
	checker2 := &mockChecker{name: "units", err: nil}
	checker3 := &mockChecker{name: "telemetry", err: nil}

	require.NoError(t, registry.Register(checker1))
	require.NoError(t, registry.Register(checker2))
	require.NoError(t, registry.Register(checker3))

	ctx := context.Background()
	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Len(t, result.Checks, 3)

	assert.Equal(t, HealthStatusHealthy, result.Checks["engine"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["units"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["telemetry"].Status)

	assert.Empty(t, result.Checks["engine"].Message)
	assert.Empty(t, result.Checks["units"].Message)
	assert.Empty(t, result.Checks["telemetry"].Message)
}

func TestCheckAll_OneUnhealthy(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "engine", err: nil}
	checker2 := &mockChecker{name: "units", err: errors.New("registry unavailable")}
	checker3 := &mockChecker{name: "telemetry", err: nil}

	require.NoError(t, registry.Register(checker1))
	require.NoError(t, registry.Register(checker2))
	require.NoError(t, registry.Register(checker3))

	ctx := context.Background()
	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 3)

	assert.Equal(t, HealthStatusHealthy, result.Checks["engine"].Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["units"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["telemetry"].Status)

	assert.Empty(t, result.Checks["engine"].Message)
	assert.Equal(t, "registry unavailable", result.Checks["units"].Message)
	assert.Empty(t, result.Checks["telemetry"].Message)
}

// contextAwareChecker respects context cancellation.
type contextAwareChecker struct {
	name string
}

func (c *contextAwareChecker) Name() string {
	return c.name
}

func (c *contextAwareChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &contextAwareChecker{name: "slow-check"}

	require.NoError(t, registry.Register(checker))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 1)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["slow-check"].Status)
	assert.Contains(t, result.Checks["slow-check"].Message, "context canceled")
}
