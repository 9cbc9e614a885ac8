package trace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepOrdering(t *testing.T) {
	tr := New()
	tr.Step("parsed %d equation(s)", 2)
	tr.Step("solved for %q", "x")

	assert.Equal(t, []string{"parsed 2 equation(s)", `solved for "x"`}, tr.Steps())
}

func TestNilTraceIsSafe(t *testing.T) {
	var tr *Trace
	tr.Step("ignored")
	assert.Nil(t, tr.Steps())

	got, err := tr.GetOrCompute("k", func() (any, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestContextRoundTrip(t *testing.T) {
	tr := New()
	ctx := WithContext(context.Background(), tr)

	assert.Same(t, tr, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, FromContext(nil))
}

func TestGetOrComputeMemoizes(t *testing.T) {
	tr := New()
	calls := 0
	fetch := func() (any, error) {
		calls++
		return "value", nil
	}

	got, err := tr.GetOrCompute("key", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	got, err = tr.GetOrCompute("key", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	tr := New()
	calls := 0

	_, err := tr.GetOrCompute("key", func() (any, error) {
		calls++
		return nil, errors.New("parse failed")
	})
	require.Error(t, err)

	got, err := tr.GetOrCompute("key", func() (any, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)
}

func TestConcurrentSteps(t *testing.T) {
	tr := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Step("step")
		}()
	}
	wg.Wait()

	assert.Len(t, tr.Steps(), 50)
}
