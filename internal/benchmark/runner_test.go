package benchmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failing(err error) Executor {
	return ExecutorFunc(func(context.Context, Target, int) (*Outcome, error) {
		return nil, err
	})
}

func TestRunnerIsolatesFailures(t *testing.T) {
	var transitions []Transition
	r := &Runner{OnTransition: func(tr Transition) { transitions = append(transitions, tr) }}

	descs := []Descriptor{
		desc("ok1", "a"),
		{Name: "broken", Category: "a", DefaultRuns: 1, Executor: failing(errors.New("boom"))},
		{Name: "panics", Category: "b", DefaultRuns: 1, Executor: ExecutorFunc(func(context.Context, Target, int) (*Outcome, error) {
			panic("bad executor")
		})},
		{Name: "nil", Category: "b", DefaultRuns: 1, Executor: ExecutorFunc(func(context.Context, Target, int) (*Outcome, error) {
			return nil, nil
		})},
		desc("ok2", "b"),
	}

	suite, err := r.Run(context.Background(), Target{Name: "term"}, Environment{Host: "h"}, descs)
	require.NoError(t, err)

	require.Len(t, suite.Results, 2)
	assert.Equal(t, "ok1", suite.Results[0].Name)
	assert.Equal(t, "ok2", suite.Results[1].Name)
	assert.Equal(t, "term", suite.Results[1].Terminal)
	assert.NotNil(t, suite.Results[0].RawData)
	assert.NotNil(t, suite.Results[0].Metadata)

	require.Len(t, suite.Failures, 3)
	assert.Equal(t, "broken", suite.Failures[0].Name)
	assert.ErrorContains(t, suite.Failures[1].Err, "bad executor")
	assert.ErrorContains(t, suite.Failures[2].Err, "no outcome")

	var failed, completed int
	for _, tr := range transitions {
		switch tr.To {
		case StateFailed:
			failed++
			assert.Equal(t, StateRunning, tr.From)
			assert.Error(t, tr.Err)
		case StateCompleted:
			completed++
		}
	}
	assert.Equal(t, 3, failed)
	assert.Equal(t, 2, completed)
	assert.Len(t, transitions, 10)
}

func TestRunnerRunsOverride(t *testing.T) {
	var got []int
	record := ExecutorFunc(func(_ context.Context, _ Target, runs int) (*Outcome, error) {
		got = append(got, runs)
		return &Outcome{RawData: []float64{1}}, nil
	})
	descs := []Descriptor{
		{Name: "a", Category: "c", DefaultRuns: 5, Executor: record},
		{Name: "b", Category: "c", DefaultRuns: 100, Executor: record},
	}

	_, err := (&Runner{}).Run(context.Background(), Target{Name: "t"}, Environment{}, descs)
	require.NoError(t, err)
	_, err = (&Runner{Runs: 3}).Run(context.Background(), Target{Name: "t"}, Environment{}, descs)
	require.NoError(t, err)

	assert.Equal(t, []int{5, 100, 3, 3}, got)
}

func TestRunnerTargetError(t *testing.T) {
	descs := []Descriptor{
		{Name: "a", Category: "c", DefaultRuns: 1, Executor: failing(errors.New("unreachable"))},
	}
	suite, err := (&Runner{}).Run(context.Background(), Target{Name: "ghost"}, Environment{}, descs)

	var targetErr *TargetError
	require.ErrorAs(t, err, &targetErr)
	assert.Equal(t, "ghost", targetErr.Target)
	assert.ErrorContains(t, err, "unreachable")
	assert.Empty(t, suite.Results)
}

func TestRunnerCancelKeepsCompleted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blocking := ExecutorFunc(func(ctx context.Context, _ Target, _ int) (*Outcome, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	})
	descs := []Descriptor{
		desc("first", "a"),
		{Name: "second", Category: "a", DefaultRuns: 1, Executor: blocking},
		desc("third", "a"),
	}

	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &Runner{Now: func() time.Time { return stamp }}
	suite, err := r.Run(ctx, Target{Name: "t"}, Environment{}, descs)

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, suite.Results, 1)
	assert.Equal(t, "first", suite.Results[0].Name)
	assert.Equal(t, stamp, suite.Results[0].Timestamp)
	require.Len(t, suite.Failures, 1)
	assert.ErrorContains(t, suite.Failures[0].Err, "abandoned")
}

func TestRunnerEmptySelection(t *testing.T) {
	suite, err := (&Runner{}).Run(context.Background(), Target{Name: "t"}, Environment{}, nil)
	require.NoError(t, err)
	assert.Empty(t, suite.Results)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "state(9)", State(9).String())
}
