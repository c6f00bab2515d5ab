package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
)

func statusSequence(statuses []bridgetypes.ExecutionStatus) Probe {
	i := 0
	return func(ctx context.Context) (bridgetypes.ExecutionStatus, error) {
		if i >= len(statuses) {
			return statuses[len(statuses)-1], nil
		}
		s := statuses[i]
		i++
		return s, nil
	}
}

func TestRunYieldsDistinctStatusesAndStopsAtTerminal(t *testing.T) {
	statuses := []bridgetypes.ExecutionStatus{
		{Kind: bridgetypes.StatusInitiated, SourceTx: "0xaaa"},
		{Kind: bridgetypes.StatusInitiated, SourceTx: "0xaaa"}, // repeat, must not yield again
		{Kind: bridgetypes.StatusExecutable},
		{Kind: bridgetypes.StatusExecuted, ExecutionTx: "0xbbb"},
	}
	probe := statusSequence(statuses)

	var seen []bridgetypes.StatusKind
	err := Run(context.Background(), probe, Options{PollIntervalMs: 1, TimeoutMs: 1000}, func(s bridgetypes.ExecutionStatus) error {
		seen = append(seen, s.Kind)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []bridgetypes.StatusKind{
		bridgetypes.StatusInitiated,
		bridgetypes.StatusExecutable,
		bridgetypes.StatusExecuted,
	}, seen)
}

func TestRunRejectsIllegalTransition(t *testing.T) {
	statuses := []bridgetypes.ExecutionStatus{
		{Kind: bridgetypes.StatusUnknown},
		{Kind: bridgetypes.StatusExecuted, ExecutionTx: "0xccc"},
	}
	probe := statusSequence(statuses)

	err := Run(context.Background(), probe, Options{PollIntervalMs: 1, TimeoutMs: 1000}, func(s bridgetypes.ExecutionStatus) error {
		return nil
	})

	require.Error(t, err)
	assert.True(t, bridgeerr.Has(err, bridgeerr.InvariantViolation))
}

func TestIsLegalTransitionTable(t *testing.T) {
	assert.True(t, isLegalTransition(bridgetypes.StatusUnknown, bridgetypes.StatusInitiated))
	assert.True(t, isLegalTransition(bridgetypes.StatusInitiated, bridgetypes.StatusFinalizedOnSource))
	assert.True(t, isLegalTransition(bridgetypes.StatusInitiated, bridgetypes.StatusExecutable))
	assert.True(t, isLegalTransition(bridgetypes.StatusFinalizedOnSource, bridgetypes.StatusProven))
	assert.True(t, isLegalTransition(bridgetypes.StatusProven, bridgetypes.StatusExecutable))
	assert.True(t, isLegalTransition(bridgetypes.StatusExecutable, bridgetypes.StatusExecuting))
	assert.True(t, isLegalTransition(bridgetypes.StatusExecuting, bridgetypes.StatusExecuted))
	assert.True(t, isLegalTransition(bridgetypes.StatusExecutable, bridgetypes.StatusFailed))

	assert.False(t, isLegalTransition(bridgetypes.StatusUnknown, bridgetypes.StatusExecuted))
	assert.False(t, isLegalTransition(bridgetypes.StatusExecuted, bridgetypes.StatusFailed))
}

func TestRunTimesOutWithoutTerminalStatus(t *testing.T) {
	probe := func(ctx context.Context) (bridgetypes.ExecutionStatus, error) {
		return bridgetypes.ExecutionStatus{Kind: bridgetypes.StatusExecutable}, nil
	}

	err := Run(context.Background(), probe, Options{PollIntervalMs: 1, TimeoutMs: 1}, func(s bridgetypes.ExecutionStatus) error {
		return nil
	})

	require.Error(t, err)
	assert.True(t, bridgeerr.Has(err, bridgeerr.Timeout))
}
