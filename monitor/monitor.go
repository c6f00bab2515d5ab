// Package monitor is the generic polling driver that turns a status
// probe into a stream of distinct statuses, enforcing the execution
// status transition DAG (spec.md §4.4). It knows nothing about chains;
// it is handed a probe closure by the route adapter that owns the
// actual RPC reads.
package monitor

import (
	"context"
	"time"

	"github.com/baserelay/bridge-sdk/bridgeerr"
	"github.com/baserelay/bridge-sdk/bridgetypes"
	"github.com/baserelay/bridge-sdk/log"
)

const (
	DefaultTimeoutMs      = 60_000
	DefaultPollIntervalMs = 5_000
)

// Options parameterizes a monitor run.
type Options struct {
	TimeoutMs      uint64
	PollIntervalMs uint64
}

// WithDefaults fills zero fields with the package defaults.
func (o Options) WithDefaults() Options {
	if o.TimeoutMs == 0 {
		o.TimeoutMs = DefaultTimeoutMs
	}
	if o.PollIntervalMs == 0 {
		o.PollIntervalMs = DefaultPollIntervalMs
	}
	return o
}

// Probe reads the current status of the thing being monitored.
type Probe func(ctx context.Context) (bridgetypes.ExecutionStatus, error)

// legal is the transition DAG from spec.md §4.4: besides self-loops
// and "→ Failed"/"→ Expired" from any non-terminal status (handled
// separately below), these are the only legal forward edges.
var legal = map[bridgetypes.StatusKind][]bridgetypes.StatusKind{
	bridgetypes.StatusUnknown:           {bridgetypes.StatusInitiated},
	bridgetypes.StatusInitiated:         {bridgetypes.StatusFinalizedOnSource, bridgetypes.StatusExecutable},
	bridgetypes.StatusFinalizedOnSource: {bridgetypes.StatusProven, bridgetypes.StatusExecutable},
	bridgetypes.StatusProven:            {bridgetypes.StatusExecutable},
	bridgetypes.StatusExecutable:        {bridgetypes.StatusExecuting, bridgetypes.StatusExecuted},
	bridgetypes.StatusExecuting:         {bridgetypes.StatusExecuted},
}

func isLegalTransition(from, to bridgetypes.StatusKind) bool {
	if from == to {
		return true
	}
	if to == bridgetypes.StatusFailed || to == bridgetypes.StatusExpired {
		return !from.Terminal()
	}
	for _, allowed := range legal[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Run polls probe on a cadence, yielding each distinct status (by
// ExecutionStatus.Key) to onStatus until a terminal status is reached
// or the timeout elapses. A new Run call is a fresh probe loop: the
// monitor holds no state across calls (spec.md §5 "a new monitor call
// on the same ref starts a fresh probe loop").
func Run(ctx context.Context, probe Probe, opts Options, onStatus func(bridgetypes.ExecutionStatus) error) error {
	return RunWithLogger(ctx, probe, opts, onStatus, log.Nop())
}

// RunWithLogger is Run with an explicit logger for transition tracing.
func RunWithLogger(ctx context.Context, probe Probe, opts Options, onStatus func(bridgetypes.ExecutionStatus) error, logger log.Logger) error {
	opts = opts.WithDefaults()
	deadline := time.Now().Add(time.Duration(opts.TimeoutMs) * time.Millisecond)
	interval := time.Duration(opts.PollIntervalMs) * time.Millisecond

	var lastKey string
	haveLast := false
	lastKind := bridgetypes.StatusUnknown

	for {
		status, err := probe(ctx)
		if err != nil {
			return err
		}

		key := status.Key()
		if !haveLast || key != lastKey {
			if haveLast && !isLegalTransition(lastKind, status.Kind) {
				return bridgeerr.Newf(bridgeerr.InvariantViolation, bridgeerr.StageMonitor, "illegal status transition %s -> %s", lastKind, status.Kind)
			}
			logger.Debug().Str("status", string(status.Kind)).Msg("monitor status transition")
			if err := onStatus(status); err != nil {
				return err
			}
			lastKey = key
			haveLast = true
			lastKind = status.Kind
		}

		if status.Kind.Terminal() {
			return nil
		}
		if time.Now().After(deadline) {
			return bridgeerr.New(bridgeerr.Timeout, bridgeerr.StageMonitor, "monitor exceeded timeout budget")
		}

		select {
		case <-ctx.Done():
			return bridgeerr.Wrap(bridgeerr.Timeout, bridgeerr.StageMonitor, "monitor cancelled", ctx.Err())
		case <-time.After(interval):
		}
	}
}
