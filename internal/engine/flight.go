package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// flight is one in-flight generation request.
type flight struct {
	op     string
	target string
	epoch  uint64
}

// run executes work as the single in-flight request for target. Concurrent
// duplicate calls for the same target within the same epoch share one
// execution and its result. start runs under the state lock before work
// and validates the transition; it may stage state such as StatePlanning.
func (e *Engine) run(ctx context.Context, op, target string, start func() error, work func(context.Context, *flight) (any, error)) (any, error) {
	e.mu.Lock()
	key := fmt.Sprintf("%s@%d", target, e.epoch)
	e.mu.Unlock()

	v, err, shared := e.flights.Do(key, func() (any, error) {
		f, err := e.begin(op, target, start)
		if err != nil {
			return nil, err
		}
		defer e.finish(f)
		return work(ctx, f)
	})
	if shared {
		e.log.Debug("joined in-flight request", zap.String("op", op), zap.String("target", target))
	}
	return v, err
}

func (e *Engine) begin(op, target string, start func() error) (*flight, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inflight != nil {
		return nil, ErrBusy
	}
	if err := start(); err != nil {
		return nil, err
	}
	f := &flight{op: op, target: target, epoch: e.epoch}
	e.inflight = f
	e.lastErr = nil
	return f, nil
}

func (e *Engine) finish(f *flight) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inflight == f {
		e.inflight = nil
	}
}

// currentLocked reports whether f's result may still be applied.
func (e *Engine) currentLocked(f *flight) bool {
	return e.inflight == f && e.epoch == f.epoch
}

// fail records a failed request. When f is still current the engine
// returns to the given state and keeps err for LastError.
func (e *Engine) fail(f *flight, err error, back State) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Warn("request failed",
		zap.String("op", f.op),
		zap.String("target", f.target),
		zap.Error(err))

	if !e.currentLocked(f) {
		return err
	}
	e.state = back
	e.lastErr = err
	return err
}

// moveLocked enters s and invalidates results of any older request.
func (e *Engine) moveLocked(s State) {
	e.state = s
	e.epoch++
}
