// Package worker runs the pipeline's long-lived loops and keeps them
// alive: each loop is wrapped in a restartable Worker, and the Supervisor
// restarts any worker whose goroutine has exited.
package worker

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// RunFunc is one worker loop. It should block until ctx is cancelled; any
// other return, or a panic, counts as a death and triggers a restart.
type RunFunc func(ctx context.Context) error

// Worker wraps one loop in a goroutine whose liveness can be observed.
type Worker struct {
	name   string
	run    RunFunc
	logger zerolog.Logger

	mu   sync.Mutex
	done chan struct{}
}

func New(name string, run RunFunc, logger zerolog.Logger) *Worker {
	return &Worker{
		name:   name,
		run:    run,
		logger: logger.With().Str("worker", name).Logger(),
	}
}

func (w *Worker) Name() string {
	return w.name
}

// Start launches the loop. Calling Start on a live worker is a no-op, so
// the supervisor can call it unconditionally each cycle.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		select {
		case <-w.done:
		default:
			return
		}
	}

	done := make(chan struct{})
	w.done = done

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error().
					Interface("panic", r).
					Msg("worker panicked")
			}
		}()

		err := w.run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error().Err(err).Msg("worker exited")
		}
	}()
}

// Alive reports whether the worker's goroutine is still running.
func (w *Worker) Alive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		return false
	}
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}
