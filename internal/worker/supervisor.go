package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DepthFunc reports the current depth of one pipeline queue.
type DepthFunc func() int

// Supervisor keeps the pipeline's workers alive. Each cycle it logs the
// queue depths and restarts any worker that has died; a worker is only
// ever down for at most one interval.
type Supervisor struct {
	workers    []*Worker
	interval   time.Duration
	candidates DepthFunc
	deliveries DepthFunc
	logger     zerolog.Logger
}

func NewSupervisor(interval time.Duration, candidates, deliveries DepthFunc, logger zerolog.Logger, workers ...*Worker) *Supervisor {
	return &Supervisor{
		workers:    workers,
		interval:   interval,
		candidates: candidates,
		deliveries: deliveries,
		logger:     logger.With().Str("component", "supervisor").Logger(),
	}
}

// Run starts every worker and supervises them until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	for _, w := range s.workers {
		w.Start(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Supervisor) cycle(ctx context.Context) {
	s.logger.Info().
		Int("candidate_queue", s.candidates()).
		Int("delivery_queue", s.deliveries()).
		Msg("queue depths")

	for _, w := range s.workers {
		if w.Alive() {
			continue
		}
		s.logger.Warn().Str("worker", w.Name()).Msg("worker dead, restarting")
		w.Start(ctx)
	}
}
