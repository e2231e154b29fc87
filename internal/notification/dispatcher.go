package notification

import (
	"context"
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/models"
	"github.com/Theodlz/skyportal/internal/queue"
)

// Dispatcher consumes delivery targets and fans each one out across the
// configured channels. Every channel is attempted exactly once per target
// regardless of the other channels' outcomes.
type Dispatcher struct {
	notifiers []Notifier
	logger    zerolog.Logger
}

func NewDispatcher(logger zerolog.Logger, notifiers ...Notifier) *Dispatcher {
	active := make([]Notifier, 0, len(notifiers))
	for _, notifier := range notifiers {
		if notifier != nil {
			active = append(active, notifier)
		}
	}
	return &Dispatcher{
		notifiers: active,
		logger:    logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Run consumes the delivery queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, deliveries *queue.Queue[models.DeliveryTarget]) error {
	for {
		target, ok := deliveries.Pop(ctx)
		if !ok {
			return ctx.Err()
		}
		d.Dispatch(ctx, target)
	}
}

// Dispatch attempts every channel for one target, isolating failures.
func (d *Dispatcher) Dispatch(ctx context.Context, target models.DeliveryTarget) {
	for _, notifier := range d.notifiers {
		err := d.send(ctx, notifier, target)
		if err != nil {
			logNotifyError(d.logger, err, notifier.Name(), target)
			metrics.GetOrCreateCounter(
				fmt.Sprintf(`notification_delivery_errors_total{channel=%q}`, notifier.Name()),
			).Inc()
			continue
		}
		metrics.GetOrCreateCounter(
			fmt.Sprintf(`notification_deliveries_total{channel=%q}`, notifier.Name()),
		).Inc()
	}
}

// send wraps one channel attempt so that a panicking channel cannot take
// the sibling channels down with it.
func (d *Dispatcher) send(ctx context.Context, notifier Notifier, target models.DeliveryTarget) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panic: %v", r)
		}
	}()
	return notifier.Notify(ctx, target)
}
