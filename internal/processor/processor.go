// Package processor implements the candidate processor: it consumes
// trigger events, resolves which users should be notified and why,
// persists one notification per matched user, and emits fully-resolved
// delivery targets onto the delivery queue.
package processor

import (
	"context"
	"database/sql"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/models"
	"github.com/Theodlz/skyportal/internal/queue"
	"github.com/Theodlz/skyportal/internal/repository"
)

var generatedTotal = metrics.NewCounter("notifications_generated_total")

type Processor struct {
	users         repository.UserRepository
	events        repository.EventRepository
	followups     repository.FollowupRepository
	sources       repository.SourceRepository
	groups        repository.GroupRepository
	notifications repository.NotificationRepository
	deliveries    *queue.Queue[models.DeliveryTarget]
	logger        zerolog.Logger
}

func New(
	users repository.UserRepository,
	events repository.EventRepository,
	followups repository.FollowupRepository,
	sources repository.SourceRepository,
	groups repository.GroupRepository,
	notifications repository.NotificationRepository,
	deliveries *queue.Queue[models.DeliveryTarget],
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		users:         users,
		events:        events,
		followups:     followups,
		sources:       sources,
		groups:        groups,
		notifications: notifications,
		deliveries:    deliveries,
		logger:        logger.With().Str("component", "processor").Logger(),
	}
}

// Run consumes the candidate queue until ctx is cancelled. A failed
// resolution drops the single event after logging; it never stops the loop.
func (p *Processor) Run(ctx context.Context, candidates *queue.Queue[models.TriggerEvent]) error {
	for {
		event, ok := candidates.Pop(ctx)
		if !ok {
			return ctx.Err()
		}

		targets, err := p.Resolve(ctx, event)
		if err != nil {
			p.logger.Error().Err(err).
				Str("target_class_name", string(event.Kind)).
				Int64("target_id", event.TargetID).
				Msg("dropping trigger event")
			continue
		}
		for _, target := range targets {
			p.deliveries.Append(target)
		}
		generatedTotal.Add(len(targets))
	}
}

// Resolve maps one trigger event to zero or more delivery targets,
// persisting a notification row for each.
func (p *Processor) Resolve(ctx context.Context, event models.TriggerEvent) ([]models.DeliveryTarget, error) {
	switch event.Kind {
	case models.TargetAlertNotice, models.TargetLocalization, models.TargetEventTag:
		return p.resolveAlertEvent(ctx, event)
	case models.TargetFollowupRequest:
		return p.resolveFollowupRequest(ctx, event)
	case models.TargetObservationPlan:
		return p.resolveObservationPlan(ctx, event)
	case models.TargetComment:
		return p.resolveComment(ctx, event)
	case models.TargetClassification:
		return p.resolveClassification(ctx, event)
	case models.TargetSpectrum:
		return p.resolveSpectrum(ctx, event)
	case models.TargetGroupAdmissionRequest:
		return p.resolveGroupAdmissionRequest(ctx, event)
	default:
		return nil, errors.Errorf("unhandled target kind %q", event.Kind)
	}
}

// notify persists one notification for the user and wraps it into a
// delivery target with the user snapshot.
func (p *Processor) notify(ctx context.Context, user models.User, text, notificationType, url string, content *models.AlertContent) (models.DeliveryTarget, error) {
	notif, err := p.notifications.Create(ctx, repository.CreateNotificationParams{
		UserID: user.ID,
		Text:   text,
		Type:   notificationType,
		URL:    url,
	})
	if err != nil {
		return models.DeliveryTarget{}, errors.Wrapf(err, "persist notification for user %d", user.ID)
	}
	return models.DeliveryTarget{
		Notification: notif,
		User:         user,
		Content:      content,
	}, nil
}

// missing reports whether err is a not-found lookup, which resolvers treat
// as "zero eligible users" rather than an error.
func missing(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
