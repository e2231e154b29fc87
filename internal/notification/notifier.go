// Package notification implements the delivery dispatcher: given one
// delivery target it attempts every applicable channel independently,
// never letting one channel's failure block another.
package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/models"
)

// Notifier is one delivery channel. Notify decides its own eligibility
// from the target and returns nil when the channel does not apply.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, target models.DeliveryTarget) error
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

func logNotifyError(logger zerolog.Logger, err error, channel string, target models.DeliveryTarget) {
	if err == nil {
		return
	}
	logger.Warn().
		Err(err).
		Str("notification_id", target.ID).
		Str("notification_type", target.Type).
		Str("channel", channel).
		Msg("failed to deliver notification")
}
