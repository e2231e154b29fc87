package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Theodlz/skyportal/internal/models"
)

// resolveAlertEvent handles the three alert-event trigger kinds: a new
// notice, a new localization, and a new tag on an existing event. Tag
// triggers are resolved through the event's first localization; an event
// with no localization produces no notifications.
func (p *Processor) resolveAlertEvent(ctx context.Context, event models.TriggerEvent) ([]models.DeliveryTarget, error) {
	users, err := p.users.ListAlertSubscribers(ctx, event.Kind == models.TargetEventTag)
	if err != nil {
		return nil, errors.Wrap(err, "list alert subscribers")
	}
	if len(users) == 0 {
		return nil, nil
	}

	var (
		notice *models.AlertNotice
		loc    *models.Localization
		tag    *models.EventTag
		alert  *models.AlertEvent
	)

	switch event.Kind {
	case models.TargetAlertNotice:
		notice, err = p.events.GetNotice(ctx, event.TargetID)
		if missing(err) {
			return nil, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "get notice")
		}
		alert, err = p.events.GetEvent(ctx, notice.DateObs)

	case models.TargetLocalization:
		loc, err = p.events.GetLocalization(ctx, event.TargetID)
		if missing(err) {
			return nil, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "get localization")
		}
		alert, err = p.events.GetEvent(ctx, loc.DateObs)

	case models.TargetEventTag:
		tag, err = p.events.GetTag(ctx, event.TargetID)
		if missing(err) {
			return nil, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "get tag")
		}
		alert, err = p.events.GetEvent(ctx, tag.DateObs)
		if err == nil {
			if len(alert.LocalizationIDs) == 0 {
				return nil, nil
			}
			loc, err = p.events.GetLocalization(ctx, alert.LocalizationIDs[0])
		}
	}
	if missing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get alert event")
	}

	// The triggering notice: the target itself for notice triggers,
	// otherwise the localization's source notice.
	if notice == nil {
		if loc == nil {
			return nil, nil
		}
		if notice = alert.Notice(loc.NoticeID); notice == nil {
			return nil, nil
		}
	}

	dateText := formatDateObs(alert.DateObs)
	url := "/alert_events/" + formatDateObsURL(alert.DateObs)

	var text, notificationType string
	switch {
	case event.Kind == models.TargetEventTag:
		text = fmt.Sprintf("Updated alert event *%s*, with tag *%s*", dateText, tag.Text)
		notificationType = models.TypeAlertEventsNewTag
	case len(alert.Notices) > 1:
		text = fmt.Sprintf("New notice for alert event *%s*, with notice type *%s*", dateText, notice.NoticeType)
		notificationType = models.TypeAlertEvents
	default:
		text = fmt.Sprintf("New alert event *%s*, with notice type *%s*", dateText, notice.NoticeType)
		notificationType = models.TypeAlertEvents
	}

	content := &models.AlertContent{
		DateObs:    alert.DateObs,
		NoticeType: notice.NoticeType,
		Tags:       alert.Tags,
	}
	if loc != nil {
		content.LocalizationName = loc.Name
	}
	if tag != nil {
		content.NewTag = tag.Text
	}

	var targets []models.DeliveryTarget
	for _, user := range users {
		prefs := user.Preferences.Resource(models.ResourceAlertEvents)
		if prefs == nil || len(prefs.Profiles) == 0 {
			continue
		}

		// A user is notified once if any of their named profiles matches.
		matched := false
		for _, profile := range prefs.Profiles {
			ok, err := profileMatches(profile, notice.NoticeType, alert.Tags, alert.PropertySets, loc)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		target, err := p.notify(ctx, user, text, notificationType, url, content)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func formatDateObs(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

func formatDateObsURL(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}
