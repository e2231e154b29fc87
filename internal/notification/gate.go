package notification

import (
	"context"
	"strings"
	"time"

	"github.com/Theodlz/skyportal/internal/config"
	"github.com/Theodlz/skyportal/internal/models"
	"github.com/Theodlz/skyportal/internal/repository"
)

// Gate is the shared per-channel eligibility check: deployment-level
// enablement, required contact details, and the recipient's preference
// profile for the notification's resource type. It also evaluates the
// on-shift/time-slot gate shared by the Twilio-backed channels.
type Gate struct {
	emailEnabled     bool
	twilioConfigured bool
	slackPreamble    string
	shifts           repository.ShiftRepository
	now              func() time.Time
}

func NewGate(cfg *config.Config, shifts repository.ShiftRepository) *Gate {
	return &Gate{
		emailEnabled:     cfg.Email.Enabled && cfg.Email.SMTPHost != "" && cfg.Email.From != "",
		twilioConfigured: cfg.Twilio.Configured(),
		slackPreamble:    cfg.Slack.ExpectedURLPreamble,
		shifts:           shifts,
		now:              time.Now,
	}
}

// Allows reports whether the channel applies to this target at all.
// Group admission requests bypass ordinary preference checks for email,
// so admins are always notified; for the other preference-gated resource
// types the resource entry and its channel sub-entry must both be active.
func (g *Gate) Allows(target models.DeliveryTarget, channel string) bool {
	resourceType := models.ResourceTypeFor(target.Type)
	if resourceType == "" {
		return false
	}

	switch channel {
	case models.ChannelEmail:
		if !g.emailEnabled || target.User.ContactEmail == "" {
			return false
		}
		if resourceType == models.ResourceGroupAdmissionRequests {
			return true
		}
	case models.ChannelSMS, models.ChannelPhone, models.ChannelWhatsApp:
		if !g.twilioConfigured || target.User.ContactPhone == "" {
			return false
		}
	case models.ChannelSlack:
		integration := target.User.Preferences.SlackIntegration
		if integration == nil || !integration.Active {
			return false
		}
		if !strings.HasPrefix(integration.URL, g.slackPreamble) {
			return false
		}
		if resourceType == models.ResourceGroupAdmissionRequests {
			return true
		}
	}

	prefs := target.User.Preferences.Resource(resourceType)
	if prefs == nil || !prefs.Active {
		return false
	}
	channelPrefs := prefs.Channel(channel)
	return channelPrefs != nil && channelPrefs.Active
}

// TimeGateAllows evaluates the on-shift/time-slot gate: the channel fires
// if on_shift is requested and the user currently holds a shift, or if the
// current UTC hour falls inside the configured window. The two conditions
// are independent ORs; with neither configured the channel stays silent.
func (g *Gate) TimeGateAllows(ctx context.Context, target models.DeliveryTarget, channel string) (bool, error) {
	prefs := target.User.Preferences.Resource(models.ResourceTypeFor(target.Type))
	channelPrefs := prefs.Channel(channel)
	if channelPrefs == nil {
		return false, nil
	}

	now := g.now().UTC()
	if channelPrefs.OnShift {
		onShift, err := g.shifts.UserOnShift(ctx, target.User.ID, now)
		if err != nil {
			return false, err
		}
		if onShift {
			return true, nil
		}
	}
	return withinTimeSlot(channelPrefs.TimeSlot, now.Hour()), nil
}

// withinTimeSlot checks an inclusive [start, end] hour window. start > end
// wraps past midnight; start == end (the [0, 0] default) always matches,
// so such a slot applies no time restriction. A missing slot never matches.
func withinTimeSlot(slot []int, hour int) bool {
	if len(slot) != 2 {
		return false
	}
	start, end := slot[0], slot[1]
	if start < end {
		return hour >= start && hour <= end
	}
	return hour >= start || hour <= end
}
