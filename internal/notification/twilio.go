package notification

import (
	"context"
	"fmt"
	"html"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Theodlz/skyportal/internal/config"
	"github.com/Theodlz/skyportal/internal/models"
)

// TwilioNotifier delivers over one of the three Twilio-backed channels:
// SMS, voice call, or WhatsApp. All three share the preference gate and
// the on-shift/time-slot gate; they differ only in how the message is
// handed to the provider.
type TwilioNotifier struct {
	client   *twilio.RestClient
	channel  string
	from     string
	appTitle string
	gate     *Gate
	logger   zerolog.Logger
}

func NewSMSNotifier(cfg config.TwilioConfig, appTitle string, gate *Gate, logger zerolog.Logger) *TwilioNotifier {
	return newTwilioNotifier(cfg, models.ChannelSMS, appTitle, gate, logger)
}

func NewPhoneNotifier(cfg config.TwilioConfig, appTitle string, gate *Gate, logger zerolog.Logger) *TwilioNotifier {
	return newTwilioNotifier(cfg, models.ChannelPhone, appTitle, gate, logger)
}

func NewWhatsAppNotifier(cfg config.TwilioConfig, appTitle string, gate *Gate, logger zerolog.Logger) *TwilioNotifier {
	return newTwilioNotifier(cfg, models.ChannelWhatsApp, appTitle, gate, logger)
}

func newTwilioNotifier(cfg config.TwilioConfig, channel, appTitle string, gate *Gate, logger zerolog.Logger) *TwilioNotifier {
	var client *twilio.RestClient
	if cfg.Configured() {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
	}
	return &TwilioNotifier{
		client:   client,
		channel:  channel,
		from:     cfg.FromNumber,
		appTitle: appTitle,
		gate:     gate,
		logger:   logger.With().Str("notifier", channel).Logger(),
	}
}

func (n *TwilioNotifier) Name() string {
	return n.channel
}

func (n *TwilioNotifier) Notify(ctx context.Context, target models.DeliveryTarget) error {
	if n.client == nil || !n.gate.Allows(target, n.channel) {
		return nil
	}
	sending, err := n.gate.TimeGateAllows(ctx, target, n.channel)
	if err != nil {
		return fmt.Errorf("evaluate time gate: %w", err)
	}
	if !sending {
		return nil
	}

	switch n.channel {
	case models.ChannelSMS:
		params := &twilioapi.CreateMessageParams{}
		params.SetTo(target.User.ContactPhone)
		params.SetFrom(n.from)
		params.SetBody(fmt.Sprintf("%s - %s", n.appTitle, target.Text))
		_, err = n.client.Api.CreateMessage(params)

	case models.ChannelWhatsApp:
		params := &twilioapi.CreateMessageParams{}
		params.SetTo("whatsapp:" + target.User.ContactPhone)
		params.SetFrom("whatsapp:" + n.from)
		params.SetBody(fmt.Sprintf("%s - %s", n.appTitle, target.Text))
		_, err = n.client.Api.CreateMessage(params)

	case models.ChannelPhone:
		message := fmt.Sprintf("Greetings. This is the %s robot. %s", n.appTitle, target.Text)
		params := &twilioapi.CreateCallParams{}
		params.SetTo(target.User.ContactPhone)
		params.SetFrom(n.from)
		params.SetTwiml(fmt.Sprintf("<Response><Say>%s</Say></Response>", html.EscapeString(message)))
		_, err = n.client.Api.CreateCall(params)
	}
	if err != nil {
		return err
	}

	n.logger.Info().
		Str("notification_id", target.ID).
		Int64("user_id", target.User.ID).
		Str("notification_type", target.Type).
		Msg("notification sent")
	return nil
}
