package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/config"
	"github.com/Theodlz/skyportal/internal/models"
)

// SlackNotifier posts notifications to the chat-relay microservice, which
// forwards them to the user's own integration webhook. Alert-event targets
// are rendered as blocks; everything else as plain text with a link.
type SlackNotifier struct {
	relayURL string
	appURL   string
	client   *http.Client
	gate     *Gate
	logger   zerolog.Logger
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackPayload struct {
	URL    string       `json:"url"`
	Text   string       `json:"text,omitempty"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

func NewSlackNotifier(cfg config.SlackConfig, app config.AppConfig, gate *Gate, logger zerolog.Logger) *SlackNotifier {
	return &SlackNotifier{
		relayURL: cfg.RelayURL,
		appURL:   strings.TrimRight(app.BaseURL, "/"),
		client:   &http.Client{Timeout: 5 * time.Second},
		gate:     gate,
		logger:   logger.With().Str("notifier", "slack").Logger(),
	}
}

func (n *SlackNotifier) Name() string {
	return models.ChannelSlack
}

func (n *SlackNotifier) Notify(ctx context.Context, target models.DeliveryTarget) error {
	if n.relayURL == "" || !n.gate.Allows(target, models.ChannelSlack) {
		return nil
	}
	integrationURL := target.User.Preferences.SlackIntegration.URL

	payload := slackPayload{URL: integrationURL}
	if target.Content != nil {
		payload.Blocks = alertBlocks(target)
	} else {
		payload.Text = fmt.Sprintf("%s (%s%s)", target.Text, n.appURL, target.URL)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, n.relayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := n.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(response.Body)
		trimmed := strings.TrimSpace(string(raw))
		if trimmed == "" {
			trimmed = response.Status
		}
		return fmt.Errorf("slack relay returned status %d (%s)", response.StatusCode, trimmed)
	}

	n.logger.Info().
		Str("notification_id", target.ID).
		Int64("user_id", target.User.ID).
		Str("notification_type", target.Type).
		Msg("slack notification sent")
	return nil
}

func alertBlocks(target models.DeliveryTarget) []slackBlock {
	content := target.Content
	lines := []string{target.Text, fmt.Sprintf("Notice type: *%s*", content.NoticeType)}
	if len(content.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("Tags: %s", strings.Join(content.Tags, ", ")))
	}
	if content.LocalizationName != "" {
		lines = append(lines, fmt.Sprintf("Localization: %s", content.LocalizationName))
	}
	return []slackBlock{
		{Type: "section", Text: &slackText{Type: "mrkdwn", Text: strings.Join(lines, "\n")}},
	}
}
