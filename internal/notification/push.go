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

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/config"
	"github.com/Theodlz/skyportal/internal/models"
)

// PushNotifier pokes the websocket flow service so connected frontends
// refetch their notification list. It is fire-and-forget and bypasses the
// preference gate: the in-app bell always reflects new rows.
type PushNotifier struct {
	flowURL string
	secret  string
	client  *http.Client
	logger  zerolog.Logger
}

type pushPayload struct {
	UserID int64  `json:"user_id"`
	Action string `json:"action"`
}

func NewPushNotifier(cfg config.PushConfig, logger zerolog.Logger) *PushNotifier {
	notifier := &PushNotifier{
		flowURL: strings.TrimSpace(cfg.FlowURL),
		secret:  cfg.ServiceSecret,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger.With().Str("notifier", "push").Logger(),
	}
	if notifier.flowURL == "" || notifier.secret == "" {
		notifier.logger.Warn().Msg("push notifier disabled, flow URL or service secret missing")
		notifier.flowURL = ""
	}
	return notifier
}

func (n *PushNotifier) Name() string {
	return "push"
}

func (n *PushNotifier) Notify(ctx context.Context, target models.DeliveryTarget) error {
	if n.flowURL == "" {
		return nil
	}

	token, err := n.serviceToken()
	if err != nil {
		return fmt.Errorf("sign service token: %w", err)
	}

	body, err := json.Marshal(pushPayload{UserID: target.User.ID, Action: "FETCH_NOTIFICATIONS"})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, n.flowURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+token)

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
		return fmt.Errorf("flow service returned status %d (%s)", response.StatusCode, trimmed)
	}
	return nil
}

func (n *PushNotifier) serviceToken() (string, error) {
	claims := jwt.MapClaims{
		"iss": "notification-queue",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(n.secret))
}
