package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/config"
	"github.com/Theodlz/skyportal/internal/models"
)

// EmailNotifier sends notifications over SMTP. Alert-event targets get a
// rendered HTML summary from the attached content; everything else gets
// the notification text with a link back into the application.
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	appTitle string
	appURL   string
	gate     *Gate
	logger   zerolog.Logger
}

func NewEmailNotifier(cfg config.EmailConfig, app config.AppConfig, gate *Gate, logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		host:     strings.TrimSpace(cfg.SMTPHost),
		port:     cfg.SMTPPort,
		username: strings.TrimSpace(cfg.Username),
		password: cfg.Password,
		from:     strings.TrimSpace(cfg.From),
		appTitle: app.Title,
		appURL:   strings.TrimRight(app.BaseURL, "/"),
		gate:     gate,
		logger:   logger.With().Str("notifier", "email").Logger(),
	}
}

func (n *EmailNotifier) Name() string {
	return models.ChannelEmail
}

func (n *EmailNotifier) Notify(ctx context.Context, target models.DeliveryTarget) error {
	if !n.gate.Allows(target, models.ChannelEmail) {
		return nil
	}

	subject := n.subject(target)
	if subject == "" {
		return nil
	}

	var body string
	contentType := "text/plain"
	if target.Content != nil {
		body = n.alertBody(target)
		contentType = "text/html"
	} else {
		body = fmt.Sprintf("%s (%s%s)", target.Text, n.appURL, target.URL)
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s; charset=\"UTF-8\"\r\n\r\n",
		n.from, target.User.ContactEmail, subject, contentType)
	message := []byte(headers + body)
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}
	if err := smtp.SendMail(addr, auth, n.from, []string{target.User.ContactEmail}, message); err != nil {
		return err
	}

	n.logger.Info().
		Str("notification_id", target.ID).
		Int64("user_id", target.User.ID).
		Str("subject", subject).
		Msg("email notification sent")
	return nil
}

func (n *EmailNotifier) subject(target models.DeliveryTarget) string {
	switch models.ResourceTypeFor(target.Type) {
	case models.ResourceAlertEvents:
		if target.Content != nil {
			return fmt.Sprintf("%s - New alert event %s", n.appTitle, formatDate(target.Content.DateObs))
		}
		return fmt.Sprintf("%s - New alert event", n.appTitle)
	case models.ResourceSources:
		return fmt.Sprintf("%s - New activity on a source", n.appTitle)
	case models.ResourceFavoriteSources:
		return fmt.Sprintf("%s - New activity on a favorite source", n.appTitle)
	case models.ResourceFollowupRequests:
		return fmt.Sprintf("%s - New follow-up request", n.appTitle)
	case models.ResourceObservationPlans:
		return fmt.Sprintf("%s - New observation plan", n.appTitle)
	case models.ResourceAnalysisServices:
		return fmt.Sprintf("%s - New completed analysis service", n.appTitle)
	case models.ResourceMention:
		return fmt.Sprintf("%s - User mentioned you in a comment", n.appTitle)
	case models.ResourceGroupAdmissionRequests:
		return fmt.Sprintf("%s - New group admission request", n.appTitle)
	}
	return ""
}

func (n *EmailNotifier) alertBody(target models.DeliveryTarget) string {
	content := target.Content
	body := strings.Builder{}
	body.WriteString("<html><body>")
	body.WriteString(fmt.Sprintf("<p>%s</p>", target.Text))
	body.WriteString(fmt.Sprintf("<p>Notice type: %s</p>", content.NoticeType))
	if len(content.Tags) > 0 {
		body.WriteString(fmt.Sprintf("<p>Tags: %s</p>", strings.Join(content.Tags, ", ")))
	}
	if content.LocalizationName != "" {
		body.WriteString(fmt.Sprintf("<p>Localization: %s</p>", content.LocalizationName))
	}
	body.WriteString(fmt.Sprintf(`<p><a href="%s%s">View on %s</a></p>`, n.appURL, target.URL, n.appTitle))
	body.WriteString("</body></html>")
	return body.String()
}
