package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func parseYAML(t *testing.T, raw string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(raw)); err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg, err := Parse(v)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestParseDefaults(t *testing.T) {
	cfg := parseYAML(t, `database_url: "postgres://localhost/skyportal"`)

	if cfg.ServerPort != "64510" {
		t.Errorf("ServerPort = %q, want 64510", cfg.ServerPort)
	}
	if cfg.App.Title != "SkyPortal" {
		t.Errorf("App.Title = %q, want SkyPortal", cfg.App.Title)
	}
	if cfg.Email.SMTPPort != 587 {
		t.Errorf("Email.SMTPPort = %d, want 587", cfg.Email.SMTPPort)
	}
	if cfg.Slack.ExpectedURLPreamble != "https://hooks.slack.com/" {
		t.Errorf("Slack.ExpectedURLPreamble = %q", cfg.Slack.ExpectedURLPreamble)
	}
	if cfg.Supervisor.Interval != 10*time.Second {
		t.Errorf("Supervisor.Interval = %v, want 10s", cfg.Supervisor.Interval)
	}
	if cfg.Twilio.Configured() {
		t.Error("empty twilio section should not be configured")
	}
}

func TestParseFullConfig(t *testing.T) {
	cfg := parseYAML(t, `
database_url: "postgres://localhost/skyportal"
server_port: "9000"
app:
  title: "Fritz"
  base_url: "https://fritz.science"
email:
  enabled: true
  from: "noreply@fritz.science"
  smtp_host: "smtp.fritz.science"
  smtp_port: 465
twilio:
  account_sid: "AC123"
  auth_token: "secret"
  from_number: "+15550000000"
slack:
  relay_url: "http://localhost:64500"
supervisor:
  interval: 30s
`)

	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q, want 9000", cfg.ServerPort)
	}
	if cfg.App.Title != "Fritz" || cfg.App.BaseURL != "https://fritz.science" {
		t.Errorf("App = %+v", cfg.App)
	}
	if !cfg.Email.Enabled || cfg.Email.SMTPPort != 465 {
		t.Errorf("Email = %+v", cfg.Email)
	}
	if !cfg.Twilio.Configured() {
		t.Error("twilio section should be configured")
	}
	if cfg.Slack.RelayURL != "http://localhost:64500" {
		t.Errorf("Slack.RelayURL = %q", cfg.Slack.RelayURL)
	}
	if cfg.Supervisor.Interval != 30*time.Second {
		t.Errorf("Supervisor.Interval = %v, want 30s", cfg.Supervisor.Interval)
	}
}
