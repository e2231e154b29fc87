package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Title   string `mapstructure:"title"`
	BaseURL string `mapstructure:"base_url"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	From     string `mapstructure:"from"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
}

// Configured reports whether the Twilio-backed channels (voice, SMS,
// WhatsApp) are usable in this deployment.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

type SlackConfig struct {
	RelayURL            string `mapstructure:"relay_url"`
	ExpectedURLPreamble string `mapstructure:"expected_url_preamble"`
}

type PushConfig struct {
	FlowURL       string `mapstructure:"flow_url"`
	ServiceSecret string `mapstructure:"service_secret"`
}

type SupervisorConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	DatabaseURL string           `mapstructure:"database_url"`
	ServerPort  string           `mapstructure:"server_port"`
	App         AppConfig        `mapstructure:"app"`
	Email       EmailConfig      `mapstructure:"email"`
	Twilio      TwilioConfig     `mapstructure:"twilio"`
	Slack       SlackConfig      `mapstructure:"slack"`
	Push        PushConfig       `mapstructure:"push"`
	Supervisor  SupervisorConfig `mapstructure:"supervisor"`
}

// Load reads the configuration from a YAML file and returns a Config instance.
func Load() *Config {
	v := viper.New()

	// Look for config in the current directory and ./config
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	config, err := Parse(v)
	if err != nil {
		log.Fatalf("Error unmarshalling config: %v", err)
	}
	return config
}

// Parse decodes a populated viper instance and applies fallback defaults.
func Parse(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.ServerPort == "" {
		config.ServerPort = "64510"
	}
	if config.App.Title == "" {
		config.App.Title = "SkyPortal"
	}
	if config.Email.SMTPPort == 0 {
		config.Email.SMTPPort = 587
	}
	if config.Slack.ExpectedURLPreamble == "" {
		config.Slack.ExpectedURLPreamble = "https://hooks.slack.com/"
	}
	if config.Supervisor.Interval == 0 {
		config.Supervisor.Interval = 10 * time.Second
	}

	return &config, nil
}
