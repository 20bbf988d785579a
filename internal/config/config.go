package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DBPath     string        `envconfig:"DATABASE_PATH" default:"./data/hbd.db"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr   string        `envconfig:"HTTP_ADDR" default:":8080"` // healthz + admin sweep
	RunMode    string        `envconfig:"RUN_MODE" default:"cron"`   // cron|once
	AdminToken string        `envconfig:"ADMIN_TOKEN" required:"true"`
	SendPacing time.Duration `envconfig:"SEND_PACING" default:"1s"` // gap between consecutive sends

	SMSProvider string `envconfig:"SMS_PROVIDER" default:"surge"` // surge|twilio|messagecentral

	SurgeAPIKey    string `envconfig:"SURGE_API_KEY"`
	SurgeAccountID string `envconfig:"SURGE_ACCOUNT_ID"`

	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `envconfig:"TWILIO_FROM_NUMBER"`

	MessageCentralCustomerID  string `envconfig:"MESSAGE_CENTRAL_CUSTOMER_ID"`
	MessageCentralEmail       string `envconfig:"MESSAGE_CENTRAL_EMAIL"`
	MessageCentralPasswordB64 string `envconfig:"MESSAGE_CENTRAL_PASSWORD_B64"`
}

// Load reads environment variables into Config. A local .env file is applied
// first when present; missing files are fine in production.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
