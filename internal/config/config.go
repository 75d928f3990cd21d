package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultPublicViewURL is the read-only shared view of the provider sheet.
const DefaultPublicViewURL = "https://airtable.com/appqTkwG4v9gpDjl8/shrAUcmQU0GoSZYbu?format=json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigin      string

	// Provider source. Setting any of the token, base, or table switches the
	// source to the token-gated API; missing pieces are reported per request.
	AirtablePublicViewURL string
	AirtableAPIURL        string
	AirtableToken         string
	AirtableBaseID        string
	AirtableTable         string
	AirtableView          string
	AirtableTimeout       time.Duration

	// Sign-up sink. Submissions are only logged unless brokers are set.
	KafkaBrokers     []string
	KafkaSignupTopic string

	// ContentFile overrides the embedded page content and is watched for edits.
	ContentFile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	airtableTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("AIRTABLE_TIMEOUT", "0s"))
	if err != nil || airtableTimeout < 0 {
		return nil, errors.New("invalid AIRTABLE_TIMEOUT")
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigin:      sharedcfg.EnvOrDefault("CORS_ORIGIN", "*"),

		AirtablePublicViewURL: sharedcfg.EnvOrDefault("AIRTABLE_PUBLIC_VIEW_URL", DefaultPublicViewURL),
		AirtableAPIURL:        sharedcfg.EnvOrDefault("AIRTABLE_API_URL", "https://api.airtable.com"),
		AirtableToken:         os.Getenv("AIRTABLE_TOKEN"),
		AirtableBaseID:        os.Getenv("AIRTABLE_BASE_ID"),
		AirtableTable:         os.Getenv("AIRTABLE_TABLE"),
		AirtableView:          os.Getenv("AIRTABLE_VIEW"),
		AirtableTimeout:       airtableTimeout,

		KafkaBrokers:     brokers,
		KafkaSignupTopic: sharedcfg.EnvOrDefault("KAFKA_SIGNUP_TOPIC", "vrn-signups"),

		ContentFile: os.Getenv("CONTENT_FILE"),
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSignupTopic == "" {
		return nil, errors.New("KAFKA_SIGNUP_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// SignupSinkEnabled reports whether sign-ups are published to Kafka.
func (c *Config) SignupSinkEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
