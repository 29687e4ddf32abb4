package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL  string        `envconfig:"DATABASE_URL" required:"true"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	AutoMigrate  bool          `envconfig:"AUTO_MIGRATE" default:"false"`

	// Recognition
	SimilarityThreshold float64       `envconfig:"SIMILARITY_THRESHOLD" default:"0.25"`
	AttendanceCooldown  time.Duration `envconfig:"ATTENDANCE_COOLDOWN" default:"10s"`
	AttendanceQueueSize int           `envconfig:"ATTENDANCE_QUEUE_SIZE" default:"64"`

	// Detector
	DetectorType string `envconfig:"DETECTOR_TYPE" default:"none"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Webhook
	WebhookURL    string `envconfig:"WEBHOOK_URL"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`

	// Rate limiting
	EnrollRateLimit int `envconfig:"ENROLL_RATE_LIMIT" default:"30"`
}

const (
	DetectorNone        = "none"
	DetectorRekognition = "rekognition"
)

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values the recognition core cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.SimilarityThreshold <= 0 {
		errs = append(errs, fmt.Errorf("SIMILARITY_THRESHOLD must be positive, got %v", c.SimilarityThreshold))
	}
	if c.AttendanceCooldown <= 0 {
		errs = append(errs, fmt.Errorf("ATTENDANCE_COOLDOWN must be positive, got %v", c.AttendanceCooldown))
	}
	if c.DetectorType != DetectorNone && c.DetectorType != DetectorRekognition {
		errs = append(errs, fmt.Errorf("DETECTOR_TYPE must be %q or %q, got %q", DetectorNone, DetectorRekognition, c.DetectorType))
	}
	if c.WebhookURL != "" && c.WebhookSecret == "" {
		errs = append(errs, errors.New("WEBHOOK_SECRET is required when WEBHOOK_URL is set"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}
