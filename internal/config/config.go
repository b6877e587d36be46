package config

import (
	"fmt"
	"os"
)

// Config is the process-wide relay configuration, read once at startup and
// immutable afterwards. WebhookSecret and GitLabToken are opaque secrets and
// must never be logged or echoed to viewers.
type Config struct {
	HTTPAddr      string // GITBOARD_HTTP_ADDR (default ":8080")
	WebhookSecret string // GITBOARD_WEBHOOK_SECRET (required)
	GitLabURL     string // GITBOARD_GITLAB_URL (default "https://gitlab.com")
	GitLabToken   string // GITBOARD_GITLAB_TOKEN (required)
	ProjectID     string // GITBOARD_PROJECT_ID (required)
	NATSURL       string // GITBOARD_NATS_URL (optional, empty = no bus mirror)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:      envOrDefault("GITBOARD_HTTP_ADDR", ":8080"),
		WebhookSecret: os.Getenv("GITBOARD_WEBHOOK_SECRET"),
		GitLabURL:     envOrDefault("GITBOARD_GITLAB_URL", "https://gitlab.com"),
		GitLabToken:   os.Getenv("GITBOARD_GITLAB_TOKEN"),
		ProjectID:     os.Getenv("GITBOARD_PROJECT_ID"),
		NATSURL:       os.Getenv("GITBOARD_NATS_URL"),
	}
	if c.WebhookSecret == "" {
		return nil, fmt.Errorf("GITBOARD_WEBHOOK_SECRET is required")
	}
	if c.GitLabToken == "" {
		return nil, fmt.Errorf("GITBOARD_GITLAB_TOKEN is required")
	}
	if c.ProjectID == "" {
		return nil, fmt.Errorf("GITBOARD_PROJECT_ID is required")
	}
	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
