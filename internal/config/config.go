package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for bidcraft.
type Config struct {
	Author       AuthorConfig
	Generation   GenerationConfig
	Server       ServerConfig
	Notification NotificationConfig
}

// AuthorConfig supplies defaults for the optional proposal inputs.
type AuthorConfig struct {
	Name       string `yaml:"name"`
	Experience string `yaml:"experience"`
}

// GenerationConfig controls how many proposals are produced and how wording
// variants are picked.
type GenerationConfig struct {
	Variants  int    `yaml:"variants"`  // versions per request, 1..MaxVariants
	Seed      uint64 `yaml:"seed"`      // 0 = unseeded
	Templates string `yaml:"templates"` // optional template override file
}

// ServerConfig controls the web front end.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MinInterval  time.Duration // minimum gap between generation requests from one client
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// MaxVariants caps the number of versions generated per request.
const MaxVariants = 10

const (
	defaultVariants    = 3
	defaultAddr        = ":5000"
	defaultReadTimeout = 10 * time.Second
	slackWebhookPrefix = "https://hooks.slack.com/"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Author       AuthorConfig       `yaml:"author"`
	Generation   GenerationConfig   `yaml:"generation"`
	Server       rawServerConfig    `yaml:"server"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	MinInterval  string `yaml:"min_interval"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{Variants: defaultVariants},
		Server: ServerConfig{
			Addr:         defaultAddr,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultReadTimeout,
			MinInterval:  time.Second,
		},
		Notification: NotificationConfig{Type: "log"},
	}
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	cfg.Author = AuthorConfig{
		Name:       strings.TrimSpace(raw.Author.Name),
		Experience: strings.TrimSpace(raw.Author.Experience),
	}
	cfg.Generation.Seed = raw.Generation.Seed
	cfg.Generation.Templates = raw.Generation.Templates
	if raw.Generation.Variants != 0 {
		cfg.Generation.Variants = raw.Generation.Variants
	}

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.read_timeout", raw.Server.ReadTimeout, &cfg.Server.ReadTimeout},
		{"server.write_timeout", raw.Server.WriteTimeout, &cfg.Server.WriteTimeout},
		{"server.min_interval", raw.Server.MinInterval, &cfg.Server.MinInterval},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", d.name, d.raw, err)
		}
		*d.dst = parsed
	}

	if raw.Notification.Type != "" {
		cfg.Notification = raw.Notification
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Generation.Variants < 1 || cfg.Generation.Variants > MaxVariants {
		return fmt.Errorf("generation.variants must be between 1 and %d, got %d", MaxVariants, cfg.Generation.Variants)
	}

	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if cfg.Server.MinInterval < 0 {
		return fmt.Errorf("server.min_interval must not be negative, got %v", cfg.Server.MinInterval)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackWebhookPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
