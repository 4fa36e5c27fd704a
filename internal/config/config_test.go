package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
author:
  name: "  Alex  "
  experience: built a list of 500 SaaS founders
generation:
  variants: 2
  seed: 42
  templates: ./my-templates.yaml
server:
  addr: "127.0.0.1:8080"
  read_timeout: 5s
  min_interval: 250ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Author.Name != "Alex" {
		t.Errorf("Author.Name = %q, want Alex", cfg.Author.Name)
	}
	if cfg.Author.Experience != "built a list of 500 SaaS founders" {
		t.Errorf("Author.Experience = %q", cfg.Author.Experience)
	}
	if cfg.Generation.Variants != 2 || cfg.Generation.Seed != 42 {
		t.Errorf("Generation = %+v", cfg.Generation)
	}
	if cfg.Generation.Templates != "./my-templates.yaml" {
		t.Errorf("Templates = %q", cfg.Generation.Templates)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != defaultReadTimeout {
		t.Errorf("WriteTimeout = %v, want default %v", cfg.Server.WriteTimeout, defaultReadTimeout)
	}
	if cfg.Server.MinInterval != 250*time.Millisecond {
		t.Errorf("MinInterval = %v, want 250ms", cfg.Server.MinInterval)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Generation.Variants != def.Generation.Variants {
		t.Errorf("Variants = %d, want %d", cfg.Generation.Variants, def.Generation.Variants)
	}
	if cfg.Server.Addr != def.Server.Addr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, def.Server.Addr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "generation: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("BIDCRAFT_TEST_WEBHOOK", "https://hooks.slack.com/services/T000/B000/XXX")
	cfg, err := Load(writeConfig(t, `
notification:
  type: slack
  webhook_url: ${BIDCRAFT_TEST_WEBHOOK}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notification.WebhookURL != "https://hooks.slack.com/services/T000/B000/XXX" {
		t.Errorf("WebhookURL = %q", cfg.Notification.WebhookURL)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "too many variants",
			content: "generation:\n  variants: 11\n",
			wantErr: "generation.variants",
		},
		{
			name:    "negative variants",
			content: "generation:\n  variants: -1\n",
			wantErr: "generation.variants",
		},
		{
			name:    "bad duration",
			content: "server:\n  read_timeout: soon\n",
			wantErr: "server.read_timeout",
		},
		{
			name:    "negative interval",
			content: "server:\n  min_interval: -1s\n",
			wantErr: "server.min_interval",
		},
		{
			name:    "slack without webhook",
			content: "notification:\n  type: slack\n",
			wantErr: "webhook_url is required",
		},
		{
			name:    "slack with foreign webhook",
			content: "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n",
			wantErr: "must start with",
		},
		{
			name:    "unknown notifier",
			content: "notification:\n  type: email\n",
			wantErr: "notification.type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
