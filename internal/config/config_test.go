package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadDefaultsAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("TICKET_MAX_OPEN_PER_USER", "5")
	t.Setenv("SESSION_BACKEND", "REDIS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DiscordToken != "token-123" {
		t.Fatalf("token = %q", cfg.DiscordToken)
	}
	if cfg.Ticket.MaxOpenPerUser != 5 {
		t.Fatalf("max open = %d", cfg.Ticket.MaxOpenPerUser)
	}
	if cfg.Ticket.CloseDelaySeconds != 10 {
		t.Fatalf("close delay default = %d", cfg.Ticket.CloseDelaySeconds)
	}
	if cfg.Session.Backend != "redis" {
		t.Fatalf("backend = %q", cfg.Session.Backend)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("welcome:\n  channel_id: \"111\"\nticket:\n  max_open_per_user: 2\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DISCORD_TOKEN", "token-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Welcome.ChannelID != "111" {
		t.Fatalf("welcome channel = %q", cfg.Welcome.ChannelID)
	}
	if cfg.Ticket.MaxOpenPerUser != 2 {
		t.Fatalf("max open = %d", cfg.Ticket.MaxOpenPerUser)
	}
}

func TestSaveWelcomeChannel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DISCORD_TOKEN", "token-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := SaveWelcomeChannel(&cfg, "222"); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var written Config
	if err := yaml.Unmarshal(data, &written); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if written.Welcome.ChannelID != "222" {
		t.Fatalf("written welcome channel = %q", written.Welcome.ChannelID)
	}
	if written.DiscordToken != "" {
		t.Fatal("token must not be written to disk")
	}
}
