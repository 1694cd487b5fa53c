package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken    string        `yaml:"discord_token"`
	ClientID        string        `yaml:"client_id"`
	LogLevel        string        `yaml:"log_level"`
	DefaultLanguage string        `yaml:"default_language"`
	AutoRole        AutoRoleConfig `yaml:"auto_role"`
	Welcome         WelcomeConfig `yaml:"welcome"`
	Ticket          TicketConfig  `yaml:"ticket"`
	Verify          VerifyConfig  `yaml:"verify"`
	OAuth           OAuthConfig   `yaml:"oauth"`
	Session         SessionConfig `yaml:"session"`
	API             APIConfig     `yaml:"api"`

	// Path is the yaml file the config was loaded from, kept so that
	// settings changed at runtime can be written back.
	Path string `yaml:"-"`
}

type AutoRoleConfig struct {
	ChannelID     string `yaml:"channel_id"`
	TargetUserID  string `yaml:"target_user_id"`
	RoleID        string `yaml:"role_id"`
	RoleName      string `yaml:"role_name"`
	DeleteDelayMs int    `yaml:"delete_delay_ms"`
}

type WelcomeConfig struct {
	ChannelID      string `yaml:"channel_id"`
	LeaveChannelID string `yaml:"leave_channel_id"`
	DMEnabled      bool   `yaml:"dm_enabled"`
	BackgroundPath string `yaml:"background_path"`
}

type TicketConfig struct {
	DataPath          string `yaml:"data_path"`
	MaxOpenPerUser    int    `yaml:"max_open_per_user"`
	CloseDelaySeconds int    `yaml:"close_delay_seconds"`
	CategoryName      string `yaml:"category_name"`
	LogChannelName    string `yaml:"log_channel_name"`
	TranscriptLimit   int    `yaml:"transcript_limit"`
}

type VerifyConfig struct {
	RoleID         string `yaml:"role_id"`
	RecordTTLHours int    `yaml:"record_ttl_hours"`
}

type OAuthConfig struct {
	ClientSecret    string `yaml:"client_secret"`
	RedirectURL     string `yaml:"redirect_url"`
	StateSecret     string `yaml:"state_secret"`
	StateTTLMinutes int    `yaml:"state_ttl_minutes"`
}

type SessionConfig struct {
	Backend             string `yaml:"backend"`
	RedisAddr           string `yaml:"redis_addr"`
	RedisPassword       string `yaml:"redis_password"`
	RedisDB             int    `yaml:"redis_db"`
	SelectionTTLMinutes int    `yaml:"selection_ttl_minutes"`
}

type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:        "info",
		DefaultLanguage: "en",
		AutoRole: AutoRoleConfig{
			RoleName:      "wildflover",
			DeleteDelayMs: 5000,
		},
		Welcome: WelcomeConfig{
			DMEnabled: true,
		},
		Ticket: TicketConfig{
			DataPath:          "data/tickets.json",
			MaxOpenPerUser:    3,
			CloseDelaySeconds: 10,
			CategoryName:      "TICKETS",
			LogChannelName:    "ticket-logs",
			TranscriptLimit:   100,
		},
		Verify: VerifyConfig{
			RecordTTLHours: 0,
		},
		OAuth: OAuthConfig{
			RedirectURL:     "http://localhost:3001/oauth/callback",
			StateTTLMinutes: 10,
		},
		Session: SessionConfig{
			Backend:             "memory",
			RedisAddr:           "127.0.0.1:6379",
			SelectionTTLMinutes: 15,
		},
		API: APIConfig{Enabled: false, Addr: ":3001"},
	}
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	cfg.Path = path

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}

	cfg.Session.Backend = normalizeBackend(cfg.Session.Backend)
	cfg.DefaultLanguage = normalizeLanguage(cfg.DefaultLanguage)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.ClientID = envString("CLIENT_ID", cfg.ClientID)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.DefaultLanguage = envString("DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.AutoRole.ChannelID = envString("AUTOROLE_CHANNEL_ID", cfg.AutoRole.ChannelID)
	cfg.AutoRole.TargetUserID = envString("AUTOROLE_TARGET_USER_ID", cfg.AutoRole.TargetUserID)
	cfg.AutoRole.RoleID = envString("AUTOROLE_ROLE_ID", cfg.AutoRole.RoleID)
	cfg.AutoRole.RoleName = envString("AUTOROLE_ROLE_NAME", cfg.AutoRole.RoleName)
	cfg.AutoRole.DeleteDelayMs = envInt("AUTOROLE_DELETE_DELAY_MS", cfg.AutoRole.DeleteDelayMs)
	cfg.Welcome.ChannelID = envString("WELCOME_CHANNEL_ID", cfg.Welcome.ChannelID)
	cfg.Welcome.LeaveChannelID = envString("LEAVE_CHANNEL_ID", cfg.Welcome.LeaveChannelID)
	cfg.Welcome.DMEnabled = envBool("WELCOME_DM_ENABLED", cfg.Welcome.DMEnabled)
	cfg.Welcome.BackgroundPath = envString("WELCOME_BACKGROUND_PATH", cfg.Welcome.BackgroundPath)
	cfg.Ticket.DataPath = envString("TICKET_DATA_PATH", cfg.Ticket.DataPath)
	cfg.Ticket.MaxOpenPerUser = envInt("TICKET_MAX_OPEN_PER_USER", cfg.Ticket.MaxOpenPerUser)
	cfg.Ticket.CloseDelaySeconds = envInt("TICKET_CLOSE_DELAY_SECONDS", cfg.Ticket.CloseDelaySeconds)
	cfg.Verify.RoleID = envString("VERIFY_ROLE_ID", cfg.Verify.RoleID)
	cfg.Verify.RecordTTLHours = envInt("VERIFY_RECORD_TTL_HOURS", cfg.Verify.RecordTTLHours)
	cfg.OAuth.ClientSecret = envString("CLIENT_SECRET", cfg.OAuth.ClientSecret)
	cfg.OAuth.RedirectURL = envString("OAUTH_REDIRECT_URL", cfg.OAuth.RedirectURL)
	cfg.OAuth.StateSecret = envString("OAUTH_STATE_SECRET", cfg.OAuth.StateSecret)
	cfg.OAuth.StateTTLMinutes = envInt("OAUTH_STATE_TTL_MINUTES", cfg.OAuth.StateTTLMinutes)
	cfg.Session.Backend = envString("SESSION_BACKEND", cfg.Session.Backend)
	cfg.Session.RedisAddr = envString("REDIS_ADDR", cfg.Session.RedisAddr)
	cfg.Session.RedisPassword = envString("REDIS_PASSWORD", cfg.Session.RedisPassword)
	cfg.Session.RedisDB = envInt("REDIS_DB", cfg.Session.RedisDB)
	cfg.API.Enabled = envBool("API_ENABLED", cfg.API.Enabled)
	cfg.API.Addr = envString("API_ADDR", cfg.API.Addr)
}

// SaveWelcomeChannel rewrites the config file with a new welcome channel so
// the setting survives restarts. Secrets never live in the file, so the
// written document carries everything except the token and client secret.
func SaveWelcomeChannel(cfg *Config, channelID string) error {
	cfg.Welcome.ChannelID = channelID
	if cfg.Path == "" {
		return errors.New("config path unknown")
	}

	out := *cfg
	out.DiscordToken = ""
	out.OAuth.ClientSecret = ""
	out.OAuth.StateSecret = ""
	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.Path, data, 0o644)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}

func normalizeBackend(value string) string {
	switch strings.ToLower(value) {
	case "redis":
		return "redis"
	default:
		return "memory"
	}
}

func normalizeLanguage(value string) string {
	switch strings.ToLower(value) {
	case "tr":
		return "tr"
	default:
		return "en"
	}
}
