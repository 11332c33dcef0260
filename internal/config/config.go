package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the agent.
type Config struct {
	App     AppConfig
	Discord DiscordConfig
	Economy EconomyConfig
	Tickets TicketConfig
	Logger  LoggerConfig
	Ops     OpsConfig
}

// AppConfig identifies the running service.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// DiscordConfig holds gateway connection values.
type DiscordConfig struct {
	Token string
	// GuildID scopes slash-command registration to a single guild when set;
	// empty means global registration.
	GuildID string
}

// EconomyConfig tunes the ledger-facing commands.
type EconomyConfig struct {
	CurrencyName    string
	DailyAmount     int64
	DailyCooldown   time.Duration
	WelcomeBonus    int64
	LeaderboardSize int
}

// TicketConfig tunes the ticket workflow.
type TicketConfig struct {
	// StaffRoleIDs is the explicit allowlist of roles granted visibility on
	// ticket channels. When empty, StaffNameHints is used as a fallback
	// against role names.
	StaffRoleIDs   []string
	StaffNameHints []string
	DeleteGrace    time.Duration
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// OpsConfig configures the local HTTP surface for health and stats.
type OpsConfig struct {
	Host string
	Port string
}

// Load reads configuration from environment variables, applying defaults
// where possible. A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "guild-agent"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Discord: DiscordConfig{
			Token:   token,
			GuildID: os.Getenv("DISCORD_GUILD_ID"),
		},
		Economy: EconomyConfig{
			CurrencyName:    getEnv("ECONOMY_CURRENCY_NAME", "coins"),
			DailyAmount:     int64(getEnvAsInt("ECONOMY_DAILY_AMOUNT", 100)),
			DailyCooldown:   time.Duration(getEnvAsInt("ECONOMY_DAILY_COOLDOWN_SECONDS", 86400)) * time.Second,
			WelcomeBonus:    int64(getEnvAsInt("ECONOMY_WELCOME_BONUS", 50)),
			LeaderboardSize: getEnvAsInt("ECONOMY_LEADERBOARD_SIZE", 10),
		},
		Tickets: TicketConfig{
			StaffRoleIDs:   getEnvAsList("TICKET_STAFF_ROLE_IDS"),
			StaffNameHints: getEnvAsListWithDefault("TICKET_STAFF_NAME_HINTS", []string{"admin", "mod", "staff", "helper"}),
			DeleteGrace:    time.Duration(getEnvAsInt("TICKET_DELETE_GRACE_SECONDS", 10)) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Ops: OpsConfig{
			Host: getEnv("OPS_HOST", "0.0.0.0"),
			Port: getEnv("OPS_PORT", "8080"),
		},
	}

	return cfg, nil
}

// Addr returns the ops HTTP bind address.
func (o OpsConfig) Addr() string {
	return fmt.Sprintf("%s:%s", o.Host, o.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsListWithDefault(key string, fallback []string) []string {
	if list := getEnvAsList(key); list != nil {
		return list
	}
	return fallback
}
