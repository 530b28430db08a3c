package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	return fromEnv(os.LookupEnv)
}

func fromEnv(lookup func(string) (string, bool)) Config {
	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   optional("PORT", "8080"),
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:     optional("SLACK_BOT_TOKEN", ""),
			ChannelID: optional("SLACK_CHANNEL_ID", ""),
		},
		ProjectID: optional("GCP_PROJECT", ""),
		Inngest: InngestConfig{
			AppID:      optional("INNGEST_APP_ID", ""),
			SigningKey: optional("INNGEST_SIGNING_KEY", ""),
			EventKey:   optional("INNGEST_EVENT_KEY", ""),
			Dev:        parseBool(optional("INNGEST_DEV", "false")),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: splitList(optional("CORS_ALLOWED_ORIGINS", "*")),
			RateLimitRPS:   parseFloat("RATE_LIMIT_RPS", optional("RATE_LIMIT_RPS", "10")),
			RateBurst:      parseInt("RATE_LIMIT_BURST", optional("RATE_LIMIT_BURST", "20")),
		},
	}
	if cfg.Turso.PrimaryURL != "" && cfg.Turso.AuthToken == "" {
		log.Fatalf("Error: TURSO_AUTH_TOKEN is required when TURSO_PRIMARY_URL is set.")
	}
	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func parseFloat(key, v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Fatalf("Error: %s must be a non-negative number, got %q.", key, v)
	}
	return f
}

func parseInt(key, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("Error: %s must be a positive integer, got %q.", key, v)
	}
	return n
}
