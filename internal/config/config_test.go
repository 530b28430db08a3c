package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := fromEnv(lookupFrom(map[string]string{"DB_NAME": "club.db"}))

	assert.Equal(t, "club.db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 10.0, cfg.HTTP.RateLimitRPS)
	assert.Equal(t, 20, cfg.HTTP.RateBurst)
	assert.False(t, cfg.Slack.Enabled())
	assert.False(t, cfg.Inngest.Dev)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg := fromEnv(lookupFrom(map[string]string{
		"DB_NAME":              "club.db",
		"PORT":                 "9000",
		"SLACK_BOT_TOKEN":      "xoxb-1",
		"SLACK_CHANNEL_ID":     "C1",
		"INNGEST_DEV":          "true",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"RATE_LIMIT_RPS":       "0",
	}))

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Slack.Enabled())
	assert.True(t, cfg.Inngest.Dev)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Zero(t, cfg.HTTP.RateLimitRPS)
}
