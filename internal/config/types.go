package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Turso     TursoConfig
	Slack     SlackConfig
	ProjectID string
	Inngest   InngestConfig
	HTTP      HTTPConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether announcements can be posted.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type InngestConfig struct {
	AppID      string
	SigningKey string
	EventKey   string
	Dev        bool
}

type HTTPConfig struct {
	AllowedOrigins []string
	// RateLimitRPS is the per-IP request rate. Zero disables limiting.
	RateLimitRPS float64
	RateBurst    int
}
