package config

import (
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort          string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL       string `env:"DATABASE_URL"`
	LLMAPIKey         string `env:"LLM_API_KEY"`
	LLMBaseURL        string `env:"LLM_BASE_URL" envDefault:"https://api.asi1.ai/v1"`
	LLMModel          string `env:"LLM_MODEL" envDefault:"asi1-mini"`
	LLMTimeoutSeconds int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"20"`

	SMTPHost          string `env:"SMTP_HOST"`
	SMTPPort          int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser          string `env:"SMTP_USER"`
	SMTPPass          string `env:"SMTP_PASS"`
	SMTPFrom          string `env:"SMTP_FROM"`
	SMTPFromName      string `env:"SMTP_FROM_NAME" envDefault:"DivySafe Alerts"`
	SMTPUseTLS        bool   `env:"SMTP_USE_TLS" envDefault:"false"`
	EscalationEmailTo string `env:"ESCALATION_EMAIL_TO"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret                string `env:"JWT_SECRET"`
	ModeratorTokenTTLMinutes int    `env:"MODERATOR_TOKEN_TTL_MINUTES" envDefault:"60"`

	// AnonymizationKey es la clave del hash de ids; sin ella los hashes no son estables entre despliegues.
	AnonymizationKey string `env:"ANONYMIZATION_KEY"`
	KnowledgeFile    string `env:"KNOWLEDGE_FILE"`
	DefaultLocale    string `env:"DEFAULT_LOCALE" envDefault:"global"`
	ResponseSeed     int64  `env:"RESPONSE_SEED" envDefault:"0"`

	AnalyzeRateLimit int      `env:"ANALYZE_RATE_LIMIT" envDefault:"30"`
	AllowedOrigins   []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.DefaultLocale = strings.ToLower(strings.TrimSpace(cfg.DefaultLocale))
	return &cfg, nil
}

// EmailEnabled indica si hay datos suficientes para notificar escalaciones por correo.
func (c *Config) EmailEnabled() bool {
	return strings.TrimSpace(c.SMTPHost) != "" && strings.TrimSpace(c.SMTPFrom) != "" &&
		strings.TrimSpace(c.EscalationEmailTo) != ""
}
