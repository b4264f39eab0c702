package config

import (
	"os"

	"go.uber.org/zap"
)

// Config agrupa tudo que vem do ambiente (.env em desenvolvimento).
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	MPAccessToken string
	MPPublicKey   string
	// URL pública usada como notification_url nos pagamentos. Vazia em
	// desenvolvimento local (o MP não consegue entregar webhook mesmo).
	WebhookBaseURL string
	AllowedOrigins []string
}

// Load lê a configuração do ambiente. Variáveis obrigatórias derrubam o
// processo na inicialização, igual fazemos com a conexão do banco.
func Load(log *zap.Logger) *Config {
	cfg := &Config{
		Port:           getEnvDefault("PORT", "8080"),
		DatabaseURL:    mustEnv("DATABASE_URL", log),
		SessionSecret:  mustEnv("SESSION_SECRET", log),
		MPAccessToken:  mustEnv("MP_ACCESS_TOKEN", log),
		MPPublicKey:    os.Getenv("MP_PUBLIC_KEY"),
		WebhookBaseURL: os.Getenv("WEBHOOK_BASE_URL"),
	}

	if origin := os.Getenv("ALLOWED_ORIGIN"); origin != "" {
		cfg.AllowedOrigins = []string{origin}
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	return cfg
}

func mustEnv(key string, log *zap.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		log.Fatal("variável de ambiente obrigatória não definida", zap.String("key", key))
	}
	return val
}

func getEnvDefault(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}
