package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server needs from its environment.
type Config struct {
	Addr          string
	MetricsAddr   string
	JWTSigningKey string

	// AdminAddress is seeded into the ledger as the operating authority at
	// boot. It is the only address that can create categories, whitelist
	// entities, mint credits, and issue credentials until it whitelists
	// further admins.
	AdminAddress string

	// DatabaseURL enables the postgres journal. Empty means in-memory only
	// (state is lost on restart).
	DatabaseURL string

	// RedisURL enables the receipt cache. Empty disables it.
	RedisURL string

	// KafkaBrokers enables the audit event publisher. Empty disables it.
	KafkaBrokers []string
	KafkaTopic   string

	ReceiptTTL time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("RELIEF_ADDR", ":8080"),
		MetricsAddr:   getenv("RELIEF_METRICS_ADDR", ":9090"),
		JWTSigningKey: getenv("RELIEF_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AdminAddress:  os.Getenv("RELIEF_ADMIN_ADDRESS"),
		DatabaseURL:   os.Getenv("RELIEF_DATABASE_URL"),
		KafkaTopic:    getenv("RELIEF_KAFKA_TOPIC", "relief.audit"),
		ReceiptTTL:    getdur("RELIEF_RECEIPT_TTL", 24*time.Hour),
		RedisURL:      os.Getenv("RELIEF_REDIS_URL"),
	}
	if brokers := os.Getenv("RELIEF_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
