package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr       string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RabbitURL      string
	JWTSecret      string
	CurrencyAPIURL string
	OTLPEndpoint   string
	IdempotencyTTL time.Duration

	// Low-stock auto-restock policy. Amount 0 disables restocking.
	RestockThreshold int
	RestockAmount    int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	idempTTL, _ := time.ParseDuration(os.Getenv("IDEMPOTENCY_TTL"))
	if idempTTL == 0 {
		idempTTL = time.Hour
	}

	cfg := &Config{
		HTTPAddr:         envOr("HTTP_ADDR", ":8080"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDatabase:    envOr("MONGO_DATABASE", "trv"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RabbitURL:        os.Getenv("RABBIT_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CurrencyAPIURL:   os.Getenv("CURRENCY_API_URL"),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		IdempotencyTTL:   idempTTL,
		RestockThreshold: envIntOr("RESTOCK_THRESHOLD", 3),
		RestockAmount:    envIntOr("RESTOCK_AMOUNT", 3),
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
