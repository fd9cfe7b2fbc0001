package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers     []string
	OrderEventsTopic string

	JWTAccessSecret []byte

	SyncOnStart bool
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "orders"),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		KafkaBrokers:     CSV(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic: EnvDefault("ORDER_EVENTS_TOPIC", "order_events"),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),

		SyncOnStart: EnvBoolDefault("SYNC_ON_START", true),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
