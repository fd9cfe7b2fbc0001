package config

import "github.com/Skotchmaster/store_manager/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() (ServiceConfig, error) {
	cfg := config.Load()

	var req config.Required
	err := req.NonEmpty(cfg.DatabaseURL, "DATABASE_URL").
		NonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET").
		NonEmpty(cfg.RedisAddr, "REDIS_ADDR").
		Err()
	if err != nil {
		return ServiceConfig{}, err
	}

	return ServiceConfig{Config: cfg}, nil
}

// EventsEnabled reports whether order events go to Kafka.
func (c ServiceConfig) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
