package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port             string        `envconfig:"PORT" default:"8080"`
	AppEnv           string        `envconfig:"APP_ENV" default:"development"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	MongoURI         string        `envconfig:"MONGO_URI" required:"true"`
	MongoDB          string        `envconfig:"MONGO_DB" default:"productCatalog"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	CacheTTL         time.Duration `envconfig:"CACHE_TTL" default:"2m"`
	KafkaBrokers     string        `envconfig:"KAFKA_BROKERS" default:""`
	OrderEventsTopic string        `envconfig:"ORDER_EVENTS_TOPIC" default:"order-events"`
	MetricsNamespace string        `envconfig:"METRICS_NAMESPACE" default:"catalog"`
}

// Load carga .env si existe (desarrollo local) y luego lee el entorno.
// En producción el .env no existe y se usan las variables del sistema.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &cfg, nil
}

// IsProduction reporta si APP_ENV es production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
