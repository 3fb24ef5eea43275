package config

import (
	"errors"
	"os"
	"sync"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const envFile = "./configs/.env"

var (
	once     sync.Once
	instance *Config
	loadErr  error
)

type Config struct {
	APIAddress string `env:"API_ADDRESS" envDefault:":8080"`

	// DatabaseURL wins over the separate POSTGRES_* values when set
	DatabaseURL      string `env:"DATABASE_URL"`
	PostgresAddress  string `env:"POSTGRES_DB_ADDRESS" envDefault:"localhost:5432"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`

	// Not required on start: token issuing fails with a configuration
	// error until it is provided.
	JWTSecret string `env:"JWT_SECRET"`

	MigrationsDir  string `env:"MIGRATIONS_DIR" envDefault:"./migrations"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// New loads ./configs/.env when it exists and parses the environment once.
func New() (*Config, error) {
	once.Do(func() {
		if _, err := os.Stat(envFile); err == nil {
			if err = godotenv.Load(envFile); err != nil {
				loadErr = errors.New("loading envs error: " + err.Error())
				return
			}
		}
		cfg := &Config{}
		if err := env.Parse(cfg); err != nil {
			loadErr = errors.New("parsing envs error: " + err.Error())
			return
		}
		instance = cfg
	})
	return instance, loadErr
}

// Parse reads config from the current environment without touching .env
// or the cached instance.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("parsing envs error: " + err.Error())
	}
	return cfg, nil
}
