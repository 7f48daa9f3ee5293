package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	API         API
	Cache       Cache
	Redis       Redis
	Jobs        Jobs
	GoogleDrive GoogleDrive
}

type API struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"https://extrol-api-production.up.railway.app"`
	Debug   bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

type Cache struct {
	Backend string `env:"CACHE_BACKEND" envDefault:"disk"`
	Dir     string `env:"CACHE_DIR" envDefault:""`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Jobs struct {
	RefreshEntriesInterval time.Duration `env:"REFRESH_ENTRIES_JOB_INTERVAL" envDefault:"30s"`
}

type GoogleDrive struct {
	CredentialsFile string `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:"credentials.json"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
