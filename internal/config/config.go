package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/cluedo.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`
	RedisURL string     `env:"REDIS_URL"`
	BaseURL  string     `env:"BASE_URL" envDefault:"http://localhost:8080"`

	SessionSecret string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`

	DefaultLang     string `env:"DEFAULT_LANG" envDefault:"it"`
	LeaderboardSize int    `env:"LEADERBOARD_SIZE" envDefault:"20"`

	Seed          bool   `env:"SEED" envDefault:"true"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Admin Team"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@scrumgame.com"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SMTP SMTP `envPrefix:"SMTP_"`
}

type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"Scrum Cluedo <noreply@scrumcluedo.local>"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.Seed && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required when SEED is enabled")
	}
	if cfg.LeaderboardSize <= 0 {
		return nil, fmt.Errorf("LEADERBOARD_SIZE must be positive, got %d", cfg.LeaderboardSize)
	}
	return &cfg, nil
}
