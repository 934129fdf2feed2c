package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds every process-level setting. Components receive it at
// construction instead of reading the environment themselves.
type Config struct {
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	DBName        string `env:"DB_NAME" envDefault:"threads"`
	JWTSecret     string `env:"JWT_SECRET"`
	ClientURL     string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`
	Port          string `env:"PORT" envDefault:"5000"`
	Env           string `env:"ENV" envDefault:"development"`
	CloudinaryURL string `env:"CLOUDINARY_URL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// Production reports whether the process runs with production cookie
// settings (Secure + SameSite=None).
func (c *Config) Production() bool {
	return c.Env == "production"
}
