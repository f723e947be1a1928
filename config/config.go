package config

import (
	"errors"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting the server needs.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	MongoURI      string `env:"MONGODB_URI"`
	DatabaseName  string `env:"DATABASE_NAME" envDefault:"ripple"`
	JWTSecret     string `env:"JWT_SECRET"`
	CloudinaryURL string `env:"CLOUDINARY_URL"`
	GinMode       string `env:"GIN_MODE" envDefault:"debug"`

	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY"`
}

// Load reads .env (when present) and the process environment.
// JWT_SECRET and MONGODB_URI are required; everything else has a default
// or degrades gracefully.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" || cfg.MongoURI == "" {
		return nil, errors.New("JWT_SECRET and MONGODB_URI must be set")
	}

	return cfg, nil
}
