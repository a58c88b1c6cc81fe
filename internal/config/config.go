package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"GO_ENV"`
	DataDir     string `mapstructure:"DATA_DIR"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Draft autosave debounce window in milliseconds. 0 uses the default.
	DraftDebounceMS int `mapstructure:"DRAFT_DEBOUNCE_MS"`
}

var AppConfig *Config

// Load reads .env (if present) and the environment into a Config. It returns
// the config instead of populating a global so tests can build their own; the
// server keeps AppConfig set for the places that still read it ambiently.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8787")
	viper.SetDefault("GO_ENV", "development")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("DRAFT_DEBOUNCE_MS", 600)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}
