package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type InvoiceConfig struct {
	Dir      string `mapstructure:"dir"`
	LogoPath string `mapstructure:"logo_path"`
}

type StoreConfig struct {
	Name    string `mapstructure:"name"`
	Tagline string `mapstructure:"tagline"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
	File string `mapstructure:"file"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Invoice  InvoiceConfig  `mapstructure:"invoice"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
}

// Load reads config.yaml from the working directory if present, then lets
// environment variables override file values. DATABASE_URL is the only
// required setting.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("server.port", 8080)
	v.SetDefault("invoice.dir", "invoices")
	v.SetDefault("invoice.logo_path", "static/logo.png")
	v.SetDefault("store.name", "SRI AYYAPPA FIRE WORKS")
	v.SetDefault("store.tagline", "DEEPAVALI CRACKERS MEGA SALE (Sivakasi Factory Outlet)")
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.file", "")

	bindings := map[string]string{
		"server.port":       "PORT",
		"database.url":      "DATABASE_URL",
		"invoice.dir":       "INVOICE_DIR",
		"invoice.logo_path": "LOGO_PATH",
		"store.name":        "STORE_NAME",
		"store.tagline":     "STORE_TAGLINE",
		"log.mode":          "LOG_MODE",
		"log.file":          "LOG_FILE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required (environment variable or config.yaml)")
	}

	return &cfg, nil
}
