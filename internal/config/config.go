package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // sqlite3 or postgres
		DSN    string `yaml:"dsn"`
		Seed   bool   `yaml:"seed"`
	} `yaml:"database"`

	Inventory struct {
		Location             string `yaml:"location"`
		AutoCheck            bool   `yaml:"auto_check"`
		CheckIntervalMinutes int    `yaml:"check_interval_minutes"`
	} `yaml:"inventory"`

	Redis struct {
		Enabled    bool   `yaml:"enabled"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or text
		Output string `yaml:"output"` // stdout, stderr, or a file path
	} `yaml:"log"`
}

// Load reads the yaml config file and applies environment overrides. A
// missing file falls back to defaults so the binary runs out of the box.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = "kitchenops.db"
	cfg.Inventory.Location = "Central Kitchen"
	cfg.Inventory.AutoCheck = false
	cfg.Inventory.CheckIntervalMinutes = 60
	cfg.Redis.Host = "localhost"
	cfg.Redis.Port = "6379"
	cfg.Redis.TTLSeconds = 300
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Log.Output = "stdout"
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DB_DSN", cfg.Database.DSN)
	cfg.Inventory.Location = getEnv("INVENTORY_LOCATION", cfg.Inventory.Location)
	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = v == "true" || v == "1"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
