package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de la aplicación.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Yahoo     YahooConfig     `yaml:"yahoo"`
	Cache     CacheConfig     `yaml:"cache"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig controla el servidor HTTP.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// YahooConfig contiene los parámetros del cliente de Yahoo Finance.
type YahooConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RatePerSec     float64 `yaml:"rate_per_sec"`
}

// CacheConfig controla la caché de series de precios.
type CacheConfig struct {
	DSN           string `yaml:"dsn"`            // ruta al archivo SQLite, o ":memory:"
	RetentionDays int    `yaml:"retention_days"` // series más viejas se refetchean
}

// SimulatorConfig controla el motor de simulación.
type SimulatorConfig struct {
	FetchWorkers int `yaml:"fetch_workers"` // fetches de series en paralelo
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Las variables de entorno sobreescriben el YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// YahooTimeout devuelve el timeout del cliente HTTP como time.Duration.
func (c *Config) YahooTimeout() time.Duration {
	return time.Duration(c.Yahoo.TimeoutSeconds) * time.Second
}

// CacheRetention devuelve la retención de la caché como time.Duration.
func (c *Config) CacheRetention() time.Duration {
	return time.Duration(c.Cache.RetentionDays) * 24 * time.Hour
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CACHE_DSN"); v != "" {
		cfg.Cache.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Yahoo.BaseURL == "" {
		cfg.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Yahoo.TimeoutSeconds <= 0 {
		cfg.Yahoo.TimeoutSeconds = 10
	}
	if cfg.Yahoo.RatePerSec <= 0 {
		cfg.Yahoo.RatePerSec = 5
	}
	if cfg.Cache.DSN == "" {
		cfg.Cache.DSN = "dcasim.db"
	}
	if cfg.Cache.RetentionDays <= 0 {
		cfg.Cache.RetentionDays = 7
	}
	if cfg.Simulator.FetchWorkers <= 0 {
		cfg.Simulator.FetchWorkers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
