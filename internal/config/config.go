package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gosurvey/internal/errors"
)

// Data backends
const (
	BackendFile = "file"
	BackendSQL  = "sql"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Assets   AssetConfig
	Metrics  MetricsConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig says where the two survey tables come from
type DataConfig struct {
	Backend      string
	SurveySource string
	ImpactSource string
	SurveyQuery  string
	ImpactQuery  string
	// CacheTTL bounds how long SQL results are reused. File results never expire.
	CacheTTL time.Duration
}

// DatabaseConfig holds database connection settings for the sql backend
type DatabaseConfig struct {
	Driver   string
	URL      string
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

// AssetConfig locates the portrait images shown on the about page
type AssetConfig struct {
	Dir string
}

// MetricsConfig toggles the /metrics endpoint
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Data:     *loadDataConfig(),
		Database: *loadDatabaseConfig(),
		Assets:   AssetConfig{Dir: getEnvOrDefault("ASSETS_DIR", ".")},
		Metrics:  MetricsConfig{Enabled: getEnvBoolOrDefault("METRICS_ENABLED", true)},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8501"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Backend:      getEnvOrDefault("DATA_SOURCE", BackendFile),
		SurveySource: getEnvOrDefault("SURVEY_SOURCE", "Survey_AI.csv"),
		ImpactSource: getEnvOrDefault("IMPACT_SOURCE", "The impact of artificial intelligence on society.csv"),
		SurveyQuery:  getEnvOrDefault("SURVEY_QUERY", "SELECT * FROM survey_ai"),
		ImpactQuery:  getEnvOrDefault("IMPACT_QUERY", "SELECT * FROM impact_ai"),
		CacheTTL:     getEnvDurationOrDefault("CACHE_TTL", 10*time.Minute),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver:   getEnvOrDefault("DB_DRIVER", "postgres"),
		URL:      os.Getenv("DATABASE_URL"),
		User:     getEnvOrDefault("DB_USER", ""),
		Password: getEnvOrDefault("DB_PASS", ""),
		Name:     getEnvOrDefault("DB_NAME", ""),
		Host:     getEnvOrDefault("DB_HOST", ""),
		Port:     getEnvIntOrDefault("DB_PORT", 5432),
		SSLMode:  getEnvOrDefault("SSL_MODE", "disable"),
	}
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL assembled from the parts
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		return d.Name
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	if d.User != "" {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

func validateConfig(config *Config) error {
	switch config.Data.Backend {
	case BackendFile:
		if config.Data.SurveySource == "" || config.Data.ImpactSource == "" {
			return errors.ConfigInvalid("SURVEY_SOURCE and IMPACT_SOURCE are required for the file backend")
		}
	case BackendSQL:
		if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
			return errors.ConfigInvalid(fmt.Sprintf("unsupported DB_DRIVER %q", config.Database.Driver))
		}
		if config.Database.URL == "" && config.Database.Name == "" {
			return errors.ConfigInvalid("DATABASE_URL or DB_NAME is required for the sql backend")
		}
		if config.Data.SurveyQuery == "" || config.Data.ImpactQuery == "" {
			return errors.ConfigInvalid("SURVEY_QUERY and IMPACT_QUERY are required for the sql backend")
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown DATA_SOURCE %q", config.Data.Backend))
	}
	if config.Data.CacheTTL <= 0 {
		return errors.ConfigInvalid("CACHE_TTL must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
