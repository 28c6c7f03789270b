package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Log        LogConfig
	Catalog    CatalogConfig
	Downstream DownstreamConfig
	Solver     SolverConfig
	Audit      AuditConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Redis      RedisConfig
	CORS       CORSConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig locates catalog bundles and the test-case registry.
type CatalogConfig struct {
	DataDir         string
	TestsConfigPath string
}

// DownstreamConfig describes where decoded schedules are posted.
type DownstreamConfig struct {
	URL     string
	Timeout time.Duration
}

// SolverConfig governs console-mode output.
type SolverConfig struct {
	ShowPropositions bool
}

// AuditConfig toggles the solve audit trail.
type AuditConfig struct {
	Enabled bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// CacheConfig toggles diagnostic caching.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		DataDir:         v.GetString("CATALOG_DATA_DIR"),
		TestsConfigPath: v.GetString("TESTS_CONFIG_PATH"),
	}

	cfg.Downstream = DownstreamConfig{
		URL:     v.GetString("DOWNSTREAM_URL"),
		Timeout: parseDuration(v.GetString("DOWNSTREAM_TIMEOUT"), 10*time.Second),
	}

	cfg.Solver = SolverConfig{
		ShowPropositions: v.GetBool("SHOW_PROPOSITIONS"),
	}

	cfg.Audit = AuditConfig{
		Enabled: v.GetBool("ENABLE_SOLVE_AUDIT"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_DIAGNOSTIC_CACHE"),
		TTL:     parseDuration(v.GetString("DIAGNOSTIC_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_DATA_DIR", "./data")
	v.SetDefault("TESTS_CONFIG_PATH", "tests.config.json")

	v.SetDefault("DOWNSTREAM_URL", "http://localhost:3000/api/recieve-data")
	v.SetDefault("DOWNSTREAM_TIMEOUT", "10s")

	v.SetDefault("SHOW_PROPOSITIONS", false)

	v.SetDefault("ENABLE_SOLVE_AUDIT", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schedule_sensei")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_DIAGNOSTIC_CACHE", false)
	v.SetDefault("DIAGNOSTIC_CACHE_TTL", "10m")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
