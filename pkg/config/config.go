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

	Upstream UpstreamConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Batch    BatchConfig
	CORS     CORSConfig
	Log      LogConfig
}

// UpstreamConfig points the scraper at the catalog site.
type UpstreamConfig struct {
	BaseURL     string
	Timeout     time.Duration
	RateLimit   float64
	DefaultTerm string
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	TTL     time.Duration
	Backend string // "memory" or "redis"
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// BatchConfig bounds multi-course requests.
type BatchConfig struct {
	MaxSize int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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

	cfg.Upstream = UpstreamConfig{
		BaseURL:     v.GetString("UPSTREAM_BASE_URL"),
		Timeout:     parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 30*time.Second),
		RateLimit:   v.GetFloat64("UPSTREAM_RATE_LIMIT"),
		DefaultTerm: v.GetString("UPSTREAM_DEFAULT_TERM"),
	}

	ttlSeconds := v.GetInt("CACHE_TTL_SECONDS")
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	cfg.Cache = CacheConfig{
		TTL:     time.Duration(ttlSeconds) * time.Second,
		Backend: strings.ToLower(v.GetString("CACHE_BACKEND")),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Batch = BatchConfig{MaxSize: v.GetInt("MAX_BATCH_SIZE")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "https://buscacursos.uc.cl")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("UPSTREAM_RATE_LIMIT", 2.0)
	v.SetDefault("UPSTREAM_DEFAULT_TERM", "2026-1")

	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("CACHE_BACKEND", "memory")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MAX_BATCH_SIZE", 20)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
