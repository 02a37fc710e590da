package config

import (
	"errors"
	"io/fs"
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

	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Catalog     CatalogConfig
	Search      SearchConfig
	Uploads     UploadConfig
	Submissions SubmissionConfig
	RateLimit   RateLimitConfig
	Cache       CacheConfig
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

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig points at the catalog document. An empty Path selects the embedded seed catalog.
type CatalogConfig struct {
	Path          string
	FeaturedLimit int
}

// SearchConfig tunes interactive search sessions.
type SearchConfig struct {
	Debounce time.Duration
}

// UploadConfig bounds contribution attachments.
type UploadConfig struct {
	MaxSizeMB          float64
	AcceptedExtensions []string
}

// SubmissionConfig controls the contribution intake queue.
type SubmissionConfig struct {
	ReviewDelay time.Duration
	Workers     int
	Retries     int
}

// RateLimitConfig limits write endpoints per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// CacheConfig governs the optional Redis result cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	featured := v.GetInt("FEATURED_LIMIT")
	if featured <= 0 {
		featured = 6
	}
	cfg.Catalog = CatalogConfig{
		Path:          strings.TrimSpace(v.GetString("CATALOG_PATH")),
		FeaturedLimit: featured,
	}

	cfg.Search = SearchConfig{
		Debounce: parseDuration(v.GetString("SEARCH_DEBOUNCE"), 300*time.Millisecond),
	}

	maxSize := v.GetFloat64("UPLOAD_MAX_SIZE_MB")
	if maxSize <= 0 {
		maxSize = 10
	}
	cfg.Uploads = UploadConfig{
		MaxSizeMB:          maxSize,
		AcceptedExtensions: splitAndTrim(v.GetString("UPLOAD_ACCEPTED_EXTENSIONS")),
	}

	cfg.Submissions = SubmissionConfig{
		ReviewDelay: parseDuration(v.GetString("SUBMISSION_REVIEW_DELAY"), 1500*time.Millisecond),
		Workers:     v.GetInt("SUBMISSION_WORKERS"),
		Retries:     v.GetInt("SUBMISSION_RETRIES"),
	}

	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		Burst: v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 10*time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("FEATURED_LIMIT", 6)
	v.SetDefault("SEARCH_DEBOUNCE", "300ms")

	v.SetDefault("UPLOAD_MAX_SIZE_MB", 10)
	v.SetDefault("UPLOAD_ACCEPTED_EXTENSIONS", ".pdf,.doc,.docx,.txt,.png,.jpg,.jpeg")

	v.SetDefault("SUBMISSION_REVIEW_DELAY", "1500ms")
	v.SetDefault("SUBMISSION_WORKERS", 1)
	v.SetDefault("SUBMISSION_RETRIES", 3)

	v.SetDefault("RATE_LIMIT_RPS", 2)
	v.SetDefault("RATE_LIMIT_BURST", 5)

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "10m")
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
