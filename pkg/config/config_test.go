package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, float64(10), cfg.Uploads.MaxSizeMB)
	assert.Equal(t, []string{".pdf", ".doc", ".docx", ".txt", ".png", ".jpg", ".jpeg"}, cfg.Uploads.AcceptedExtensions)
	assert.Equal(t, 1500*time.Millisecond, cfg.Submissions.ReviewDelay)
	assert.Equal(t, 6, cfg.Catalog.FeaturedLimit)
	assert.Empty(t, cfg.Catalog.Path)
	assert.False(t, cfg.Cache.Enabled)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SEARCH_DEBOUNCE", "bogus")
	v.Set("UPLOAD_MAX_SIZE_MB", 0)
	v.Set("FEATURED_LIMIT", 3)
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := fromViper(v)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, float64(10), cfg.Uploads.MaxSizeMB)
	assert.Equal(t, 3, cfg.Catalog.FeaturedLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}
