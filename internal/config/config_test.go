package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_CART_PATH", "")
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "bolt", cfg.Cart.Backend)
	assert.Equal(t, "pg-cart", cfg.Cart.Key)
	assert.Empty(t, cfg.Cart.Path)
	assert.Equal(t, "cart.db", filepath.Base(cfg.Cart.FilePath()))
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://shop.example.com/api")
	t.Setenv("STOREFRONT_REQUEST_TIMEOUT", "3s")
	t.Setenv("STOREFRONT_CART_BACKEND", "sqlite")
	t.Setenv("STOREFRONT_CART_PATH", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "cart.sqlite", filepath.Base(cfg.Cart.FilePath()))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("STOREFRONT_REQUEST_TIMEOUT", "soon")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestCartFilePathFollowsBackend(t *testing.T) {
	c := CartConfig{Backend: "bolt"}
	bolt := c.FilePath()
	c.Backend = "sqlite"
	sqlite := c.FilePath()

	assert.Equal(t, "cart.db", filepath.Base(bolt))
	assert.Equal(t, "cart.sqlite", filepath.Base(sqlite))
	assert.Equal(t, filepath.Dir(bolt), filepath.Dir(sqlite))

	c.Path = "/tmp/mine.db"
	assert.Equal(t, "/tmp/mine.db", c.FilePath())
}
