package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Redis.CartLockTTL)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "storefront.order.completed", cfg.Kafka.Topics.OrderCompleted)
	assert.Len(t, cfg.Kafka.Topics.All(), 4)
	assert.Equal(t, "none", cfg.Auth.Mode)
	assert.False(t, cfg.Checkout.TotalFromIssued)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CHECKOUT_TOTAL_FROM_ISSUED", "true")
	t.Setenv("CART_LOCK_TTL", "10s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Checkout.TotalFromIssued)
	assert.Equal(t, 10*time.Second, cfg.Redis.CartLockTTL)
}

func TestLoadFromDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_ADDR=cache:6379\nQR_SIZE=128\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("QR_SIZE")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 128, cfg.QR.Size)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "DB_DRIVER")
	})

	t.Run("jwt without secret", func(t *testing.T) {
		t.Setenv("AUTH_MODE", "jwt")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("oidc without issuer", func(t *testing.T) {
		t.Setenv("AUTH_MODE", "oidc")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "OIDC_ISSUER")
	})
}
