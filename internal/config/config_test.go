package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "surq", cfg.MongoDB)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SWEEP_INTERVAL", "15m")
	t.Setenv("ADMIN_EMAILS", "Admin@Example.com, ops@example.com ,")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.AdminEmails)
}

func TestIsAdmin(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "admin@example.com")
	cfg := Load()

	assert.True(t, cfg.IsAdmin("admin@example.com"))
	assert.True(t, cfg.IsAdmin(" ADMIN@example.com "))
	assert.False(t, cfg.IsAdmin("user@example.com"))
	assert.False(t, cfg.IsAdmin(""))
}

func TestInvalidSweepIntervalFallsBack(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "soon")
	cfg := Load()
	assert.Equal(t, time.Hour, cfg.SweepInterval)
}
