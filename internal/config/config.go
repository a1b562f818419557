package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	Port          string
	JWTSecret     string
	AdminEmails   []string
	SweepInterval time.Duration
}

func Load() *Config {
	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "surq"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		AdminEmails:   splitEmails(os.Getenv("ADMIN_EMAILS")),
		SweepInterval: getDuration("SWEEP_INTERVAL", time.Hour),
	}
}

// IsAdmin reports whether the email is on the developer/admin allowlist.
// Allowlisted accounts bypass the publish-credit check and may call the
// admin endpoints.
func (c *Config) IsAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func splitEmails(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if e := strings.ToLower(strings.TrimSpace(p)); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
