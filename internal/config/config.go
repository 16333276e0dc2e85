package config

import (
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP server
	Host string // e.g. "0.0.0.0"
	Port string // e.g. "5100"

	// Browser extension origins allowed through CORS; empty means any origin.
	AllowedOrigins []string

	FeedSize int // max items in the RSS/Atom/JSON feeds
	LogLevel slog.Level
	GinMode  string
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func FromEnv() Config {
	c := Config{}

	c.Host = getenv("HOST", "0.0.0.0")
	c.Port = getenv("PORT", "5100")
	c.AllowedOrigins = getenvList("CORS_ALLOWED_ORIGINS")
	c.FeedSize = getenvi("FEED_SIZE", 50)
	c.GinMode = getenv("GIN_MODE", "release")

	if err := c.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		slog.Warn("invalid LOG_LEVEL, using info", "value", os.Getenv("LOG_LEVEL"), "error", err)
		c.LogLevel = slog.LevelInfo
	}

	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvi(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	iv, err := strconv.Atoi(v)
	if err != nil || iv < 1 {
		slog.Warn("invalid environment value, using default", "key", k, "value", v, "default", def)
		return def
	}
	return iv
}

func getenvList(k string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(k), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
