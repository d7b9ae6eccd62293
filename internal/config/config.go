// Package config loads server configuration from the environment.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "RELIQUARY"

// Config carries everything cmd/server needs to wire the service.
type Config struct {
	Port      string
	DBPath    string
	StaticDir string
	LogLevel  string

	// PublicHost is the hostname the frontend is served from; a static
	// hosting origin (github.io) switches the upstream clients into
	// proxy-first candidate ordering.
	PublicHost string

	// StatusURL and DropSearchURL may be absolute or relative; relative
	// values resolve against APIBaseURL.
	StatusURL     string
	DropSearchURL string
	APIBaseURL    string

	RequestTimeout time.Duration
	SessionTTL     time.Duration

	AllowedOrigins []string
}

// Load reads RELIQUARY_* environment variables, falling back to
// defaults that work for a local deployment with a reverse proxy.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "./reliquary.db")
	v.SetDefault("static_dir", "../frontend/dist")
	v.SetDefault("log_level", "info")
	v.SetDefault("public_host", "")
	v.SetDefault("status_url", "/api/prime/status")
	v.SetDefault("drop_search_url", "/api/drop/search")
	v.SetDefault("api_base_url", "")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("session_ttl", "30m")
	v.SetDefault("allowed_origins", "http://localhost:*")

	return Config{
		Port:           v.GetString("port"),
		DBPath:         v.GetString("db_path"),
		StaticDir:      v.GetString("static_dir"),
		LogLevel:       v.GetString("log_level"),
		PublicHost:     v.GetString("public_host"),
		StatusURL:      v.GetString("status_url"),
		DropSearchURL:  v.GetString("drop_search_url"),
		APIBaseURL:     v.GetString("api_base_url"),
		RequestTimeout: v.GetDuration("request_timeout"),
		SessionTTL:     v.GetDuration("session_ttl"),
		AllowedOrigins: splitOrigins(v.GetString("allowed_origins")),
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
