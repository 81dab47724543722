// Package config centralizes all application configuration into typed structs.
//
// Go Learning Note — Configuration Management:
// Defaults live in NewDefaultConfig as plain struct literals. Load layers
// environment variables on top of them, optionally read from a .env file via
// godotenv, so local development and containers share one code path.
//
// Using typed structs (not raw strings/maps) gives you compile-time safety
// and IDE autocompletion. This is strongly preferred in Go over untyped config.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"buurtmarkt/internal/geo"
)

// Config is the top-level configuration container. Grouping related settings
// into sub-structs keeps the config organized as the application grows.
type Config struct {
	Server    ServerConfig
	Geocoder  GeocoderConfig
	Cache     CacheConfig
	Location  LocationConfig
	Session   SessionConfig
	Discovery DiscoveryConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
//
// Go Learning Note — time.Duration:
// Go uses time.Duration (an int64 of nanoseconds) instead of raw integers for
// timeouts and intervals. "10 * time.Second" is self-documenting; "10" is not.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SeedDemoData bool // load a few demo listings, people and a profile
}

// GeocoderConfig points at the PDOK Locatieserver.
type GeocoderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig sizes the in-process geocode cache. An empty RedisAddr keeps
// the cache process-local.
type CacheConfig struct {
	MaxEntries int
	RedisAddr  string
	RedisTTL   time.Duration
}

// LocationConfig bounds device (GPS) fixes.
type LocationConfig struct {
	DeviceTimeout time.Duration
}

// SessionConfig controls how long idle search sessions are kept.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// DiscoveryConfig tunes the discovery pipeline and the radius policy.
type DiscoveryConfig struct {
	ParallelThreshold int
	Workers           int     // 0 = GOMAXPROCS
	DefaultRadiusKm   float64 // global fallback when no category applies
}

// LogConfig selects the zap level and encoder ("console" or "json").
type LogConfig struct {
	Level  string
	Format string
}

// NewDefaultConfig returns a Config populated with sensible defaults.
//
// Go Learning Note — Constructor Functions:
// Go has no constructors. By convention, New<Type>() functions serve the same
// purpose. They return a pointer (*Config) so Load can adjust the same value
// in place.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Geocoder: GeocoderConfig{
			BaseURL: "https://api.pdok.nl/bzk/locatieserver/search/v3_1/free",
			Timeout: 8 * time.Second,
		},
		Cache: CacheConfig{
			MaxEntries: 500,
			RedisTTL:   24 * time.Hour,
		},
		Location: LocationConfig{
			DeviceTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Discovery: DiscoveryConfig{
			ParallelThreshold: 512,
			DefaultRadiusKm:   geo.DefaultGlobalRadiusKm,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load returns the defaults overridden by environment variables. A missing
// .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	cfg := NewDefaultConfig()
	cfg.Server.Port = getEnvAsPort("SERVER_PORT", cfg.Server.Port)
	cfg.Server.SeedDemoData = getEnvAsBool("SEED_DEMO_DATA", cfg.Server.SeedDemoData)
	cfg.Geocoder.BaseURL = getEnv("GEOCODER_BASE_URL", cfg.Geocoder.BaseURL)
	cfg.Geocoder.Timeout = getEnvAsDuration("GEOCODER_TIMEOUT", cfg.Geocoder.Timeout)
	cfg.Cache.MaxEntries = getEnvAsInt("GEOCODE_CACHE_MAX_ENTRIES", cfg.Cache.MaxEntries)
	cfg.Cache.RedisAddr = getEnv("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisTTL = getEnvAsDuration("REDIS_TTL", cfg.Cache.RedisTTL)
	cfg.Location.DeviceTimeout = getEnvAsDuration("DEVICE_TIMEOUT", cfg.Location.DeviceTimeout)
	cfg.Session.TTL = getEnvAsDuration("SESSION_TTL", cfg.Session.TTL)
	cfg.Discovery.ParallelThreshold = getEnvAsInt("DISCOVERY_PARALLEL_THRESHOLD", cfg.Discovery.ParallelThreshold)
	cfg.Discovery.Workers = getEnvAsInt("DISCOVERY_WORKERS", cfg.Discovery.Workers)
	cfg.Discovery.DefaultRadiusKm = getEnvAsFloat("RADIUS_DEFAULT_KM", cfg.Discovery.DefaultRadiusKm)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsPort accepts both "8080" and ":8080".
func getEnvAsPort(key, defaultValue string) string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	if value[0] != ':' {
		value = ":" + value
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
