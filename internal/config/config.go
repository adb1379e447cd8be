package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the tenant gate server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Gate      GateConfig
	Session   SessionConfig
	Directory DirectoryConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// GateConfig drives hostname classification and tenant resolution.
type GateConfig struct {
	// ApexDomain is the canonical registered domain, e.g. "guzellestir.com".
	ApexDomain string
	// ReservedWords extends the built-in reserved subdomain list.
	ReservedWords []string
	// StaticSlugs is an optional edge allow-list of known-good tenant slugs,
	// consulted before the authoritative store.
	StaticSlugs []string
	// LookupTTL bounds how long a cached tenant lookup may be served.
	LookupTTL time.Duration
	// LookupRatePerMin caps directory validation calls per client host.
	LookupRatePerMin int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// DirectoryConfig points at a remote tenant directory. When URL is empty the
// gate resolves tenants only from its own store.
type DirectoryConfig struct {
	URL     string
	Timeout time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("GATE_PORT", 8080),
			Env:  envString("GATE_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Gate: GateConfig{
			ApexDomain:       envString("GATE_APEX_DOMAIN", "guzellestir.com"),
			ReservedWords:    envList("GATE_RESERVED_WORDS"),
			StaticSlugs:      envList("GATE_STATIC_SLUGS"),
			LookupTTL:        envDuration("GATE_LOOKUP_TTL", 30*time.Second),
			LookupRatePerMin: envInt("GATE_LOOKUP_RATE_PER_MIN", 120),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			TTL:    envDuration("SESSION_TTL", 12*time.Hour),
		},
		Directory: DirectoryConfig{
			URL:     os.Getenv("TENANT_DIRECTORY_URL"),
			Timeout: envDuration("TENANT_DIRECTORY_TIMEOUT", 5*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Gate.ApexDomain == "" {
		return fmt.Errorf("GATE_APEX_DOMAIN must not be empty")
	}
	if strings.Contains(c.Gate.ApexDomain, "/") || strings.Contains(c.Gate.ApexDomain, ":") {
		return fmt.Errorf("GATE_APEX_DOMAIN must be a bare domain, got %q", c.Gate.ApexDomain)
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes, got %d", len(c.Session.Secret))
	}

	if c.Directory.URL != "" &&
		!strings.HasPrefix(c.Directory.URL, "http://") && !strings.HasPrefix(c.Directory.URL, "https://") {
		return fmt.Errorf("TENANT_DIRECTORY_URL must start with http:// or https://, got %q", c.Directory.URL)
	}

	if c.Gate.LookupTTL <= 0 {
		return fmt.Errorf("GATE_LOOKUP_TTL must be positive, got %s", c.Gate.LookupTTL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// envList parses a comma-separated environment variable, trimming whitespace
// and dropping empty entries.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
