package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Repository layout
	Root            string // repository root (ex: /srv/nexus)
	ServicesDir     string // directory holding one sub-directory per service
	PresetsFile     string // preset table (config/presets.yml)
	VaultFile       string // ansible vault with secrets (ansible/vars/vault.yml)
	AccessRulesFile string // generated access rules (tailscale/access-rules.yml)
	DataDirectory   string // optional, empty = resolved from vault then ~/nexus-data
	Domain          string // base domain used for URLs (ex: example.com)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Homepage weather widget
	Latitude  float64
	Longitude float64
	Timezone  string
	Units     string // "metric" | "imperial"

	// Health probes
	HealthTimeout     time.Duration // per-probe timeout (default: 10s)
	HealthConcurrency int           // fixed fan-out (default: 8)

	// Access gate
	ListenPort       string        // ex: ":8080"
	ShutdownTimeout  time.Duration // ex: 5s
	ReloadInterval   time.Duration // periodic reload of the rules file (default: 5m)
	TrustedCIDRS     []string      // networks that bypass identity checks
	AdminCIDRS       []string      // optional, restrict /readyz /infra /reload /metrics
	TrustProxy       bool          // true => trust X-Forwarded-For headers (traefik)
	TailscaleSocket  string        // tailscaled local API socket
	DevMode          bool          // true => every caller is the dev identity
	WhoisTTL         time.Duration // identity cache TTL, 0 disables caching
	RateLimitBurst   int           // per-IP burst on /auth
	RateLimitPerMin  int           // per-IP refill on /auth
	RequestTimeout   time.Duration // per-request timeout for the gate router
	AuthHeaderPrefix string        // prefix of identity headers (default: "Remote-")

	// Redis (optional, empty address = identity cache disabled)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
}

// DefaultTrustedCIDRS are the loopback and RFC1918 ranges.
var DefaultTrustedCIDRS = []string{
	"127.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"10.0.0.0/8",
}

func Load() *Config {
	root := getenv("NEXUS_ROOT", ".")

	cfg := &Config{
		Root:            root,
		ServicesDir:     getenv("NEXUS_SERVICES_DIR", filepath.Join(root, "services")),
		PresetsFile:     getenv("NEXUS_PRESETS_FILE", filepath.Join(root, "config", "presets.yml")),
		VaultFile:       getenv("NEXUS_VAULT_FILE", filepath.Join(root, "ansible", "vars", "vault.yml")),
		AccessRulesFile: getenv("NEXUS_ACCESS_RULES_FILE", filepath.Join(root, "tailscale", "access-rules.yml")),
		DataDirectory:   getenv("NEXUS_DATA_DIRECTORY", ""),
		Domain:          getenv("NEXUS_DOMAIN", ""),

		LogLevel:  getenv("NEXUS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NEXUS_PRETTY_LOG", true),

		Latitude:  mustFloat("NEXUS_LATITUDE", 49.2827),
		Longitude: mustFloat("NEXUS_LONGITUDE", -123.1207),
		Timezone:  getenv("NEXUS_TIMEZONE", "America/Vancouver"),
		Units:     getenv("NEXUS_UNITS", "metric"),

		HealthTimeout:     mustDuration("NEXUS_HEALTH_TIMEOUT", 10*time.Second),
		HealthConcurrency: getenvInt("NEXUS_HEALTH_CONCURRENCY", 8),

		ListenPort:       getenv("NEXUS_GATE_LISTEN_PORT", ":8080"),
		ShutdownTimeout:  mustDuration("NEXUS_GATE_SHUTDOWN_TIMEOUT", 5*time.Second),
		ReloadInterval:   mustDuration("NEXUS_GATE_RELOAD_INTERVAL", 5*time.Minute),
		TrustedCIDRS:     parseAllowedIPs(getenv("NEXUS_GATE_TRUSTED_CIDRS", strings.Join(DefaultTrustedCIDRS, ","))),
		AdminCIDRS:       parseAllowedIPs(getenv("NEXUS_GATE_ADMIN_CIDRS", "")),
		TrustProxy:       mustBool("NEXUS_GATE_TRUST_PROXY", true),
		TailscaleSocket:  getenv("NEXUS_GATE_TAILSCALE_SOCKET", "/var/run/tailscale/tailscaled.sock"),
		DevMode:          mustBool("NEXUS_GATE_DEV_MODE", false),
		WhoisTTL:         mustDuration("NEXUS_GATE_WHOIS_TTL", time.Minute),
		RateLimitBurst:   getenvInt("NEXUS_GATE_RATE_LIMIT_BURST", 120),
		RateLimitPerMin:  getenvInt("NEXUS_GATE_RATE_LIMIT_PER_MIN", 600),
		RequestTimeout:   mustDuration("NEXUS_GATE_REQUEST_TIMEOUT", 5*time.Second),
		AuthHeaderPrefix: getenv("NEXUS_GATE_HEADER_PREFIX", "Remote-"),

		RedisAddr:             getenv("NEXUS_REDIS_ADDR", ""),
		RedisUser:             getenv("NEXUS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("NEXUS_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("NEXUS_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("NEXUS_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// ValidateGate checks the settings only the access gate depends on.
func (c *Config) ValidateGate() error {
	if c.ListenPort == "" {
		return fmt.Errorf("NEXUS_GATE_LISTEN_PORT must not be empty")
	}
	if c.ReloadInterval <= 0 {
		return fmt.Errorf("NEXUS_GATE_RELOAD_INTERVAL must be > 0, got %v", c.ReloadInterval)
	}
	if c.RedisAddr != "" && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("NEXUS_REDIS_PASSWORD is required when NEXUS_REDIS_PASSWORD_REQUIRED=true")
	}
	return nil
}

// HomepageDir is where the dashboard container reads its configuration.
func HomepageDir(dataDir string) string {
	return filepath.Join(ExpandHome(dataDir), "Config", "homepage")
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
