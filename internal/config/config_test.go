package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDerivesPathsFromRoot(t *testing.T) {
	t.Setenv("NEXUS_ROOT", "/srv/nexus")
	t.Setenv("NEXUS_PRESETS_FILE", "")
	t.Setenv("NEXUS_SERVICES_DIR", "")

	cfg := Load()

	if cfg.ServicesDir != filepath.Join("/srv/nexus", "services") {
		t.Errorf("ServicesDir = %v, want /srv/nexus/services", cfg.ServicesDir)
	}
	if cfg.PresetsFile != filepath.Join("/srv/nexus", "config", "presets.yml") {
		t.Errorf("PresetsFile = %v, want /srv/nexus/config/presets.yml", cfg.PresetsFile)
	}
	if cfg.AccessRulesFile != filepath.Join("/srv/nexus", "tailscale", "access-rules.yml") {
		t.Errorf("AccessRulesFile = %v", cfg.AccessRulesFile)
	}
	if cfg.HealthTimeout != 10*time.Second {
		t.Errorf("HealthTimeout = %v, want 10s", cfg.HealthTimeout)
	}
	if len(cfg.TrustedCIDRS) != len(DefaultTrustedCIDRS) {
		t.Errorf("TrustedCIDRS = %v, want %v", cfg.TrustedCIDRS, DefaultTrustedCIDRS)
	}
}

func TestLoadExplicitOverrides(t *testing.T) {
	t.Setenv("NEXUS_ROOT", "/srv/nexus")
	t.Setenv("NEXUS_SERVICES_DIR", "/opt/services")
	t.Setenv("NEXUS_GATE_TRUSTED_CIDRS", "10.0.0.0/8, 100.64.0.0/10")

	cfg := Load()

	if cfg.ServicesDir != "/opt/services" {
		t.Errorf("ServicesDir = %v, want /opt/services", cfg.ServicesDir)
	}
	if len(cfg.TrustedCIDRS) != 2 || cfg.TrustedCIDRS[1] != "100.64.0.0/10" {
		t.Errorf("TrustedCIDRS = %v", cfg.TrustedCIDRS)
	}
}

func TestValidateGate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid without redis",
			cfg:     Config{ListenPort: ":8080", ReloadInterval: time.Minute},
			wantErr: false,
		},
		{
			name:    "empty listen port",
			cfg:     Config{ReloadInterval: time.Minute},
			wantErr: true,
		},
		{
			name:    "zero reload interval",
			cfg:     Config{ListenPort: ":8080"},
			wantErr: true,
		},
		{
			name: "redis password required but missing",
			cfg: Config{
				ListenPort:            ":8080",
				ReloadInterval:        time.Minute,
				RedisAddr:             "localhost:6379",
				RedisPasswordRequired: true,
			},
			wantErr: true,
		},
		{
			name: "password requirement ignored without redis",
			cfg: Config{
				ListenPort:            ":8080",
				ReloadInterval:        time.Minute,
				RedisPasswordRequired: true,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateGate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{input: "~/nexus-data", expected: filepath.Join(home, "nexus-data")},
		{input: "~", expected: home},
		{input: "/srv/data", expected: "/srv/data"},
		{input: "~other/data", expected: "~other/data"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExpandHome(tt.input); got != tt.expected {
				t.Errorf("ExpandHome(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHomepageDir(t *testing.T) {
	got := HomepageDir("/srv/data")
	want := filepath.Join("/srv/data", "Config", "homepage")
	if got != want {
		t.Errorf("HomepageDir() = %v, want %v", got, want)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "single value", value: "value1", expected: []string{"value1"}},
		{name: "multiple values", value: "value1, value2, value3", expected: []string{"value1", "value2", "value3"}},
		{name: "quoted values", value: `"a", 'b'`, expected: []string{"a", "b"}},
		{name: "empty parts dropped", value: "a,, ,b", expected: []string{"a", "b"}},
		{name: "empty string", value: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TEST_BOOL_MISSING", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      float64
		expected float64
	}{
		{name: "valid float", value: "49.2827", def: 0, expected: 49.2827},
		{name: "negative float", value: "-123.1207", def: 0, expected: -123.1207},
		{name: "invalid uses default", value: "north", def: 1.5, expected: 1.5},
		{name: "missing uses default", value: "", def: 2.5, expected: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLOAT", tt.value)
			if got := mustFloat("TEST_FLOAT", tt.def); got != tt.expected {
				t.Errorf("mustFloat() = %v, want %v", got, tt.expected)
			}
		})
	}
}
