package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		def       string
		shouldSet bool
		want      string
	}{
		{
			name:      "variable set",
			key:       "TEST_GETENV_SET",
			value:     "hello",
			def:       "fallback",
			shouldSet: true,
			want:      "hello",
		},
		{
			name: "variable missing uses default",
			key:  "TEST_GETENV_MISSING",
			def:  "fallback",
			want: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.value)
			}
			if got := getenv(tt.key, tt.def); got != tt.want {
				t.Errorf("getenv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   time.Duration
		want  time.Duration
	}{
		{"valid duration", "10s", time.Second, 10 * time.Second},
		{"invalid duration uses default", "nonsense", 3 * time.Second, 3 * time.Second},
		{"empty uses default", "", 7 * time.Second, 7 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_MUST_DURATION"
			if tt.value != "" {
				t.Setenv(key, tt.value)
			} else {
				os.Unsetenv(key)
			}
			if got := mustDuration(key, tt.def); got != tt.want {
				t.Errorf("mustDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadFileDefaultsAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marq.yaml")
	content := []byte("listen_port: \":9090\"\nlog_level: debug\nredis_db: 2\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("MARQ_CONFIG_FILE", path)
	t.Setenv("MARQ_SESSION_SECRET", "s3cret")
	t.Setenv("MARQ_LOG_LEVEL", "warn") // env wins over file

	cfg := Load()

	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q, want file value %q", cfg.ListenPort, ":9090")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env override %q", cfg.LogLevel, "warn")
	}
	if cfg.RedisDB != 2 {
		t.Errorf("RedisDB = %d, want file value 2", cfg.RedisDB)
	}
}

func TestLoadPanicsWithoutSecretOrDevIdentity(t *testing.T) {
	t.Setenv("MARQ_SESSION_SECRET", "")
	t.Setenv("MARQ_DEV_IDENTITY", "")
	t.Setenv("MARQ_CONFIG_FILE", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without a session secret or dev identity")
		}
	}()
	Load()
}

func TestLoadDevMode(t *testing.T) {
	t.Setenv("MARQ_SESSION_SECRET", "")
	t.Setenv("MARQ_CONFIG_FILE", "")
	t.Setenv("MARQ_DEV_IDENTITY", "dev-user")
	t.Setenv("MARQ_REDIS_ADDR", "")

	cfg := Load()
	if cfg.DevIdentity != "dev-user" {
		t.Errorf("DevIdentity = %q, want %q", cfg.DevIdentity, "dev-user")
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty (in-memory dev backend)", cfg.RedisAddr)
	}
}
