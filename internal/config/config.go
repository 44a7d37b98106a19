package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Session verification. The token secret/issuer/audience must match
	// what the identity provider stamps into session tokens.
	SessionSecret   string // HMAC secret for session tokens (required unless dev identity is set)
	SessionIssuer   string // expected iss claim
	SessionAudience string // expected aud claim

	// DevIdentity enables dev mode: a static session (token "dev") bound
	// to this identity, and the in-memory store when Redis is not
	// configured. Never set in production.
	DevIdentity string

	// Redis. Empty RedisAddr switches the store to the in-memory backend
	// and disables the change feed (tab sync remains).
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
}

// fileConfig is the optional YAML config file shape (MARQ_CONFIG_FILE).
// File values are defaults; environment variables override them.
type fileConfig struct {
	ListenPort      string `yaml:"listen_port"`
	LogLevel        string `yaml:"log_level"`
	PrettyLog       *bool  `yaml:"pretty_log"`
	SessionIssuer   string `yaml:"session_issuer"`
	SessionAudience string `yaml:"session_audience"`
	RedisAddr       string `yaml:"redis_addr"`
	RedisDB         *int   `yaml:"redis_db"`
}

func Load() *Config {
	fc := loadFile(os.Getenv("MARQ_CONFIG_FILE"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MARQ_LISTEN_PORT", fileOr(fc.ListenPort, ":8080")),
		ShutdownTimeout: mustDuration("MARQ_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MARQ_LOG_LEVEL", fileOr(fc.LogLevel, "info")),
		PrettyLog: mustBool("MARQ_PRETTY_LOG", boolOr(fc.PrettyLog, false)),

		// Sessions
		SessionSecret:   getenv("MARQ_SESSION_SECRET", ""),
		SessionIssuer:   getenv("MARQ_SESSION_ISSUER", fileOr(fc.SessionIssuer, "https://accounts.google.com")),
		SessionAudience: getenv("MARQ_SESSION_AUDIENCE", fileOr(fc.SessionAudience, "marq")),
		DevIdentity:     getenv("MARQ_DEV_IDENTITY", ""),

		// Redis settings
		RedisAddr:           getenv("MARQ_REDIS_ADDR", fc.RedisAddr),
		RedisUser:           getenv("MARQ_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("MARQ_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("MARQ_REDIS_DB", intOr(fc.RedisDB, 0)),
		RedisDT:             mustDuration("MARQ_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("MARQ_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("MARQ_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("MARQ_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("MARQ_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("MARQ_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("MARQ_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("MARQ_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("MARQ_REDIS_WARN_THRESHOLD", 3),
	}

	// Either a token secret or a dev identity must be present, otherwise
	// nobody can ever sign in.
	if cfg.SessionSecret == "" && cfg.DevIdentity == "" {
		panic("❌ FATAL: MARQ_SESSION_SECRET is required (or set MARQ_DEV_IDENTITY for dev mode)")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.SessionSecret = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// loadFile parses the optional YAML config file. A missing path is fine;
// an unreadable or malformed file is not.
func loadFile(path string) fileConfig {
	var fc fileConfig
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot read config file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot parse config file %s: %v", path, err))
	}
	return fc
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
		if b, err := strconv.ParseBool(v); err == nil {
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

func fileOr(fileVal, def string) string {
	if fileVal != "" {
		return fileVal
	}
	return def
}

func boolOr(fileVal *bool, def bool) bool {
	if fileVal != nil {
		return *fileVal
	}
	return def
}

func intOr(fileVal *int, def int) int {
	if fileVal != nil {
		return *fileVal
	}
	return def
}
