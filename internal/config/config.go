package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client agent.
type Config struct {
	API      APIConfig
	Realtime RealtimeConfig
	Vault    VaultConfig
	Logger   LoggerConfig
	Feed     FeedConfig
	Toast    ToastConfig
}

// APIConfig controls the outbound REST client.
type APIConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// RealtimeConfig holds the push channel endpoint and redial tuning.
type RealtimeConfig struct {
	URL                string
	RedialDelaySeconds int
}

// VaultConfig locates the persisted token/profile entries.
type VaultConfig struct {
	Path string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// FeedConfig bounds the in-memory notification feed.
type FeedConfig struct {
	// Cap limits how many events the feed retains; 0 means unbounded.
	Cap int
}

// ToastConfig controls transient notices.
type ToastConfig struct {
	TTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:               getEnv("API_BASE_URL", "http://localhost:5000/api"),
			RequestTimeoutSeconds: getEnvAsInt("API_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Realtime: RealtimeConfig{
			URL:                getEnv("SOCKET_URL", "ws://localhost:5000/ws"),
			RedialDelaySeconds: getEnvAsInt("SOCKET_REDIAL_DELAY_SECONDS", 3),
		},
		Vault: VaultConfig{
			Path: getEnv("VAULT_PATH", defaultVaultPath()),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Feed: FeedConfig{
			Cap: getEnvAsInt("FEED_CAP", 200),
		},
		Toast: ToastConfig{
			TTLSeconds: getEnvAsInt("TOAST_TTL_SECONDS", 5),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the configured request timeout duration.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RedialDelay returns the pause between reconnect attempts.
func (r RealtimeConfig) RedialDelay() time.Duration {
	if r.RedialDelaySeconds <= 0 {
		return time.Second
	}
	return time.Duration(r.RedialDelaySeconds) * time.Second
}

// TTL returns how long a toast stays visible.
func (t ToastConfig) TTL() time.Duration {
	if t.TTLSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(t.TTLSeconds) * time.Second
}

func defaultVaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".medilink", "session.json")
	}
	return filepath.Join(configDir, "medilink", "session.json")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
