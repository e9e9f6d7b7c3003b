package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Sqlite SqliteConfig
	Remote RemoteConfig
	Sync   SyncConfig
}

type AppConfig struct {
	AppEnv   string
	DeviceID string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	FilePath          string
	DisableCaller     bool
	DisableStacktrace bool
}

type SqliteConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}

type RemoteConfig struct {
	BaseURL  string
	APIToken string
	Timeout  int // seconds, per request
}

type SyncConfig struct {
	Interval      int // seconds between timer-driven cycles
	MaxAttempts   int
	BaseDelayMs   int
	ErrorRingSize int
}

func LoadEnv() *Config {
	// Basic config loading
	// In a real scenario, use structured config loader like viper or koanf
	return &Config{
		App: AppConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			DeviceID: getEnv("DEVICE_ID", ""),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			FilePath:          getEnv("LOGGER_FILE", ""),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Sqlite: SqliteConfig{
			Path:            getEnv("SQLITE_PATH", "data/fieldsync.db"),
			MaxOpenConns:    getEnvInt("SQLITE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("SQLITE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("SQLITE_CONN_MAX_LIFETIME", 300),
		},
		Remote: RemoteConfig{
			BaseURL:  getEnv("REMOTE_BASE_URL", "http://localhost:8082"),
			APIToken: getEnv("REMOTE_API_TOKEN", ""),
			Timeout:  getEnvInt("REMOTE_TIMEOUT", 15),
		},
		Sync: SyncConfig{
			Interval:      getEnvInt("SYNC_INTERVAL", 60),
			MaxAttempts:   getEnvInt("SYNC_MAX_ATTEMPTS", 3),
			BaseDelayMs:   getEnvInt("SYNC_BASE_DELAY_MS", 500),
			ErrorRingSize: getEnvInt("SYNC_ERROR_RING_SIZE", 20),
		},
	}
}

// SyncInterval returns the timer interval as a duration.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Sync.Interval) * time.Second
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
