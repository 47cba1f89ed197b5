package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App               AppConfig
	HTTP              ServerConfig
	GRPC              ServerConfig
	MySQL             MySQLConfig
	Log               LogConfig
	InternalEndpoints InternalEndpointsConfig
	Bayarcash         BayarcashConfig
	Notifications     NotificationsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type InternalEndpointsConfig struct {
	AuthGRPCAddr string
}

// BayarcashConfig holds the merchant settings for both gateway modes.
// Only one mode is active at a time; orders may pin their own mode.
type BayarcashConfig struct {
	Mode           string
	TestAPIToken   string
	TestAPISecret  string
	LiveAPIToken   string
	LiveAPISecret  string
	PortalKey      string
	Channels       []int
	SandboxBaseURL string
	LiveBaseURL    string
	ReceiptPageURL string
	CallbackURL    string
	HTTPTimeout    time.Duration
}

type NotificationsConfig struct {
	Retention     time.Duration
	PurgeInterval time.Duration
	BatchSize     int32
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	mode := strings.ToLower(getEnv("BAYARCASH_MODE", "test"))
	if mode != "test" && mode != "live" {
		return nil, errors.New("BAYARCASH_MODE must be test or live")
	}

	channels, err := parseChannels(os.Getenv("BAYARCASH_PAYMENT_CHANNELS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "bayarcash-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		InternalEndpoints: InternalEndpointsConfig{
			AuthGRPCAddr: getEnv("AUTH_SERVICE_GRPC_ADDR", "localhost:9090"),
		},
		Bayarcash: BayarcashConfig{
			Mode:           mode,
			TestAPIToken:   getEnv("BAYARCASH_TEST_API_TOKEN", ""),
			TestAPISecret:  getEnv("BAYARCASH_TEST_API_SECRET", ""),
			LiveAPIToken:   getEnv("BAYARCASH_LIVE_API_TOKEN", ""),
			LiveAPISecret:  getEnv("BAYARCASH_LIVE_API_SECRET", ""),
			PortalKey:      getEnv("BAYARCASH_PORTAL_KEY", ""),
			Channels:       channels,
			SandboxBaseURL: getEnv("BAYARCASH_SANDBOX_BASE_URL", "https://api.console.bayarcash-sandbox.com/v3"),
			LiveBaseURL:    getEnv("BAYARCASH_LIVE_BASE_URL", "https://api.console.bayar.cash/v3"),
			ReceiptPageURL: getEnv("BAYARCASH_RECEIPT_PAGE_URL", ""),
			CallbackURL:    getEnv("BAYARCASH_CALLBACK_URL", ""),
			HTTPTimeout:    getSecondsEnv("BAYARCASH_HTTP_TIMEOUT_SECONDS", 15*time.Second),
		},
		Notifications: NotificationsConfig{
			Retention:     getDaysEnv("NOTIFICATIONS_RETENTION_DAYS", 90*24*time.Hour),
			PurgeInterval: getMinutesEnv("NOTIFICATIONS_PURGE_INTERVAL_MINUTES", 60*time.Minute),
			BatchSize:     int32(getIntEnv("NOTIFICATIONS_PURGE_BATCH_SIZE", 500)),
		},
	}, nil
}

func parseChannels(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int{}, nil
	}

	parts := strings.Split(raw, ",")
	channels := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, errors.New("BAYARCASH_PAYMENT_CHANNELS must be a comma separated list of positive integers")
		}
		channels = append(channels, n)
	}
	return channels, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getDaysEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if days, err := strconv.Atoi(value); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return defaultValue
}
