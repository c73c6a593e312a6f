package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

const (
	DefaultCommandToday     = "ตารางบอล"
	DefaultCommandYesterday = "ผลบอลเมื่อวาน"
)

// Config stores runtime configuration for the bot.
type Config struct {
	AppEnv          string
	ServiceName     string
	ServiceVersion  string
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	LogLevel        logging.Level

	LineChannelAccessToken string
	LineChannelSecret      string
	LineAPIBaseURL         string
	LineTimeout            time.Duration

	FootballAPIKey                string
	FootballBaseURL               string
	FootballTimeout               time.Duration
	FootballCircuitEnabled        bool
	FootballCircuitFailureCount   int
	FootballCircuitOpenTimeout    time.Duration
	FootballCircuitHalfOpenMaxReq int

	CommandToday          string
	CommandYesterday      string
	CommandTimeout        time.Duration
	WebhookMaxConcurrency int

	BroadcastEnabled  bool
	BroadcastInterval time.Duration
	BroadcastTimeout  time.Duration

	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MetricsEnabled bool
	MetricsAddr    string
	PprofEnabled   bool
	PprofAddr      string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    strings.TrimSpace(getEnv("APP_SERVICE_NAME", "matchday-bot")),
		ServiceVersion: strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:       resolveHTTPAddr(),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvAsPositiveDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	cfg.LineChannelAccessToken = strings.TrimSpace(getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""))
	if cfg.LineChannelAccessToken == "" {
		return Config{}, fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is required")
	}
	cfg.LineChannelSecret = strings.TrimSpace(getEnv("LINE_CHANNEL_SECRET", ""))
	if cfg.LineChannelSecret == "" {
		return Config{}, fmt.Errorf("LINE_CHANNEL_SECRET is required")
	}
	cfg.LineAPIBaseURL = strings.TrimSpace(getEnv("LINE_API_BASE_URL", ""))
	if cfg.LineTimeout, err = getEnvAsPositiveDuration("LINE_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	cfg.FootballAPIKey = strings.TrimSpace(getEnv("FOOTBALL_API_KEY", ""))
	if cfg.FootballAPIKey == "" {
		return Config{}, fmt.Errorf("FOOTBALL_API_KEY is required")
	}
	cfg.FootballBaseURL = strings.TrimSpace(getEnv("FOOTBALL_API_BASE_URL", "https://api.football-data.org/v2"))
	if cfg.FootballTimeout, err = getEnvAsPositiveDuration("FOOTBALL_API_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.FootballCircuitEnabled, err = strconv.ParseBool(getEnv("FOOTBALL_CIRCUIT_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.FootballCircuitFailureCount, err = getEnvAsInt("FOOTBALL_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.FootballCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.FootballCircuitOpenTimeout, err = getEnvAsPositiveDuration("FOOTBALL_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.FootballCircuitHalfOpenMaxReq, err = getEnvAsInt("FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.FootballCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	// Commands are matched verbatim, so only blank values fall back.
	cfg.CommandToday = getEnv("COMMAND_TODAY", DefaultCommandToday)
	cfg.CommandYesterday = getEnv("COMMAND_YESTERDAY", DefaultCommandYesterday)
	if cfg.CommandToday == cfg.CommandYesterday {
		return Config{}, fmt.Errorf("COMMAND_TODAY and COMMAND_YESTERDAY must differ")
	}
	if cfg.CommandTimeout, err = getEnvAsPositiveDuration("COMMAND_TIMEOUT", "20s"); err != nil {
		return Config{}, err
	}
	if cfg.WebhookMaxConcurrency, err = getEnvAsInt("WEBHOOK_MAX_CONCURRENCY", 4); err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_MAX_CONCURRENCY: %w", err)
	}
	if cfg.WebhookMaxConcurrency < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_MAX_CONCURRENCY must be >= 1")
	}

	if cfg.BroadcastEnabled, err = strconv.ParseBool(getEnv("BROADCAST_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse BROADCAST_ENABLED: %w", err)
	}
	if cfg.BroadcastInterval, err = getEnvAsPositiveDuration("BROADCAST_INTERVAL", "24h"); err != nil {
		return Config{}, err
	}
	if cfg.BroadcastTimeout, err = getEnvAsPositiveDuration("BROADCAST_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}

	if cfg.CacheBackend, err = parseCacheBackend(getEnv("CACHE_BACKEND", CacheBackendNone)); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "5m"); err != nil {
		return Config{}, err
	}
	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", ""))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.CacheBackend == CacheBackendRedis && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
	}

	if cfg.MetricsEnabled, err = strconv.ParseBool(getEnv("METRICS_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	cfg.MetricsAddr = getEnv("METRICS_ADDR", ":9090")
	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofAddr = getEnv("PPROF_ADDR", ":6060")

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// resolveHTTPAddr prefers the platform-assigned PORT over APP_HTTP_ADDR.
func resolveHTTPAddr() string {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + port
	}
	return getEnv("APP_HTTP_ADDR", ":8080")
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseCacheBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case CacheBackendNone, CacheBackendMemory, CacheBackendRedis:
		return value, nil
	default:
		return "", fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s, %s", v, CacheBackendNone, CacheBackendMemory, CacheBackendRedis)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}
