package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Attendance AttendanceConfig
	Cron       CronConfig
	RateLimit  RateLimitConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name            string
	Version         string
	Port            int
	Env             string
	LogLevel        string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// RedisConfig is optional. An empty Addr disables idempotency keys.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	ResponseTTL time.Duration
}

// KafkaConfig is optional. Without brokers events are dropped.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type AttendanceConfig struct {
	// AutoCheckOutGrace is how long after shift end an open attendance is
	// left before the sweep closes it.
	AutoCheckOutGrace time.Duration
	AbsenceLookBack   time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

type CronConfig struct {
	AutoCheckOutSpec string
	AbsenceSpec      string
	BatchSize        int
	Concurrency      int
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}
	var errs []error
	intEnv := func(key string, fallback int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}
	durationEnv := func(key string, fallback time.Duration) time.Duration {
		v, err := time.ParseDuration(getEnv(key, fallback.String()))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}
	floatEnv := func(key string, fallback float64) float64 {
		v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64)), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}

	// Application configuration
	config.App = AppConfig{
		Name:            getEnv("APP_NAME", "fms-attendance"),
		Version:         getEnv("APP_VERSION", "v1.0.0"),
		Port:            intEnv("APP_PORT", 8080),
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout: durationEnv("APP_SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	// Database configuration
	config.Database = DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", DriverPostgres),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     intEnv("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fms_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(intEnv("DB_MAX_CONNS", 25)),
		MinConns: int32(intEnv("DB_MIN_CONNS", 5)),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: durationEnv("JWT_ACCESS_EXPIRATION_TIME", time.Hour),
	}

	config.Redis = RedisConfig{
		Addr:        getEnv("REDIS_ADDR", ""),
		Password:    getEnv("REDIS_PASSWORD", ""),
		DB:          intEnv("REDIS_DB", 0),
		ResponseTTL: durationEnv("IDEMPOTENCY_TTL", 24*time.Hour),
	}

	config.Kafka = KafkaConfig{
		Brokers: getEnvSlice("KAFKA_BROKERS"),
		Topic:   getEnv("KAFKA_TOPIC", "attendance-events"),
	}

	config.Attendance = AttendanceConfig{
		AutoCheckOutGrace: durationEnv("ATTENDANCE_AUTO_CHECKOUT_GRACE", 2*time.Hour),
		AbsenceLookBack:   durationEnv("ATTENDANCE_ABSENCE_LOOKBACK", 24*time.Hour),
		RetryAttempts:     intEnv("ATTENDANCE_RETRY_ATTEMPTS", 3),
		RetryDelay:        durationEnv("ATTENDANCE_RETRY_DELAY", 200*time.Millisecond),
	}

	config.Cron = CronConfig{
		AutoCheckOutSpec: getEnv("CRON_AUTO_CHECKOUT_SPEC", "*/15 * * * *"),
		AbsenceSpec:      getEnv("CRON_ABSENCE_SPEC", "5 * * * *"),
		BatchSize:        intEnv("CRON_BATCH_SIZE", 200),
		Concurrency:      intEnv("CRON_CONCURRENCY", 4),
	}

	config.RateLimit = RateLimitConfig{
		PerSecond: floatEnv("RATE_LIMIT_PER_SECOND", 1),
		Burst:     intEnv("RATE_LIMIT_BURST", 5),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Attendance.AutoCheckOutGrace < 0 {
		return fmt.Errorf("ATTENDANCE_AUTO_CHECKOUT_GRACE must not be negative")
	}
	if c.Attendance.RetryAttempts < 1 {
		return fmt.Errorf("ATTENDANCE_RETRY_ATTEMPTS must be at least 1")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
