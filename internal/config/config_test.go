package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 2*time.Hour, cfg.Attendance.AutoCheckOutGrace)
	assert.Equal(t, 3, cfg.Attendance.RetryAttempts)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ATTENDANCE_AUTO_CHECKOUT_GRACE", "30m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("RATE_LIMIT_PER_SECOND", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Attendance.AutoCheckOutGrace)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 0.5, cfg.RateLimit.PerSecond)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_PORT", "eighty")
	t.Setenv("ATTENDANCE_AUTO_CHECKOUT_GRACE", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), "ATTENDANCE_AUTO_CHECKOUT_GRACE")
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")

	t.Setenv("DB_DRIVER", "sqlite")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{User: "app", Password: "p@ss", Host: "db", Port: 5432, Name: "fms", SSLMode: "disable"}}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/fms?sslmode=disable", cfg.DatabaseURL())
}
