// Package config loads monitor configuration from the environment and
// holds the subset that can be changed while the monitor runs.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/notify"
)

// Defaults for everything not supplied via environment or flags.
const (
	DefaultServerURL      = "http://37.59.110.9:8080/AMIO-API"
	DefaultPollInterval   = 5 * time.Second
	DefaultConnectTimeout = 10 * time.Second
	DefaultReadTimeout    = 10 * time.Second
	DefaultBroker         = "tcp://localhost:1883"
	DefaultHTTPAddr       = ":8080"

	// DefaultBuzzerPin disables the buzzer; most hosts don't have one.
	DefaultBuzzerPin = -1
)

// Config is the full startup configuration.
type Config struct {
	ServerURL      string
	PollInterval   time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	LightThreshold float64
	DeltaOn        float64
	DeltaOff       float64

	NotifyCooldown       time.Duration
	NotificationsEnabled bool

	Broker    string
	HTTPAddr  string
	BuzzerPin int
}

// FromEnv reads configuration from the environment, falling back to the
// defaults. Flag parsing in main uses the result as flag defaults so
// either layer can set a value.
func FromEnv() Config {
	return Config{
		ServerURL:      getEnv("AMIO_SERVER_URL", DefaultServerURL),
		PollInterval:   getEnvDuration("AMIO_POLL_INTERVAL", DefaultPollInterval),
		ConnectTimeout: getEnvDuration("AMIO_CONNECT_TIMEOUT", DefaultConnectTimeout),
		ReadTimeout:    getEnvDuration("AMIO_READ_TIMEOUT", DefaultReadTimeout),

		LightThreshold: getEnvFloat("AMIO_LIGHT_THRESHOLD", logic.DefaultThreshold),
		DeltaOn:        getEnvFloat("AMIO_DELTA_ON", logic.DefaultDeltaOn),
		DeltaOff:       getEnvFloat("AMIO_DELTA_OFF", logic.DefaultDeltaOff),

		NotifyCooldown:       getEnvDuration("AMIO_NOTIFY_COOLDOWN", notify.DefaultCooldown),
		NotificationsEnabled: getEnvBool("AMIO_NOTIFICATIONS_ENABLED", true),

		Broker:    getEnv("AMIO_BROKER", DefaultBroker),
		HTTPAddr:  getEnv("AMIO_HTTP_ADDR", DefaultHTTPAddr),
		BuzzerPin: getEnvInt("AMIO_BUZZER_PIN", DefaultBuzzerPin),
	}
}

// Get a string env variable
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Get a duration env variable (e.g. "5s", "1m30s")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Get a float env variable
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// Get a bool env variable
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// Get an int env variable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
