package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment         string
	EncryptionKeyBase64 string
	IdentityDBPath      string
	Port                string
	SweepInterval       time.Duration
	SendLatency         time.Duration
	Timezone            string
}

func NewConfig() (*Config, error) {
	env := os.Getenv("SORTFLOW_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	config := &Config{
		Environment:         env,
		EncryptionKeyBase64: os.Getenv("SORTFLOW_ENCRYPTION_KEY_BASE64"),
		IdentityDBPath:      getEnvOrDefault("SORTFLOW_IDENTITY_DB_PATH", "sortflow.db"),
		Port:                getEnvOrDefault("PORT", "8080"),
		SweepInterval:       getEnvDuration("SORTFLOW_SWEEP_INTERVAL_SECONDS", 30*time.Second),
		SendLatency:         getEnvDuration("SORTFLOW_SEND_LATENCY_SECONDS", 0),
		Timezone:            getEnvOrDefault("TZ", "UTC"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.EncryptionKeyBase64 == "" {
		return fmt.Errorf("SORTFLOW_ENCRYPTION_KEY_BASE64 is required")
	}

	if c.SweepInterval <= 0 {
		return fmt.Errorf("SORTFLOW_SWEEP_INTERVAL_SECONDS must be positive")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("Warning: %s is not a number, using default\n", key)
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
