// Package config loads server configuration from the environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"github.com/applytrack/applytrack/internal/constants"
	"github.com/applytrack/applytrack/internal/db"
)

// Defaults for server configuration
const (
	DefaultListenAddr       = ":8080"
	DefaultStoreTimeout     = 10 * time.Second
	DefaultHotSweepSchedule = "@daily"
	DefaultRateBurst        = 20
)

// Config holds all configuration values for the API server
type Config struct {
	DB               db.Options
	ListenAddr       string
	StoreTimeout     time.Duration
	TimelineLocation *time.Location
	HotSweepSchedule string
	RateLimit        float64
	RateBurst        int
	LogLevel         string
	LogFormat        string
}

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// LoadDotEnv loads a .env file if one exists. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(GetEnv(constants.EnvDBPort, strconv.Itoa(db.DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", constants.EnvDBPort, err)
	}

	sslEnabled := false
	switch strings.ToLower(GetEnv(constants.EnvDBSSLMode, "disable")) {
	case "disable", "false", "":
	default:
		sslEnabled = true
	}

	autoMigrate, err := strconv.ParseBool(GetEnv(constants.EnvDBAutoMigrate, "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", constants.EnvDBAutoMigrate, err)
	}

	storeTimeout, err := time.ParseDuration(GetEnv(constants.EnvStoreTimeout, DefaultStoreTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", constants.EnvStoreTimeout, err)
	}
	if storeTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive", constants.EnvStoreTimeout)
	}

	loc, err := time.LoadLocation(GetEnv(constants.EnvTimelineTZ, "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", constants.EnvTimelineTZ, err)
	}

	rateLimit, err := strconv.ParseFloat(GetEnv(constants.EnvRateLimit, "0"), 64)
	if err != nil || rateLimit < 0 {
		return nil, fmt.Errorf("invalid %s: %q", constants.EnvRateLimit, GetEnv(constants.EnvRateLimit, ""))
	}
	rateBurst, err := strconv.Atoi(GetEnv(constants.EnvRateBurst, strconv.Itoa(DefaultRateBurst)))
	if err != nil || rateBurst < 1 {
		return nil, fmt.Errorf("invalid %s: %q", constants.EnvRateBurst, GetEnv(constants.EnvRateBurst, ""))
	}

	logLevel := GetEnv(constants.EnvLogLevel, "info")
	dbLogLevel := gormlogger.Warn
	if strings.EqualFold(logLevel, "debug") || strings.EqualFold(logLevel, "trace") {
		dbLogLevel = gormlogger.Info
	}

	return &Config{
		DB: db.Options{
			Host:        GetEnv(constants.EnvDBHost, db.DefaultHost),
			User:        GetEnv(constants.EnvDBUser, db.DefaultUser),
			Password:    GetEnv(constants.EnvDBPassword, db.DefaultPassword),
			DBName:      GetEnv(constants.EnvDBName, db.DefaultDBName),
			Port:        port,
			SSLEnabled:  &sslEnabled,
			LogLevel:    dbLogLevel,
			AutoMigrate: autoMigrate,
		},
		ListenAddr:       GetEnv(constants.EnvListenAddr, DefaultListenAddr),
		StoreTimeout:     storeTimeout,
		TimelineLocation: loc,
		HotSweepSchedule: GetEnv(constants.EnvHotSweepSchedule, DefaultHotSweepSchedule),
		RateLimit:        rateLimit,
		RateBurst:        rateBurst,
		LogLevel:         logLevel,
		LogFormat:        GetEnv(constants.EnvLogFormat, "json"),
	}, nil
}
