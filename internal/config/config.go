package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	RedisURL               string
	NatsURL                string
	JWTSecret              string
	ActivitySubject        string
	LatePolicyFile         string
	PrivacySessionDuration time.Duration
	DebounceWindow         time.Duration
	TickInterval           time.Duration
	SummaryCacheTTL        time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GRADEBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Gradebook API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("activity.subject", "gradebook.activity")
	v.SetDefault("privacy.session_duration", "45m")
	v.SetDefault("autosave.debounce_window", "1s")
	v.SetDefault("session.tick_interval", "60s")
	v.SetDefault("summary.cache_ttl", "30s")

	privacyDuration, err := parseDuration(v, "privacy.session_duration")
	if err != nil {
		return Config{}, fmt.Errorf("invalid privacy session duration: %w", err)
	}

	debounceWindow, err := parseDuration(v, "autosave.debounce_window")
	if err != nil {
		return Config{}, fmt.Errorf("invalid autosave debounce window: %w", err)
	}

	tickInterval, err := parseDuration(v, "session.tick_interval")
	if err != nil {
		return Config{}, fmt.Errorf("invalid session tick interval: %w", err)
	}

	summaryTTL, err := parseDuration(v, "summary.cache_ttl")
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		RedisURL:               v.GetString("redis.url"),
		NatsURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		ActivitySubject:        v.GetString("activity.subject"),
		LatePolicyFile:         v.GetString("late_policy.file"),
		PrivacySessionDuration: privacyDuration,
		DebounceWindow:         debounceWindow,
		TickInterval:           tickInterval,
		SummaryCacheTTL:        summaryTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return duration, nil
}
