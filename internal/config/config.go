package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ent0n29/taskboard/internal/theme"
)

// Config contains all runtime settings for the taskboard service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	JanitorInterval          time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool

	DefaultTheme theme.Theme
}

// Load reads defaults, an optional TOML file named by TASKBOARD_CONFIG and
// environment variables, in increasing order of precedence.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("app_bind_addr", ":8080")
	v.SetDefault("app_shutdown_timeout", "15s")
	v.SetDefault("app_session_inactivity_timeout", "30m")
	v.SetDefault("app_janitor_interval", "30s")
	v.SetDefault("app_metrics_namespace", "taskboard")
	v.SetDefault("app_allow_any_origin", "false")
	v.SetDefault("ui_default_theme", string(theme.Light))

	if path := strings.TrimSpace(os.Getenv("TASKBOARD_CONFIG")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		BindAddr:         stringValue(v, "app_bind_addr"),
		MetricsNamespace: stringValue(v, "app_metrics_namespace"),
	}

	var err error
	cfg.ShutdownTimeout, err = durationValue(v, "app_shutdown_timeout")
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationValue(v, "app_session_inactivity_timeout")
	if err != nil {
		return Config{}, err
	}
	cfg.JanitorInterval, err = durationValue(v, "app_janitor_interval")
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolValue(v, "app_allow_any_origin")
	if err != nil {
		return Config{}, err
	}
	cfg.DefaultTheme, err = theme.Parse(stringValue(v, "ui_default_theme"))
	if err != nil {
		return Config{}, fmt.Errorf("UI_DEFAULT_THEME parse error: %w", err)
	}

	if cfg.BindAddr == "" {
		return Config{}, errors.New("APP_BIND_ADDR must not be empty")
	}
	if cfg.MetricsNamespace == "" {
		return Config{}, errors.New("APP_METRICS_NAMESPACE must not be empty")
	}
	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.JanitorInterval <= 0 {
		return Config{}, fmt.Errorf("APP_JANITOR_INTERVAL must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be positive")
	}

	return cfg, nil
}

func envName(key string) string {
	return strings.ToUpper(key)
}

func stringValue(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	raw := stringValue(v, key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", envName(key), err)
	}
	return d, nil
}

func boolValue(v *viper.Viper, key string) (bool, error) {
	raw := strings.ToLower(stringValue(v, key))
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s parse error: %w", envName(key), err)
	}
	return b, nil
}
