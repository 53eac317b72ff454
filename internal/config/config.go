package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultDBPath          = "cadence.db"
	DefaultLogLevel        = "info"
	DefaultSchedulerBuffer = 64
)

type RuntimeConfig struct {
	DBPath               string `toml:"db_path"`
	LogLevel             string `toml:"log_level"`
	LogFile              string `toml:"log_file"`
	LogToStdout          bool   `toml:"log_to_stdout"`
	LogJSON              bool   `toml:"log_json"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
	MetricsAddr          string `toml:"metrics_addr"`
	SchedulerBuffer      int    `toml:"scheduler_buffer"`
}

func Default() RuntimeConfig {
	return RuntimeConfig{
		DBPath:          DefaultDBPath,
		LogLevel:        DefaultLogLevel,
		LogToStdout:     true,
		SchedulerBuffer: DefaultSchedulerBuffer,
	}
}

// Load overlays the TOML file at path onto base. An empty path or a missing
// file leaves base unchanged.
func Load(path string, base RuntimeConfig) (RuntimeConfig, error) {
	cfg := base
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.SchedulerBuffer <= 0 {
		cfg.SchedulerBuffer = base.SchedulerBuffer
	}
	return cfg, nil
}

func FromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("CADENCE_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("CADENCE_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("CADENCE_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvBool("CADENCE_LOG_STDOUT"); ok {
		cfg.LogToStdout = v
	}
	if v, ok := getEnvBool("CADENCE_LOG_JSON"); ok {
		cfg.LogJSON = v
	}
	if v, ok := getEnvBool("CADENCE_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvString("CADENCE_METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := getEnvInt("CADENCE_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
