// Package config loads display settings and resolves the environment signals
// that choose between the interactive display and line mode.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/ariel-frischer/multistage/internal/errors"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "MSO_"

// legacyHeartbeatEnv is the older name of MSO_CI_MESSAGE_TIMEOUT.
const legacyHeartbeatEnv = "SF_CI_MESSAGE_TIMEOUT"

// Configuration represents the multistage display settings
type Configuration struct {
	DisableCIMode    bool   `koanf:"disable_ci_mode"`
	ForceCIMode      bool   `koanf:"force_ci_mode"`
	CIMessageTimeout int    `koanf:"ci_message_timeout" validate:"min=0,max=3600000"` // Heartbeat interval in ms
	CIThrottle       int    `koanf:"ci_throttle" validate:"min=0,max=3600000"`        // Dynamic value throttle in ms
	DesignFile       string `koanf:"design_file"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(homeDir, ".multistage", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, apperrors.ConfigParseError(globalPath, err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, apperrors.ConfigParseError(localConfigPath, err)
			}
		}
	}

	// SF_CI_MESSAGE_TIMEOUT only applies when the MSO_ name is unset
	if v, ok := os.LookupEnv(legacyHeartbeatEnv); ok {
		if _, set := os.LookupEnv(EnvPrefix + "CI_MESSAGE_TIMEOUT"); !set {
			if ms, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				k.Set("ci_message_timeout", ms)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Configuration,
			"failed to unmarshal config",
			"boolean settings accept true/false or 1/0",
			"interval settings are whole milliseconds",
		)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Configuration,
			"config validation failed",
			"ci_message_timeout and ci_throttle must be between 0 and 3600000",
		)
	}

	cfg.DesignFile = expandHomePath(cfg.DesignFile)
	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: MSO_CI_THROTTLE -> ci_throttle
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
