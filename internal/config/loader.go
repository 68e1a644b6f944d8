package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"kubemon/pkg/logging"
)

// For mocking in tests.
var (
	osUserHomeDir = os.UserHomeDir
	osGetwd       = os.Getwd
)

const (
	userConfigDir    = ".config/kubemon"
	projectConfigDir = ".kubemon"
	configFileName   = "config.yaml"
)

// LoadConfig loads the kubemon configuration by layering default, user, and
// project settings. Missing files are fine; unreadable or invalid files are
// errors.
func LoadConfig() (Config, error) {
	config := DefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		logging.Warn("config", "could not determine user config path: %v", err)
	} else if _, err := os.Stat(userConfigPath); err == nil {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn("config", "could not determine project config path: %v", err)
	} else if _, err := os.Stat(projectConfigPath); err == nil {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' into 'base'; only fields the overlay sets
// override.
func mergeConfigs(base, overlay Config) Config {
	merged := base
	if overlay.Namespace != "" {
		merged.Namespace = overlay.Namespace
	}
	if overlay.RefreshSeconds != nil {
		merged.RefreshSeconds = overlay.RefreshSeconds
	}
	if overlay.RequestTimeoutSeconds != nil {
		merged.RequestTimeoutSeconds = overlay.RequestTimeoutSeconds
	}
	if overlay.Mode != "" {
		merged.Mode = overlay.Mode
	}
	return merged
}
