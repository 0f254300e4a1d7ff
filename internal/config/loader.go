package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name searched for in the config directories.
const ConfigFile = "city.yaml"

// LoadCity loads the city configuration.
// Search order: customPath -> ~/.citywalk/configs/city.yaml -> ./configs/city.yaml -> embedded default
//
// Files are decoded over DefaultCityConfig, so a file only needs the keys it
// changes. A custom path must exist, parse and validate; the other locations
// are skipped when unreadable or invalid.
func LoadCity(customPath string) (CityConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return CityConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return CityConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultCityYAML)
	if err != nil {
		return DefaultCityConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (CityConfig, error) {
	cfg := DefaultCityConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CityConfig{}, err
	}
	if err := Validate(cfg); err != nil {
		return CityConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".citywalk", "configs", filename)
}

// ApplyCityPreset adjusts the enemy population for a difficulty preset.
// Normal and fixed leave the configuration as loaded.
func ApplyCityPreset(cfg *CityConfig, preset DifficultyPreset) {
	enemies := &cfg.Enemies
	switch preset {
	case DifficultyEasy:
		if enemies.Count > 1 {
			enemies.Count = (enemies.Count + 1) / 2
			enemies.Spacing *= 2
		}
		enemies.MaxSpeed *= 0.5
		enemies.Speed *= 0.5
	case DifficultyHard:
		enemies.Count *= 2
		enemies.Spacing /= 2
		enemies.MaxSpeed *= 2
		enemies.Speed *= 2
	}
}
