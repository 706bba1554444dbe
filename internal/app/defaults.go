package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"seals-go/internal/config"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SEALS_CONFIG_PATH: config file location (default: ~/.config/seals.toml)
//   - SEALS_HOME: base directory for seals data (default: ~/.local/share/seals)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// LoadConfig reads the config file at path. A missing file is not an
// error: the built-in defaults rooted at baseDir are used instead.
func LoadConfig(path, baseDir string) (*config.Config, error) {
	cfg, err := config.ReadFromFile(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return config.NewConfig(baseDir), nil
	}
	return nil, err
}

func getConfigPath() (string, error) {
	if path := os.Getenv("SEALS_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "seals.toml"), nil
}

func getBaseDir() (string, error) {
	if path := os.Getenv("SEALS_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "seals"), nil
}
