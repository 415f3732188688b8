package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in each search location.
	FileName = "config.yaml"
	// EnvPath names the environment variable that points at a config file.
	EnvPath = "MESHVIEW_CONFIG"
)

// Load builds the configuration. Defaults are overlaid with the first
// config file found and then with command line flags.
func Load() (*Config, error) {
	cfg := Default()

	if path := resolvePath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	return cfg, nil
}

// resolvePath picks the config file: the -config flag, then $MESHVIEW_CONFIG,
// then the search locations.
func resolvePath() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvPath); path != "" {
		return path
	}
	return findConfigFile()
}

// findConfigFile returns the first regular config file in the working
// directory or the user config directory.
func findConfigFile() string {
	for _, dir := range []string{".", ConfigDir()} {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory of the viewer.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "MeshView")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "MeshView")
		}
		return filepath.Join(home, "AppData", "Roaming", "MeshView")
	default:
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, "meshview")
	}
}

// loadFromFile overlays the YAML file at path onto cfg. Keys the file
// leaves out keep their current values; unknown keys are an error. An empty
// file is accepted.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	cfg.Path = path
	return nil
}
