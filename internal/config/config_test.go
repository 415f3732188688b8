package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test camera defaults
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.Near != 0.0001 || cfg.Camera.Far != 20 {
		t.Errorf("expected clip planes 0.0001..20, got %f..%f", cfg.Camera.Near, cfg.Camera.Far)
	}
	if cfg.Camera.Distance != 2 {
		t.Errorf("expected distance 2, got %f", cfg.Camera.Distance)
	}
	if cfg.Camera.Step != 0.05 {
		t.Errorf("expected step 0.05, got %f", cfg.Camera.Step)
	}

	// Test material defaults
	if cfg.Material.Fresnel != [3]float32{0.2, 0.2, 0.2} {
		t.Errorf("expected fresnel 0.2, got %v", cfg.Material.Fresnel)
	}
	if cfg.Material.Albedo != [3]float32{1, 1, 1} {
		t.Errorf("expected white albedo, got %v", cfg.Material.Albedo)
	}
	if !cfg.Material.SkyVisible {
		t.Error("expected sky to be visible by default")
	}

	// Test asset defaults
	if cfg.Assets.Model != ".null" {
		t.Errorf("expected startup sphere, got %s", cfg.Assets.Model)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

camera:
  fov: 45
  distance: 3

material:
  shading: ibl-pbs
  roughness: 0.25
  albedo: [0.5, 0.25, 1]

ssao:
  enabled: true
  algorithm: sphere
  directions: 16

blur:
  type: gaussian
  radius: 6

assets:
  model: models/bunny.ply

logging:
  level: "debug"
  log_file: "meshview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Camera.FOV != 45 || cfg.Camera.Distance != 3 {
		t.Errorf("expected fov 45 and distance 3, got %f and %f", cfg.Camera.FOV, cfg.Camera.Distance)
	}
	// Keys missing from the file keep their defaults
	if cfg.Camera.Far != 20 {
		t.Errorf("expected default far plane, got %f", cfg.Camera.Far)
	}

	if cfg.Material.Shading != "ibl-pbs" {
		t.Errorf("expected ibl-pbs, got %s", cfg.Material.Shading)
	}
	if cfg.Material.Albedo != [3]float32{0.5, 0.25, 1} {
		t.Errorf("unexpected albedo %v", cfg.Material.Albedo)
	}
	if cfg.Material.Metalness != 0 || cfg.Material.Roughness != 0.25 {
		t.Errorf("unexpected metalness/roughness %f/%f", cfg.Material.Metalness, cfg.Material.Roughness)
	}

	if !cfg.SSAO.Enabled || cfg.SSAO.Algorithm != "sphere" || cfg.SSAO.Directions != 16 {
		t.Errorf("unexpected ssao section %+v", cfg.SSAO)
	}
	if cfg.SSAO.Samples != 4 {
		t.Errorf("expected default samples, got %d", cfg.SSAO.Samples)
	}

	if cfg.Blur.Type != "gaussian" || cfg.Blur.Radius != 6 {
		t.Errorf("unexpected blur section %+v", cfg.Blur)
	}

	if cfg.Assets.Model != "models/bunny.ply" {
		t.Errorf("expected bunny model, got %s", cfg.Assets.Model)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "meshview.log" {
		t.Errorf("expected log file 'meshview.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Path != configPath {
		t.Errorf("expected path %s, got %s", configPath, cfg.Path)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("ssao:\n  diretions: 16\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for misspelled key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty config should load, got %v", err)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("expected default width, got %d", cfg.Window.Width)
	}
	if cfg.Path != configPath {
		t.Errorf("expected path %s, got %s", configPath, cfg.Path)
	}
}

func TestLoadFromEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(envPath, []byte("window:\n  width: 1024\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvPath, envPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Width != 1024 {
		t.Errorf("expected width 1024 from env config, got %d", cfg.Window.Width)
	}

	// The -config flag wins over the environment
	flagPath := filepath.Join(t.TempDir(), "flag.yaml")
	if err := os.WriteFile(flagPath, []byte("window:\n  width: 2048\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	*flagConfig = flagPath
	defer func() { *flagConfig = "" }()

	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Width != 2048 {
		t.Errorf("expected width 2048 from flag config, got %d", cfg.Window.Width)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "model flag",
			setup: func() {
				*flagModel = "dragon.obj"
			},
			verify: func(cfg *Config) {
				if cfg.Assets.Model != "dragon.obj" {
					t.Errorf("expected model dragon.obj, got %s", cfg.Assets.Model)
				}
			},
			teardown: func() {
				*flagModel = ""
			},
		},
		{
			name: "ssao flag",
			setup: func() {
				*flagSSAO = true
			},
			verify: func(cfg *Config) {
				if !cfg.SSAO.Enabled {
					t.Error("expected ssao to be enabled with ssao flag")
				}
			},
			teardown: func() {
				*flagSSAO = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create config file with width=1600 and height=900
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	yamlContent := "window:\n  width: 1600\n  height: 900\n"
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}

	// Unset values should come from defaults
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected default fov 60, got %f", cfg.Camera.FOV)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Material.Shading = "reflection"
	cfg.SSAO.Directions = 12
	cfg.Blur.Enabled = false
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("expected path %s after save, got %s", path, cfg.Path)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Material.Shading != "reflection" {
		t.Errorf("expected reflection, got %s", loaded.Material.Shading)
	}
	if loaded.SSAO.Directions != 12 {
		t.Errorf("expected 12 directions, got %d", loaded.SSAO.Directions)
	}
	if loaded.Blur.Enabled {
		t.Error("expected blur to stay disabled")
	}

	// Save writes back to the file it came from
	loaded.Window.Width = 640
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	again := Default()
	if err := loadFromFile(again, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if again.Window.Width != 640 {
		t.Errorf("expected width 640, got %d", again.Window.Width)
	}
}
