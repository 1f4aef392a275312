package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/layout"
)

func createValidConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:         "Test Config",
		Description:  "Test configuration",
		Variant:      board.Flat,
		Width:        8,
		Height:       4,
		Distribution: board.MixedPairs,
		Messages: engine.Messages{
			Welcome: "Welcome!",
			Matched: "Matched, %d left",
			Victory: "Cleared!",
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func newManager(t *testing.T, dir string) *Manager {
	t.Helper()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	return manager
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())
		if newManager(t, dir) == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to the built-in board", func(t *testing.T) {
		manager := newManager(t, t.TempDir())
		def := manager.GetDefault()
		if def == nil {
			t.Fatal("Expected default config to be available")
		}
		if def.LayoutCode != layout.DefaultFlatCode {
			t.Errorf("Default layout = %q, want %q", def.LayoutCode, layout.DefaultFlatCode)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	layered := createValidConfig()
	layered.Name = "Pyramid"
	layered.Variant = board.Layered
	layered.Width, layered.Height = 0, 0
	layered.LayoutCode = layout.DefaultLayeredCode
	writeConfigFile(t, dir, "pyramid", layered)

	manager := newManager(t, dir)

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("pyramid")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Pyramid" || config.Variant != board.Layered {
			t.Errorf("Loaded %q/%s, want Pyramid/%s", config.Name, config.Variant, board.Layered)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("pyramid.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Pyramid" {
			t.Errorf("Expected config name 'Pyramid', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("pyramid")
		config2, err := manager.LoadConfig("pyramid")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		if _, err := manager.LoadConfig("non-existent"); err != ErrConfigNotFound {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		bad := createValidConfig()
		bad.LayoutCode = "2CO!!"
		writeConfigFile(t, dir, "invalid", bad)
		if _, err := manager.LoadConfig("invalid"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": "Malformed", invalid json}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := manager.LoadConfig("malformed"); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("classic preferred", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Alpha"
		writeConfigFile(t, dir, "alpha", other)
		classic := createValidConfig()
		classic.Name = "Classic"
		writeConfigFile(t, dir, "classic", classic)

		if got := newManager(t, dir).GetDefault().Name; got != "Classic" {
			t.Errorf("Default = %q, want Classic", got)
		}
	})

	t.Run("first valid preset otherwise", func(t *testing.T) {
		dir := t.TempDir()
		cfg := createValidConfig()
		cfg.Name = "Only"
		writeConfigFile(t, dir, "only", cfg)

		if got := newManager(t, dir).GetDefault().Name; got != "Only" {
			t.Errorf("Default = %q, want Only", got)
		}
	})

	t.Run("set default", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())
		small := createValidConfig()
		small.Name = "Small"
		writeConfigFile(t, dir, "small", small)

		manager := newManager(t, dir)
		if err := manager.SetDefault("small"); err != nil {
			t.Fatalf("SetDefault: %v", err)
		}
		if manager.GetDefault().Name != "Small" {
			t.Error("SetDefault did not change the default")
		}
		if err := manager.SetDefault("missing"); err != ErrConfigNotFound {
			t.Errorf("SetDefault(missing) = %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	names := map[string]string{"classic": "Classic", "small": "Small", "wide": "Wide"}
	for file, name := range names {
		cfg := createValidConfig()
		cfg.Name = name
		writeConfigFile(t, dir, file, cfg)
	}
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	configList, err := newManager(t, dir).ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != len(names) {
		t.Errorf("Expected %d configs, got %d", len(names), len(configList))
	}
	for _, info := range configList {
		if names[info.ConfigID] != info.Name {
			t.Errorf("ConfigID %q listed with name %q", info.ConfigID, info.Name)
		}
		if info.Variant != board.Flat || info.Width != 8 || info.Height != 4 {
			t.Errorf("%s: variant=%s size=%dx%d", info.ConfigID, info.Variant, info.Width, info.Height)
		}
		if info.Distribution != board.MixedPairs {
			t.Errorf("%s: distribution=%s", info.ConfigID, info.Distribution)
		}
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager := newManager(t, dir)

	cfg := createValidConfig()
	cfg.Name = "Saved"
	if err := manager.SaveConfig("saved", cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("saved.json not written: %v", err)
	}
	loaded, err := manager.LoadConfig("saved")
	if err != nil || loaded.Name != "Saved" {
		t.Errorf("LoadConfig after save = %v, %v", loaded, err)
	}

	for _, name := range []string{"", "../escape", ".hidden"} {
		if err := manager.SaveConfig(name, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("SaveConfig(%q) = %v, want ErrInvalidConfig", name, err)
		}
	}

	bad := createValidConfig()
	bad.Messages.Victory = ""
	if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("SaveConfig(bad) = %v, want ErrInvalidConfig", err)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	cfg := createValidConfig()
	cfg.Name = "Before"
	writeConfigFile(t, dir, "classic", cfg)

	manager := newManager(t, dir)
	cfg.Name = "After"
	writeConfigFile(t, dir, "classic", cfg)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}
	if got := manager.GetDefault().Name; got != "After" {
		t.Errorf("Default after refresh = %q, want After", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 5; i++ {
		cfg := createValidConfig()
		cfg.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), cfg)
	}
	manager := newManager(t, dir)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	if len(manager.configs) < 5 {
		t.Errorf("Expected at least 5 configs in cache, got %d", len(manager.configs))
	}
}
