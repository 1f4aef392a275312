package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/layout"
)

// ValidateGameConfig checks a preset for correctness. Layout codes are only
// inspected here; a code whose payload does not decode makes NewEngine
// fall back to the default shape.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Variant != "" && !config.Variant.Valid() {
		return fmt.Errorf("config validation: variant must be %q or %q, got %q", board.Flat, board.Layered, config.Variant)
	}

	if config.LayoutCode != "" {
		h, err := layout.Inspect(config.LayoutCode)
		if err != nil {
			return fmt.Errorf("config validation: layout_code: %w", err)
		}
		if config.Variant != "" && board.VariantOf(h.Variant) != config.Variant {
			return fmt.Errorf("config validation: layout_code is a %s code but variant is %s", h.Variant, config.Variant)
		}
	} else if len(config.Layout) > 0 {
		if _, err := config.rowsCode(); err != nil {
			return fmt.Errorf("config validation: layout: %w", err)
		}
	} else if err := layout.ValidateDimensions(config.Width, config.Height); err != nil {
		return fmt.Errorf("config validation: layout_code or width/height required: %w", err)
	}

	if config.Distribution != "" {
		if _, err := board.ParseDistribution(string(config.Distribution)); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.Matched != "" && !strings.Contains(config.Messages.Matched, "%d") {
		return fmt.Errorf("config validation: messages.matched must contain %%d for remaining tiles")
	}
	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// CONFIG_DIR replaces the default configs/ directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfigByName loads a preset by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		configPath = filepath.Join(configDir, configName)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}

// DefaultConfig is the preset used when none is given: the default
// two-corner layout with both pairs of every design.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Two-corner board with every design dealt twice",
		Variant:     board.Flat,
		LayoutCode:  layout.DefaultFlatCode,
		Messages:    defaultMessages,
	}
}

var defaultMessages = Messages{
	Welcome:  "Match pairs of identical tiles. Two-corner paths only!",
	Matched:  "Matched! %d tiles left",
	NoPath:   "Those tiles cannot be connected with two corners or fewer",
	Mismatch: "Those tiles do not match",
	Blocked:  "That tile is not free",
	Victory:  "Board cleared!",
	Stuck:    "No matches left. Shuffle to continue",
	Shuffled: "Tiles shuffled",
}

func (m Messages) orDefault(get func(Messages) string) string {
	if s := get(m); s != "" {
		return s
	}
	return get(defaultMessages)
}

// rowsCode encodes Layout for the configured variant.
func (c *GameConfig) rowsCode() (string, error) {
	if c.Variant == board.Layered {
		shape, err := layout.ParseLayeredRows(c.Layout)
		if err != nil {
			return "", err
		}
		return layout.EncodeLayered(shape)
	}
	shape, err := layout.ParseFlatRows(c.Layout)
	if err != nil {
		return "", err
	}
	return layout.EncodeFlat(shape)
}
