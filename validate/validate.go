// Command validate lints the board presets in a configs directory
// (../configs by default). It checks:
//   - JSON structure and the rules the server applies when loading a preset
//   - The layout: a decodable code, well-formed text rows or a valid size
//   - The number of tile slots (at least one pair; an odd slot is dropped)
//   - Which player messages fall back to built-in text
//   - Solvability: boards dealt from a handful of seeds clear completely
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/generator"
	"github.com/wricardo/tile-match-game/game/service"
)

// solvabilitySeeds are dealt for every preset.
var solvabilitySeeds = []uint32{1, 2, 3, 4, 5}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	layoutInfo, err := describeShape(&config)
	if err != nil {
		result.fail("Layout: %v", err)
		return result
	}
	if layoutInfo != nil && layoutInfo.Tiles < 2 {
		result.fail("Layout has %d tile slots, need at least 2", layoutInfo.Tiles)
		return result
	}

	missing := missingMessages(config.Messages)

	solvable := validateSolvability(&config, solvabilitySeeds)
	if !solvable.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, solvable.Errors...)

	// Add informational data
	if result.Valid {
		result.note("✓ Name: %s", config.Name)
		result.note("✓ Variant: %s", config.Variant)
		if layoutInfo != nil {
			result.note("✓ Layout: %s (%dx%d, %d slots)", layoutInfo.Code, layoutInfo.Width, layoutInfo.Height, layoutInfo.Tiles)
			if layoutInfo.Tiles%2 == 1 {
				result.note("✓ Odd slot count: one slot stays empty")
			}
		}
		if len(missing) > 0 {
			result.note("✓ Default messages used for: %s", strings.Join(missing, ", "))
		}
	}

	return result
}

// describeShape returns the layout a preset names explicitly, or nil when
// it relies on the built-in board.
func describeShape(config *engine.GameConfig) (*service.LayoutInfo, error) {
	switch {
	case config.LayoutCode != "":
		return service.DescribeLayout(config.LayoutCode)
	case len(config.Layout) > 0 || (config.Width > 0 && config.Height > 0):
		code, err := service.EncodeRows(service.EncodeRequest{
			Variant: config.Variant,
			Rows:    config.Layout,
			Width:   config.Width,
			Height:  config.Height,
		})
		if err != nil {
			return nil, err
		}
		return service.DescribeLayout(code)
	}
	return nil, nil
}

func missingMessages(m engine.Messages) []string {
	var missing []string
	for _, msg := range []struct {
		key, value string
	}{
		{"welcome", m.Welcome},
		{"matched", m.Matched},
		{"no_path", m.NoPath},
		{"mismatch", m.Mismatch},
		{"blocked", m.Blocked},
		{"victory", m.Victory},
		{"stuck", m.Stuck},
		{"shuffled", m.Shuffled},
	} {
		if msg.value == "" {
			missing = append(missing, msg.key)
		}
	}
	return missing
}

// validateSolvability deals each seed and checks that the recorded
// solution clears the board. Simple shuffles record no solution, so for
// them only dealing is checked.
func validateSolvability(config *engine.GameConfig, seeds []uint32) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	var unsolved []uint32
	dropped := 0
	for _, seed := range seeds {
		res, err := generator.Generate(config.Options(&seed))
		if err != nil {
			result.fail("Seed %d: failed to deal: %v", seed, err)
			continue
		}
		dropped += res.Dropped
		if !config.SimpleShuffle && !generator.Solvable(res) {
			unsolved = append(unsolved, seed)
		}
	}

	if len(unsolved) > 0 {
		result.fail("Solvability failure: %d/%d dealt boards do not clear", len(unsolved), len(seeds))
		for _, seed := range unsolved {
			result.note("Unsolved: seed %d", seed)
		}
	} else if result.Valid {
		if config.SimpleShuffle {
			result.note("✓ Dealing: all %d seeds deal (simple shuffle, solvability not guaranteed)", len(seeds))
		} else {
			result.note("✓ Solvability: all %d dealt boards clear", len(seeds))
		}
		if dropped > 0 {
			result.note("✓ Dropped slots across seeds: %d", dropped)
		}
	}

	return result
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
