// Package config loads, lists and saves board presets.
//
// A preset is a JSON-encoded engine.GameConfig stored as <id>.json in the
// configs directory. It names a variant (two_corner or traditional) and a
// board shape, given either as a layout code or as width/height for a
// filled rectangle, plus the tile distribution and the game messages.
//
// Manager caches parsed presets and picks a default: classic.json when
// present, else the first valid preset, else the built-in classic board.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		return err
//	}
//	cfg, err := manager.LoadConfig("pyramid")
//	presets, err := manager.ListConfigs()
package config
