// Package engine plays one round of tile-match solitaire over a generated board.
//
// The engine package implements the game mechanics including:
//   - Dealing a board from a preset and a seed
//   - Validating matches with the path finder or the free-tile rule
//   - Hints, shuffles and stuck detection
//   - Replayable step logs for persistence
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is what clients see, while
// GameConfig is a board preset loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if hint, ok := gameEngine.Hint(); ok {
//		gameEngine.Match(hint.Pair.A, hint.Pair.B)
//	}
//	state := gameEngine.GetState()
//
// Game Rules:
//
// On two-corner boards two tiles of the same design match when a path of
// at most three straight segments joins them through empty cells. On
// traditional boards both tiles must be free: nothing on top and one side
// open. Flowers match any flower and seasons any season. The round is won
// when the board is empty and stuck when tiles remain with no legal match.
package engine
