// Package pathfinder decides which tiles may be matched.
//
// On a two-corner board two tiles of the same design match when a path of
// at most three straight segments joins them through empty cells only.
// The search is depth-first over an explicit stack of partial paths:
// directions that can never reach a target are not seeded, a final
// segment is only started when it lines up with a target, and a second
// segment that has overshot every target is dropped. Paths of one or two
// segments are returned as soon as they are found; a three-segment path
// is kept while shorter options are still being explored.
//
// On a traditional board a tile is free when nothing covers it and one of
// its sides is open; two free tiles of the same design match.
package pathfinder
