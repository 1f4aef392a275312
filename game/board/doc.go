// Package board holds the tile model shared by generation, path finding
// and play.
//
// A two-corner board is a FlatBoard: a Grid one cell larger than its layout
// on every side, tile ids row-major over the whole grid. A traditional
// board is a LayeredBoard: an arena of stacked tiles whose cover and
// side-neighbour relations are precomputed once from the layout geometry.
//
// Designs 0-33 match only themselves. Designs 34-37 (flowers) and 38-41
// (seasons) are wildcard families; MatchKey folds every face of a family
// onto one key.
package board
