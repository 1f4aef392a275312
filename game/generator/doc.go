// Package generator deals tile designs onto a layout.
//
// Two strategies exist. The simple shuffle deals pairs in order and
// permutes the designs across the slots; it is fast but the board may be
// unwinnable. The pre-solved shuffle plays the board backwards: it
// repeatedly removes two tiles that could legally be matched and gives
// them the next design from the queue, so replaying Result.Solution
// clears the board.
//
// The output is a pure function of the options and the seed. A nil seed
// is drawn at random and reported in Result.Seed.
package generator
