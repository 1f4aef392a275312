// Package rng provides the seeded random stream used by board generation.
//
// Every generated board is a pure function of its layout, options and seed,
// so the seed is always resolved up front (drawing one from crypto/rand when
// the caller has none) and handed back to the caller for later replay.
package rng
