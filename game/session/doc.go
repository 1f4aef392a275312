// Package session keeps live game sessions and their on-disk copies.
//
// Manager is a concurrency-safe registry of service.Session values keyed by
// a case-insensitive id. Ids are caller-chosen or a fresh UUID. A Manager
// built with NewManagerWithPersistence writes every session through to a
// SessionPersistence and lazily loads sessions it has not seen yet.
//
// FilePersistence stores one JSON document per session. Boards are never
// written out: a document holds the config, the deal seed and the ordered
// steps (matches and shuffles), and loading deals the board again and
// replays the steps. Replay failures surface as load errors so a tampered
// file never yields a board that disagrees with its history.
//
// Usage:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", config, nil)
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//	sess, err = manager.Get(sess.ID)
package session
