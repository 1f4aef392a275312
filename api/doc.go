// Package api exposes the game service over REST and hosts the WebSocket
// endpoint.
//
// Endpoints:
//
//	POST   /api/sessions                  create a session {config_id, seed}
//	GET    /api/sessions                  list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//	GET    /api/sessions/unified          sessions for a multi-board view (?sessionIds=a,b or ?configName=x)
//	GET    /api/sessions/{id}             session info with game state
//	DELETE /api/sessions/{id}             delete a session
//	GET    /api/sessions/{id}/state       current game state
//	POST   /api/sessions/{id}/match       remove a pair {a, b}
//	GET    /api/sessions/{id}/hint        one legal match, with its path on two-corner boards
//	GET    /api/sessions/{id}/matches     every legal match
//	POST   /api/sessions/{id}/shuffle     re-deal the remaining tiles
//	POST   /api/sessions/{id}/reset       back to the dealt board
//	GET    /api/sessions/{id}/history     paginated match history (?page&limit&order)
//	GET    /api/configs                   list presets
//	POST   /api/configs                   save a preset
//	GET    /api/configs/{name}            one preset
//	GET    /api/layouts/{code}            decode a layout code into text rows
//	POST   /api/layouts                   encode text rows or a size into a code
//	POST   /api/generate                  deal a batch of boards {config_name, seeds | count}
//	GET    /health                        liveness
//	GET    /ws?session={id}               WebSocket stream of state updates
//
// Errors are JSON objects with an "error" field. Missing sessions and
// presets map to 404 and malformed codes, rows or presets to 400. A match
// that breaks a rule is not an error: it answers 200 with success false
// and a reason_code.
package api
