// Package mcp exposes the tile match game to AI agents over the Model
// Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request to the REST
// API and the JSON reply is rendered as text an agent can read. Two-corner
// boards are printed as a grid of design numbers with row and column
// headers so tile ids can be computed; traditional boards list the top
// tile of every stack with its id, design, layer and whether it is free.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, match_tiles, hint, list_matches, describe_tile
//   - shuffle, reset_game, match_history
//   - list_configs, decode_layout, encode_layout, generate_boards
//   - game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// or mounted next to the REST API
//	apiServer.Handle("/mcp", client)
package mcp
