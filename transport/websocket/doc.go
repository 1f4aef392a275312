// Package websocket pushes live board updates to browsers and other
// watchers of a game session.
//
// A Hub keeps the clients of each session and fans out Messages to them.
// Clients attach with /ws?session=<id>; the server broadcasts a
// state_update after every match, shuffle and reset, followed by
// match, shuffle, victory or stuck events carrying the affected tile ids.
// Incoming frames are ignored apart from pongs and close frames.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Frames may carry several newline-separated JSON messages when a client
// falls behind. A client whose buffer fills up is disconnected.
package websocket
