// Package service is the business layer between the transports (HTTP,
// WebSocket, MCP) and the game engine.
//
// GameService owns session lifecycle, match and shuffle processing,
// paginated match history, config presets and the layout tools (decode,
// encode, batch generation). Rule violations such as a blocked tile or a
// missing path are reported in MatchResult.ReasonCode rather than as
// errors, so transports only fail on missing sessions or bad input.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := svc.CreateSession(ctx, "classic", nil)
//	if err != nil {
//		return err
//	}
//	hint, _ := svc.Hint(ctx, info.ID)
//	res, err := svc.Match(ctx, info.ID, hint.A, hint.B)
//
// Batch generation fans out over an errgroup bounded by the CPU count and
// reports for every seed whether the dealt board is solvable.
package service
