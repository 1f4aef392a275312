package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/pathfinder"
	"github.com/wricardo/tile-match-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tile Match Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tile Match Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Remove every tile from the board by matching pairs of identical designs.

AVAILABLE TOOLS:
- create_session: Deal a new board from a preset (optionally with a seed)
- get_session / list_sessions: Inspect sessions
- game_state: Board, remaining tiles and available matches
- match_tiles: Remove two tiles - requires intent explanation
- hint: One legal match
- list_matches: Every legal match
- describe_tile: Design, position and legal partners of one tile
- shuffle: Re-deal the remaining tiles when stuck
- reset_game: Back to the dealt board
- match_history: Past matches and shuffles
- list_configs: Available presets
- decode_layout / encode_layout: Convert between layout codes and text rows
- generate_boards: Deal a batch of boards and report which are solvable
- game_instructions: Full rules

NOTE: The 'intent' parameter on match_tiles serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Config id to use (optional, see list_configs)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Deal seed (optional). The same preset and seed always deal the same board.",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, remaining tiles and status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match_tiles",
		Description: "Remove two tiles with matching designs. On two-corner boards they must be joined by a path of at most three straight segments through empty cells; on traditional boards both must be free.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"a": map[string]interface{}{
					"type":        "integer",
					"description": "First tile id",
				},
				"b": map[string]interface{}{
					"type":        "integer",
					"description": "Second tile id",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why this pair (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "a", "b"},
		},
	}, c.handleMatch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Suggest one legal match",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_matches",
		Description: "List every legal match on the current board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleListMatches)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get the design, position and current legal partners of one tile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"tile": map[string]interface{}{
					"type":        "integer",
					"description": "Tile id",
				},
			},
			Required: []string{"session_id", "tile"},
		},
	}, c.handleDescribeTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shuffle",
		Description: "Re-deal the remaining tiles over their current positions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleShuffle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to the dealt board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDSchema()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match_history",
		Description: "Get match history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMatchHistory)

	// Configuration and layouts
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "decode_layout",
		Description: "Decode a layout code (2CO two-corner or TRD traditional) into text rows",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "Layout code",
				},
			},
			Required: []string{"code"},
		},
	}, c.handleDecodeLayout)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "encode_layout",
		Description: "Encode text rows, or a width and height for a full rectangle, into a layout code",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"variant": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(board.Flat), string(board.Layered)},
					"description": "Board variant",
				},
				"rows": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Rows of '#'/'.' for two_corner, or '.'/'1'-'6' stack heights for traditional",
				},
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Width when rows are omitted",
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Height when rows are omitted",
				},
			},
		},
	}, c.handleEncodeLayout)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "generate_boards",
		Description: "Deal a batch of boards from a preset and report which are solvable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Config id (optional)",
				},
				"seeds": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "integer"},
					"description": "Seeds to deal",
				},
				"count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of random seeds when seeds is empty",
				},
			},
		},
	}, c.handleGenerateBoards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeHTTP answers a single JSON-RPC message posted to /mcp.
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	if response == nil {
		// Notifications have no reply
		w.WriteHeader(http.StatusAccepted)
		return
	}
	data, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg reads a JSON number; ok is false when the key is missing.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	id := stringArg(args, "session_id")
	if id == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if name := stringArg(args, "config_name"); name != "" {
		body["config_id"] = name
	}
	if seed, ok := intArg(args, "seed"); ok {
		if seed < 0 {
			return mcp.NewToolResultError("seed must be a non-negative integer"), nil
		}
		body["seed"] = uint32(seed)
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n\n%s",
		info.ID, info.ConfigName, info.Seed, formatGameState(info.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		remaining := 0
		status := engine.StatusPlaying
		if s.GameState != nil {
			remaining, status = s.GameState.Remaining, s.GameState.Status
		}
		fmt.Fprintf(&result, "- %s (Config: %s, Seed: %d, %d tiles left, %s, Created: %s)\n",
			s.ID, s.ConfigName, s.Seed, remaining, status, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/match")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, okA := intArg(args, "a")
	b, okB := intArg(args, "b")
	if !okA || !okB {
		return mcp.NewToolResultError("both tile ids 'a' and 'b' are required"), nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = stringArg(args, "intent")

	var result service.MatchResult
	if err := c.apiCall(ctx, "POST", path, map[string]int{"a": a, "b": b}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMatchResult(&result)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/hint")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var hint service.HintResult
	if err := c.apiCall(ctx, "GET", path, nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !hint.Available || hint.Hint == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No match available (%s). %s", hint.Status, hint.Message)), nil
	}
	result := hint.Message
	if hint.Hint.Path != nil {
		result += "\nPath: " + formatPath(hint.Hint.Path)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListMatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/matches")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var list service.MatchList
	if err := c.apiCall(ctx, "GET", path, nil, &list); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMatchList(&list)), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id, ok := intArg(args, "tile")
	if !ok {
		return mcp.NewToolResultError("tile is required"), nil
	}
	statePath, err := sessionPath(args, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matchesPath, _ := sessionPath(args, "/matches")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", statePath, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var list service.MatchList
	if err := c.apiCall(ctx, "GET", matchesPath, nil, &list); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := describeTile(&state, &list, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleShuffle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/shuffle")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMatchHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	suffix := "/history"
	if len(params) > 0 {
		suffix += "?" + params.Encode()
	}
	path, err := sessionPath(args, suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		shape := cfg.LayoutCode
		if shape == "" {
			shape = fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
		}
		fmt.Fprintf(&result, "• %s (id: %s)\n  %s\n  Variant: %s, Layout: %s\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Variant, shape)
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleDecodeLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := stringArg(arguments(request), "code")
	if code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}

	var info service.LayoutInfo
	if err := c.apiCall(ctx, "GET", "/api/layouts/"+url.PathEscape(code), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLayout(&info)), nil
}

func (c *Client) handleEncodeLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	req := service.EncodeRequest{Variant: board.Variant(stringArg(args, "variant"))}
	if raw, ok := args["rows"].([]interface{}); ok {
		for _, r := range raw {
			if row, ok := r.(string); ok {
				req.Rows = append(req.Rows, row)
			}
		}
	}
	req.Width, _ = intArg(args, "width")
	req.Height, _ = intArg(args, "height")

	var info service.LayoutInfo
	if err := c.apiCall(ctx, "POST", "/api/layouts", req, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLayout(&info)), nil
}

func (c *Client) handleGenerateBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	req := service.BatchRequest{ConfigName: stringArg(args, "config_name")}
	if raw, ok := args["seeds"].([]interface{}); ok {
		for _, s := range raw {
			if f, ok := s.(float64); ok && f >= 0 {
				req.Seeds = append(req.Seeds, uint32(f))
			}
		}
	}
	req.Count, _ = intArg(args, "count")

	var resp service.BatchResponse
	if err := c.apiCall(ctx, "POST", "/api/generate", req, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBatch(&resp)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Tile Match Game - Complete Instructions

GAME OBJECTIVE:
Clear the board by removing tiles in matching pairs.

TILE IDS AND DESIGNS:
• Every tile has a fixed id; ids never change when tiles are removed or shuffled
• game_state prints each board cell as its design number, '.' for an empty cell
• Two tiles match when their designs are equal; the two wildcard families
  (designs 34-37 and 38-41) match any member of the same family

TWO-CORNER BOARDS (variant two_corner):
• The board is surrounded by an empty one-cell border
• Tile id = row * columns + column, counting the border (row 0 and column 0 are border)
• Two matching tiles can be removed when a line of at most three straight
  segments (two turns) joins them through empty cells only
• Lines may run along the outside border

TRADITIONAL BOARDS (variant traditional):
• Tiles are stacked in layers
• A tile is free when no tile lies on top of it and its left or right side is open
• Two matching free tiles can be removed; no path is needed

GOOD HABITS:
• Use hint or list_matches before guessing
• Prefer pairs whose other copies are still buried or far apart
• Use describe_tile to see a tile's design and its legal partners
• When no match remains the game is stuck: shuffle re-deals the remaining
  tiles over the same positions

VICTORY CONDITIONS:
• The game is won when no tile remains

Good luck clearing the board!`

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\n\n%s",
		info.ID, info.ConfigName, info.Seed,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(info.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Variant: %s | Tiles: %d/%d | Matches available: %d | Shuffles: %d | Status: %s\n",
		state.Variant, state.Remaining, state.TotalTiles, state.AvailableMatches, state.Shuffles, state.Status)
	fmt.Fprintf(&result, "Layout: %s | Seed: %d\n\n", state.LayoutCode, state.Seed)

	switch {
	case state.Flat != nil:
		result.WriteString(formatFlatBoard(state.Flat))
	case state.Layered != nil:
		result.WriteString(formatLayeredBoard(state.Layered))
	}

	if state.GameOver && state.Victory {
		result.WriteString("\n🎉 VICTORY!")
	} else if state.Status == engine.StatusStuck {
		result.WriteString("\n⚠ STUCK - shuffle to continue")
	}
	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}
	return result.String()
}

// formatFlatBoard prints designs in a grid whose row and column headers
// let a reader compute tile ids.
func formatFlatBoard(b *board.FlatBoard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grid %dx%d (id = row*%d + col):\n    ", b.Cols, b.Rows, b.Cols)
	for x := 0; x < b.Cols; x++ {
		fmt.Fprintf(&sb, "%3d", x)
	}
	sb.WriteString("\n")
	for y := 0; y < b.Rows; y++ {
		fmt.Fprintf(&sb, "%3d ", y)
		for x := 0; x < b.Cols; x++ {
			t := b.Tiles[b.ID(x, y)]
			if t.Occupied() {
				fmt.Fprintf(&sb, "%3d", t.Design)
			} else {
				sb.WriteString("  .")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatLayeredBoard lists the top tile of every stack, which is the only
// tile a player can act on there.
func formatLayeredBoard(b *board.LayeredBoard) string {
	type top struct {
		tile  board.Tile
		found bool
	}
	tops := make([]top, b.Width*b.Height)
	for _, t := range b.Tiles {
		if !t.Occupied() {
			continue
		}
		cell := &tops[t.Y*b.Width+t.X]
		if !cell.found || t.Z > cell.tile.Z {
			cell.tile, cell.found = t, true
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Top tiles %dx%d as id:design@layer (* = free):\n", b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cell := tops[y*b.Width+x]
			if !cell.found {
				sb.WriteString("        .   ")
				continue
			}
			free := " "
			if pathfinder.IsFree(b, cell.tile.ID) {
				free = "*"
			}
			fmt.Fprintf(&sb, "%4d:%2d@%d%s ", cell.tile.ID, cell.tile.Design, cell.tile.Z, free)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatPath(p *pathfinder.Path) string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, len(p.Segments))
	for _, seg := range p.Segments {
		parts = append(parts, fmt.Sprintf("%s %v", seg.Dir, seg.Cells))
	}
	return fmt.Sprintf("%d → %d via %s (%d turns)", p.From, p.To, strings.Join(parts, ", "), p.Corners())
}

func formatMatchResult(result *service.MatchResult) string {
	var sb strings.Builder
	if result.Success {
		fmt.Fprintf(&sb, "✓ Matched tiles %d and %d\n", result.Pair.A, result.Pair.B)
		if result.Path != nil {
			fmt.Fprintf(&sb, "Path: %s\n", formatPath(result.Path))
		}
	} else {
		fmt.Fprintf(&sb, "✗ Match failed (%s)\n", result.ReasonCode)
	}
	for _, ev := range result.Events {
		if ev.Type != "match" {
			fmt.Fprintf(&sb, "Event: %s - %s\n", ev.Type, ev.Message)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(formatGameState(result.GameState))
	return sb.String()
}

func formatMatchList(list *service.MatchList) string {
	if list.Count == 0 {
		return fmt.Sprintf("No legal matches (status: %s). Use shuffle to continue.", list.Status)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Legal matches (%d):\n", list.Count)
	for _, p := range list.Matches {
		fmt.Fprintf(&sb, "- %d & %d\n", p.A, p.B)
	}
	return sb.String()
}

func describeTile(state *engine.GameState, list *service.MatchList, id int) (string, error) {
	var tiles []board.Tile
	switch {
	case state.Flat != nil:
		tiles = state.Flat.Tiles
	case state.Layered != nil:
		tiles = state.Layered.Tiles
	}
	if id < 0 || id >= len(tiles) {
		return "", fmt.Errorf("tile %d does not exist (board has ids 0-%d)", id, len(tiles)-1)
	}
	t := tiles[id]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tile %d at column %d, row %d", t.ID, t.X, t.Y)
	if state.Layered != nil {
		fmt.Fprintf(&sb, ", layer %d", t.Z)
	}
	sb.WriteString("\n")
	if !t.Occupied() {
		sb.WriteString("Empty: this tile has already been removed.\n")
		return sb.String(), nil
	}
	fmt.Fprintf(&sb, "Design: %d", t.Design)
	if board.IsWildcard(t.Design) {
		sb.WriteString(" (wildcard)")
	}
	sb.WriteString("\n")
	if state.Layered != nil {
		fmt.Fprintf(&sb, "Free: %v\n", pathfinder.IsFree(state.Layered, id))
	}

	var same, partners []int
	for _, other := range tiles {
		if other.ID != id && other.Occupied() && board.Matches(t.Design, other.Design) {
			same = append(same, other.ID)
		}
	}
	for _, p := range list.Matches {
		switch id {
		case p.A:
			partners = append(partners, p.B)
		case p.B:
			partners = append(partners, p.A)
		}
	}
	sort.Ints(partners)
	fmt.Fprintf(&sb, "Matching tiles on board: %v\n", same)
	fmt.Fprintf(&sb, "Legal partners now: %v\n", partners)
	return sb.String(), nil
}

func formatHistory(history *service.HistoryResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match History (Page %d/%d, Total: %d):\n\n",
		history.Page, history.TotalPages, history.TotalEntries)
	for _, m := range history.Matches {
		status := "✓"
		if !m.Success {
			status = "✗ " + m.Error
		}
		if m.Action == string(engine.StepShuffle) {
			fmt.Fprintf(&sb, "#%d shuffle, %d left %s\n", m.MoveNumber, m.Remaining, status)
			continue
		}
		fmt.Fprintf(&sb, "#%d %d & %d (design %d), %d left %s\n", m.MoveNumber, m.A, m.B, m.Design, m.Remaining, status)
	}
	if history.HasNext {
		sb.WriteString("\n(more entries on the next page)")
	}
	return sb.String()
}

func formatLayout(info *service.LayoutInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Code: %s\nVariant: %s\nSize: %dx%d\nTiles: %d\n\n",
		info.Code, info.Variant, info.Width, info.Height, info.Tiles)
	for _, row := range info.Rows {
		sb.WriteString(row)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatBatch(resp *service.BatchResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Config: %s | Solvable: %d/%d\n\n", resp.ConfigName, resp.Solvable, len(resp.Results))
	for _, r := range resp.Results {
		if r.Error != "" {
			fmt.Fprintf(&sb, "seed %d: error %s\n", r.Seed, r.Error)
			continue
		}
		fmt.Fprintf(&sb, "seed %d: %d tiles, %d dropped, %d matches open, solvable=%v\n",
			r.Seed, r.Tiles, r.Dropped, r.Matches, r.Solvable)
	}
	return sb.String()
}
