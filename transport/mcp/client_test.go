package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/tile-match-game/api"
	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/config"
	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/layout"
	"github.com/wricardo/tile-match-game/game/service"
	"github.com/wricardo/tile-match-game/game/session"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{"remaining": 42})
		case "/message":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	t.Run("decodes result", func(t *testing.T) {
		var state engine.GameState
		if err := client.apiCall(ctx, "GET", "/ok", nil, &state); err != nil {
			t.Fatalf("apiCall: %v", err)
		}
		if state.Remaining != 42 {
			t.Errorf("Expected remaining 42, got %d", state.Remaining)
		}
	})

	t.Run("error message from body", func(t *testing.T) {
		err := client.apiCall(ctx, "GET", "/message", nil, nil)
		if err == nil || err.Error() != "session not found" {
			t.Errorf("Expected 'session not found', got %v", err)
		}
	})

	t.Run("status code fallback", func(t *testing.T) {
		err := client.apiCall(ctx, "GET", "/other", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "500") {
			t.Errorf("Expected status code in error, got %v", err)
		}
	})
}

func TestClient_handleMatchSendsIDs(t *testing.T) {
	var got map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sessions/abc/match" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.MatchResult{
			Success:    false,
			Pair:       board.NewPair(got["a"], got["b"]),
			ReasonCode: service.ReasonNoPath,
			GameState:  &engine.GameState{Status: engine.StatusPlaying, Remaining: 10, TotalTiles: 12},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	t.Run("missing ids", func(t *testing.T) {
		result, err := client.handleMatch(context.Background(), callRequest("match_tiles", map[string]interface{}{
			"session_id": "abc",
			"a":          float64(3),
		}))
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsError {
			t.Error("Expected a tool error when b is missing")
		}
	})

	t.Run("proxied", func(t *testing.T) {
		result, err := client.handleMatch(context.Background(), callRequest("match_tiles", map[string]interface{}{
			"session_id": "abc",
			"a":          float64(3),
			"b":          float64(9),
			"intent":     "both are design 4",
		}))
		if err != nil {
			t.Fatal(err)
		}
		if got["a"] != 3 || got["b"] != 9 {
			t.Errorf("Expected body {a:3 b:9}, got %v", got)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "no_path") || !strings.Contains(text, "Tiles: 10/12") {
			t.Errorf("Unexpected match output:\n%s", text)
		}
	})
}

func TestFormatFlatBoard(t *testing.T) {
	n := board.NoDesign
	b := &board.FlatBoard{
		Grid:   *board.NewGrid(4, 3, []int{n, n, n, n, n, 7, 12, n, n, n, n, n}),
		Width:  2,
		Height: 1,
	}

	out := formatFlatBoard(b)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected header, column row and 3 grid rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "id = row*4 + col") {
		t.Errorf("Expected id formula in header, got %q", lines[0])
	}
	if lines[3] != "  1   .  7 12  ." {
		t.Errorf("Unexpected middle row %q", lines[3])
	}
}

func TestFormatLayeredBoard(t *testing.T) {
	shape := layout.NewLayered(3, 1)
	shape.Fill(0, 0, 2, 0, 0)
	b := board.NewLayeredBoard(shape)
	for i, d := range []int{3, 5, 3} {
		b.Tiles[i].Design = d
	}

	out := formatLayeredBoard(b)
	if !strings.Contains(out, "0: 3@0*") {
		t.Errorf("Expected left tile to be free:\n%s", out)
	}
	if !strings.Contains(out, "1: 5@0 ") {
		t.Errorf("Expected middle tile to be blocked:\n%s", out)
	}
}

func TestFormatGameState(t *testing.T) {
	if got := formatGameState(nil); got != "No game state available" {
		t.Errorf("Unexpected nil output %q", got)
	}

	state := &engine.GameState{
		Variant:    board.Flat,
		Status:     engine.StatusVictory,
		GameOver:   true,
		Victory:    true,
		TotalTiles: 24,
		Message:    "Cleared!",
	}
	out := formatGameState(state)
	for _, want := range []string{"Tiles: 0/24", "VICTORY", "Message: Cleared!"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}

	state = &engine.GameState{Variant: board.Flat, Status: engine.StatusStuck, Remaining: 4, TotalTiles: 24}
	if out := formatGameState(state); !strings.Contains(out, "STUCK") {
		t.Errorf("Expected stuck marker in:\n%s", out)
	}
}

func TestDescribeTile(t *testing.T) {
	n := board.NoDesign
	state := &engine.GameState{
		Flat: &board.FlatBoard{
			Grid: *board.NewGrid(4, 3, []int{n, n, n, n, n, 7, 7, n, n, n, n, n}),
		},
	}
	list := &service.MatchList{Matches: []board.Pair{board.NewPair(5, 6)}, Count: 1}

	out, err := describeTile(state, list, 6)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Design: 7", "Matching tiles on board: [5]", "Legal partners now: [5]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}

	out, err = describeTile(state, list, 0)
	if err != nil || !strings.Contains(out, "already been removed") {
		t.Errorf("Expected empty tile description, got %q (%v)", out, err)
	}

	if _, err := describeTile(state, list, 99); err == nil {
		t.Error("Expected error for unknown tile")
	}
}

func TestGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", nil))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	for _, want := range []string{"three straight", "free", "shuffle", "wildcard", "VICTORY CONDITIONS"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected instructions to mention %q", want)
		}
	}
}

func TestServeHTTP(t *testing.T) {
	client := NewClient("http://localhost:8080")

	t.Run("rejects GET", func(t *testing.T) {
		rr := httptest.NewRecorder()
		client.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", rr.Code)
		}
	})

	t.Run("lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
		rr := httptest.NewRecorder()
		client.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		for _, tool := range []string{"match_tiles", "decode_layout", "generate_boards"} {
			if !strings.Contains(rr.Body.String(), tool) {
				t.Errorf("Expected tool %s in tools/list", tool)
			}
		}
	})
}

// TestIntegration drives the tools against the real REST stack.
func TestIntegration(t *testing.T) {
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	small := &engine.GameConfig{
		Name:        "Small",
		Description: "6x4 board",
		Variant:     board.Flat,
		Width:       6,
		Height:      4,
	}
	if err := configs.SaveConfig("small", small); err != nil {
		t.Fatal(err)
	}
	svc := service.NewGameService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(svc, nil))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callRequest("create_session", map[string]interface{}{
		"config_name": "small",
		"seed":        float64(11),
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if result.IsError || !strings.Contains(text, "Seed: 11") {
		t.Fatalf("Unexpected create output:\n%s", text)
	}
	id := strings.TrimSpace(strings.TrimPrefix(strings.SplitN(text, "\n", 2)[0], "Created session:"))

	hint, err := svc.Hint(ctx, id)
	if err != nil {
		t.Fatalf("Hint(%q): %v", id, err)
	}
	if !hint.Available || hint.Hint == nil {
		t.Fatal("Expected a legal match on a fresh board")
	}

	result, _ = client.handleMatch(ctx, callRequest("match_tiles", map[string]interface{}{
		"session_id": id,
		"a":          float64(hint.Hint.Pair.A),
		"b":          float64(hint.Hint.Pair.B),
	}))
	if text := resultText(t, result); !strings.Contains(text, "✓ Matched") || !strings.Contains(text, "Tiles: 22/24") {
		t.Errorf("Unexpected match output:\n%s", text)
	}

	result, _ = client.handleMatchHistory(ctx, callRequest("match_history", map[string]interface{}{"session_id": id}))
	if text := resultText(t, result); !strings.Contains(text, "Total: 1") {
		t.Errorf("Unexpected history output:\n%s", text)
	}

	result, _ = client.handleDecodeLayout(ctx, callRequest("decode_layout", map[string]interface{}{"code": layout.DefaultFlatCode}))
	if text := resultText(t, result); !strings.Contains(text, "Tiles: 136") {
		t.Errorf("Unexpected decode output:\n%s", text)
	}

	result, _ = client.handleGetSession(ctx, callRequest("get_session", map[string]interface{}{"session_id": "missing"}))
	if !result.IsError {
		t.Error("Expected an error for an unknown session")
	}
}
