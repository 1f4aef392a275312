package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/config"
	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/layout"
	"github.com/wricardo/tile-match-game/game/service"
	"github.com/wricardo/tile-match-game/game/session"
	"github.com/wricardo/tile-match-game/transport/websocket"
)

func testConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "Small",
		Description: "6x4 board",
		Variant:     board.Flat,
		Width:       6,
		Height:      4,
		Messages: engine.Messages{
			Welcome: "Welcome!",
			Matched: "Matched, %d left",
			Victory: "Cleared!",
		},
	}
}

// newTestServer wires the real service over a temporary preset directory.
func newTestServer(t *testing.T) (*Server, *websocket.Hub) {
	t.Helper()
	dir := t.TempDir()
	configs, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}
	if err := configs.SaveConfig("small", testConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	svc := service.NewGameService(session.NewManager(), configs)
	return NewServer(svc, hub), hub
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func createSession(t *testing.T, s *Server, seed uint32) string {
	t.Helper()
	rr := do(t, s, "POST", "/api/sessions", map[string]interface{}{"config_id": "small", "seed": seed})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: status %d body %s", rr.Code, rr.Body.String())
	}
	var info service.SessionInfo
	decode(t, rr, &info)
	return info.ID
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/health", "/api"} {
		if rr := do(t, s, "GET", path, nil); rr.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rr.Code)
		}
	}
}

func TestCreateSession(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"preset with seed", map[string]interface{}{"config_id": "small", "seed": 5}, http.StatusCreated},
		{"deprecated config_name", map[string]interface{}{"config_name": "small"}, http.StatusCreated},
		{"default preset", nil, http.StatusCreated},
		{"unknown preset", map[string]interface{}{"config_id": "nope"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, "POST", "/api/sessions", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}

	rr := do(t, s, "POST", "/api/sessions", map[string]interface{}{"config_id": "small", "seed": 5})
	var info service.SessionInfo
	decode(t, rr, &info)
	if info.Seed != 5 {
		t.Errorf("Seed = %d, want 5", info.Seed)
	}
	if info.GameState == nil || info.GameState.TotalTiles != 24 {
		t.Errorf("Expected a 24-tile board, got %+v", info.GameState)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	id := createSession(t, s, 3)

	if rr := do(t, s, "GET", "/api/sessions/"+id, nil); rr.Code != http.StatusOK {
		t.Errorf("GET session = %d", rr.Code)
	}
	if rr := do(t, s, "GET", "/api/sessions/"+id+"/state", nil); rr.Code != http.StatusOK {
		t.Errorf("GET state = %d", rr.Code)
	}
	if rr := do(t, s, "DELETE", "/api/sessions/"+id, nil); rr.Code != http.StatusOK {
		t.Errorf("DELETE = %d", rr.Code)
	}
	for _, path := range []string{"/api/sessions/" + id, "/api/sessions/" + id + "/state", "/api/sessions/" + id + "/hint"} {
		if rr := do(t, s, "GET", path, nil); rr.Code != http.StatusNotFound {
			t.Errorf("GET %s after delete = %d, want 404", path, rr.Code)
		}
	}
	if rr := do(t, s, "DELETE", "/api/sessions/"+id, nil); rr.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rr.Code)
	}
}

func TestListSessions(t *testing.T) {
	s, _ := newTestServer(t)
	first := createSession(t, s, 1)
	time.Sleep(5 * time.Millisecond)
	createSession(t, s, 2)

	rr := do(t, s, "GET", "/api/sessions?sort=created&order=asc&limit=1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var resp struct {
		Count    int                    `json:"count"`
		Total    int                    `json:"total"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	decode(t, rr, &resp)
	if resp.Count != 1 || resp.Total != 2 {
		t.Errorf("count=%d total=%d, want 1/2", resp.Count, resp.Total)
	}
	if len(resp.Sessions) != 1 || resp.Sessions[0].ID != first {
		t.Errorf("oldest session should come first")
	}
}

func TestMatch(t *testing.T) {
	s, _ := newTestServer(t)
	id := createSession(t, s, 8)

	var hint service.HintResult
	decode(t, do(t, s, "GET", "/api/sessions/"+id+"/hint", nil), &hint)
	if !hint.Available || hint.Hint == nil {
		t.Fatal("Expected a hint on a fresh board")
	}
	if hint.Hint.Path == nil {
		t.Error("Two-corner hints carry a path")
	}

	t.Run("legal match", func(t *testing.T) {
		rr := do(t, s, "POST", "/api/sessions/"+id+"/match", map[string]int{"a": hint.Hint.Pair.A, "b": hint.Hint.Pair.B})
		if rr.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
		}
		var res service.MatchResult
		decode(t, rr, &res)
		if !res.Success || res.GameState.Remaining != 22 {
			t.Errorf("success=%v remaining=%d", res.Success, res.GameState.Remaining)
		}
	})

	t.Run("rule violation", func(t *testing.T) {
		rr := do(t, s, "POST", "/api/sessions/"+id+"/match", map[string]int{"a": hint.Hint.Pair.A, "b": hint.Hint.Pair.B})
		var res service.MatchResult
		decode(t, rr, &res)
		if rr.Code != http.StatusOK || res.Success || res.ReasonCode != service.ReasonTileEmpty {
			t.Errorf("status=%d success=%v reason=%q", rr.Code, res.Success, res.ReasonCode)
		}
	})

	t.Run("missing tile id", func(t *testing.T) {
		if rr := do(t, s, "POST", "/api/sessions/"+id+"/match", map[string]int{"a": 1}); rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/sessions/"+id+"/match", strings.NewReader("{"))
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		if rr := do(t, s, "POST", "/api/sessions/missing/match", map[string]int{"a": 1, "b": 2}); rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}

func TestMatchesShuffleResetHistory(t *testing.T) {
	s, _ := newTestServer(t)
	id := createSession(t, s, 13)

	var list service.MatchList
	decode(t, do(t, s, "GET", "/api/sessions/"+id+"/matches", nil), &list)
	if list.Count == 0 || list.Count != len(list.Matches) {
		t.Fatalf("matches count=%d len=%d", list.Count, len(list.Matches))
	}
	pair := list.Matches[0]
	do(t, s, "POST", "/api/sessions/"+id+"/match", map[string]int{"a": pair.A, "b": pair.B})

	rr := do(t, s, "POST", "/api/sessions/"+id+"/shuffle", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("shuffle status %d: %s", rr.Code, rr.Body.String())
	}
	var shuffled struct {
		State engine.GameState `json:"state"`
	}
	decode(t, rr, &shuffled)
	if shuffled.State.Shuffles != 1 || shuffled.State.Remaining != 22 {
		t.Errorf("shuffles=%d remaining=%d", shuffled.State.Shuffles, shuffled.State.Remaining)
	}

	var history service.HistoryResponse
	decode(t, do(t, s, "GET", "/api/sessions/"+id+"/history?limit=1&order=asc", nil), &history)
	if history.TotalEntries != 2 || len(history.Matches) != 1 || !history.HasNext {
		t.Errorf("history total=%d page=%d hasNext=%v", history.TotalEntries, len(history.Matches), history.HasNext)
	}

	rr = do(t, s, "POST", "/api/sessions/"+id+"/reset", nil)
	var reset struct {
		State engine.GameState `json:"state"`
	}
	decode(t, rr, &reset)
	if reset.State.Remaining != reset.State.TotalTiles || reset.State.Shuffles != 0 {
		t.Errorf("reset state remaining=%d shuffles=%d", reset.State.Remaining, reset.State.Shuffles)
	}
}

func TestConfigs(t *testing.T) {
	s, _ := newTestServer(t)

	var list []*service.ConfigInfo
	decode(t, do(t, s, "GET", "/api/configs", nil), &list)
	if len(list) != 1 || list[0].ConfigID != "small" || list[0].Width != 6 {
		t.Fatalf("configs = %+v", list)
	}

	for _, path := range []string{"/api/configs/small", "/api/configs/small.json"} {
		if rr := do(t, s, "GET", path, nil); rr.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rr.Code)
		}
	}
	if rr := do(t, s, "GET", "/api/configs/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("GET unknown config = %d, want 404", rr.Code)
	}

	cfg := testConfig()
	cfg.Name = "Big Board"
	cfg.LayoutCode = layout.DefaultFlatCode
	rr := do(t, s, "POST", "/api/configs", cfg)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create config = %d: %s", rr.Code, rr.Body.String())
	}
	var created map[string]string
	decode(t, rr, &created)
	if created["config_id"] != "big_board" {
		t.Errorf("config_id = %q, want big_board", created["config_id"])
	}
	if rr := do(t, s, "POST", "/api/sessions", map[string]string{"config_id": "big_board"}); rr.Code != http.StatusCreated {
		t.Errorf("session from saved config = %d", rr.Code)
	}

	bad := testConfig()
	bad.Messages.Welcome = ""
	if rr := do(t, s, "POST", "/api/configs", bad); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid config = %d, want 400", rr.Code)
	}
	if rr := do(t, s, "POST", "/api/configs", map[string]string{}); rr.Code != http.StatusBadRequest {
		t.Errorf("nameless config = %d, want 400", rr.Code)
	}
}

func TestLayouts(t *testing.T) {
	s, _ := newTestServer(t)

	var info service.LayoutInfo
	rr := do(t, s, "GET", "/api/layouts/"+layout.DefaultFlatCode, nil)
	decode(t, rr, &info)
	if info.Tiles != 136 || info.Width != 17 || info.Height != 8 {
		t.Errorf("decoded %+v", info)
	}

	if rr := do(t, s, "GET", "/api/layouts/3XX01", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("bad code = %d, want 400", rr.Code)
	}
	rr = do(t, s, "GET", "/api/layouts/2CO01h8lgVVVVVVVT", nil)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "checksum") {
		t.Errorf("corrupted code = %d %s, want 400 checksum error", rr.Code, rr.Body.String())
	}

	rr = do(t, s, "POST", "/api/layouts", service.EncodeRequest{Variant: board.Layered, Rows: []string{"12", "21"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("encode = %d: %s", rr.Code, rr.Body.String())
	}
	decode(t, rr, &info)
	if info.Variant != layout.VariantLayered || info.Tiles != 6 {
		t.Errorf("encoded %+v", info)
	}

	if rr := do(t, s, "POST", "/api/layouts", service.EncodeRequest{Rows: []string{"#x"}}); rr.Code != http.StatusBadRequest {
		t.Errorf("bad rows = %d, want 400", rr.Code)
	}
}

func TestGenerate(t *testing.T) {
	s, _ := newTestServer(t)

	rr := do(t, s, "POST", "/api/generate", service.BatchRequest{ConfigName: "small", Seeds: []uint32{1, 2, 3}})
	if rr.Code != http.StatusOK {
		t.Fatalf("generate = %d: %s", rr.Code, rr.Body.String())
	}
	var resp service.BatchResponse
	decode(t, rr, &resp)
	if len(resp.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(resp.Results))
	}
	for i, r := range resp.Results {
		if r.Seed != uint32(i+1) {
			t.Errorf("result %d seed = %d", i, r.Seed)
		}
	}

	if rr := do(t, s, "POST", "/api/generate", service.BatchRequest{ConfigName: "small"}); rr.Code != http.StatusBadRequest {
		t.Errorf("empty batch = %d, want 400", rr.Code)
	}
}

func TestUnifiedSessions(t *testing.T) {
	s, _ := newTestServer(t)
	a := createSession(t, s, 1)
	createSession(t, s, 2)

	var resp struct {
		ConfigName string                   `json:"config_name"`
		TotalTiles int                      `json:"total_tiles"`
		Sessions   []map[string]interface{} `json:"sessions"`
	}
	decode(t, do(t, s, "GET", "/api/sessions/unified", nil), &resp)
	if len(resp.Sessions) != 2 || resp.TotalTiles != 24 {
		t.Errorf("unified: %d sessions, %d tiles", len(resp.Sessions), resp.TotalTiles)
	}

	decode(t, do(t, s, "GET", fmt.Sprintf("/api/sessions/unified?sessionIds=%s,missing", a), nil), &resp)
	if len(resp.Sessions) != 1 || resp.Sessions[0]["session_id"] != a {
		t.Errorf("filtered unified sessions = %+v", resp.Sessions)
	}
}

func TestWebSocket(t *testing.T) {
	s, hub := newTestServer(t)
	id := createSession(t, s, 4)

	srv := httptest.NewServer(s)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + id

	if _, resp, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?session=missing", nil); err == nil {
		t.Error("Expected dial to unknown session to fail")
	} else if resp != nil && resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(id) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	var hint service.HintResult
	decode(t, do(t, s, "GET", "/api/sessions/"+id+"/hint", nil), &hint)
	do(t, s, "POST", "/api/sessions/"+id+"/match", map[string]int{"a": hint.Hint.Pair.A, "b": hint.Hint.Pair.B})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	first := strings.SplitN(string(data), "\n", 2)[0]
	var msg websocket.Message
	if err := json.Unmarshal([]byte(first), &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", first, err)
	}
	if msg.Event != websocket.EventStateUpdate || msg.GameState == nil || msg.GameState.Remaining != 22 {
		t.Errorf("unexpected first message %+v", msg)
	}
}
