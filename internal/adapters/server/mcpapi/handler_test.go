package mcpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hylla/laneboard/internal/adapters/server/common"
	"github.com/hylla/laneboard/internal/app"
	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// stubBoardService records calls and returns fixture results for MCP tool tests.
type stubBoardService struct {
	result      app.Result
	items       []domain.Item
	err         error
	lastPhase   common.GesturePhase
	lastGesture common.GestureRequest
	lastLaneID  domain.LaneID
	lastRename  common.RenameLaneRequest
	lastSource  app.Source
}

func (s *stubBoardService) record(ctx context.Context) {
	s.lastSource, _ = app.SourceFromContext(ctx)
}

// Board returns the fixture result.
func (s *stubBoardService) Board(ctx context.Context) (app.Result, error) {
	s.record(ctx)
	return s.result, s.err
}

// LaneItems records the lane id and returns fixture items.
func (s *stubBoardService) LaneItems(ctx context.Context, laneID domain.LaneID) ([]domain.Item, error) {
	s.record(ctx)
	s.lastLaneID = laneID
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

// Gesture records the gesture and returns the fixture result.
func (s *stubBoardService) Gesture(ctx context.Context, phase common.GesturePhase, req common.GestureRequest) (app.Result, error) {
	s.record(ctx)
	s.lastPhase = phase
	s.lastGesture = req
	return s.result, s.err
}

// DeleteLane records the lane id and returns the fixture result.
func (s *stubBoardService) DeleteLane(ctx context.Context, laneID domain.LaneID) (app.Result, error) {
	s.record(ctx)
	s.lastLaneID = laneID
	return s.result, s.err
}

// RenameLane records the request and returns the fixture result.
func (s *stubBoardService) RenameLane(ctx context.Context, laneID domain.LaneID, req common.RenameLaneRequest) (app.Result, error) {
	s.record(ctx)
	s.lastLaneID = laneID
	s.lastRename = req
	return s.result, s.err
}

// jsonRPCResponse models minimal JSON-RPC response fields used in MCP adapter tests.
type jsonRPCResponse struct {
	ID     float64        `json:"id"`
	Result map[string]any `json:"result"`
}

// callToolRequest constructs one deterministic tools/call JSON-RPC request payload.
func callToolRequest(id int, toolName string, arguments map[string]any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      toolName,
			"arguments": arguments,
		},
	}
}

// toolResultText decodes the first text entry from one tool-call result payload.
func toolResultText(t *testing.T, result map[string]any) string {
	t.Helper()

	contentRaw, ok := result["content"].([]any)
	if !ok || len(contentRaw) == 0 {
		t.Fatalf("content missing in tool result: %#v", result)
	}
	first, ok := contentRaw[0].(map[string]any)
	if !ok {
		t.Fatalf("first content entry has unexpected type: %#v", contentRaw[0])
	}
	text, ok := first["text"].(string)
	if !ok {
		t.Fatalf("content text missing in tool result: %#v", first)
	}
	return text
}

// toolResultStructured decodes structuredContent as one map for stable assertions.
func toolResultStructured(t *testing.T, result map[string]any) map[string]any {
	t.Helper()
	structured, ok := result["structuredContent"].(map[string]any)
	if !ok {
		t.Fatalf("structuredContent missing in tool result: %#v", result)
	}
	return structured
}

// postJSONRPC sends one JSON-RPC payload and decodes the response body.
func postJSONRPC(t *testing.T, client *http.Client, url string, payload any) (*http.Response, jsonRPCResponse) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	var decoded jsonRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return resp, decoded
}

// initializeRequest builds a deterministic MCP initialize request payload.
func initializeRequest() map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
			"clientInfo": map[string]any{
				"name":    "laneboard-test",
				"version": "1.0.0",
			},
		},
	}
}

// callToolResultText decodes the first textual content block from a CallToolResult.
func callToolResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatalf("result = nil, want non-nil")
	}
	if len(result.Content) == 0 {
		t.Fatalf("result content is empty")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] has unexpected type %T", result.Content[0])
	}
	return text.Text
}

// newTestServer starts one MCP handler over the given board service.
func newTestServer(t *testing.T, svc common.BoardService) *httptest.Server {
	t.Helper()
	handler, err := NewHandler(Config{}, svc)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	return server
}

// TestHandlerUsesStatelessTransport verifies MCP transport does not issue session ids.
func TestHandlerUsesStatelessTransport(t *testing.T) {
	handler, err := NewHandler(Config{}, &stubBoardService{})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, decoded := postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if decoded.ID != 1 {
		t.Fatalf("id = %v, want 1", decoded.ID)
	}
	if got := resp.Header.Get("Mcp-Session-Id"); got != "" {
		t.Fatalf("Mcp-Session-Id header = %q, want empty (stateless transport)", got)
	}
}

// TestHandlerRegistersBoardTools verifies tool discovery lists every board tool.
func TestHandlerRegistersBoardTools(t *testing.T) {
	server := newTestServer(t, &stubBoardService{})
	_, toolsResp := postJSONRPC(t, server.Client(), server.URL, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/list",
	})

	toolsRaw, ok := toolsResp.Result["tools"].([]any)
	if !ok {
		t.Fatalf("tools list payload missing tools: %#v", toolsResp.Result)
	}
	toolNames := make([]string, 0, len(toolsRaw))
	for _, toolRaw := range toolsRaw {
		toolMap, ok := toolRaw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := toolMap["name"].(string)
		toolNames = append(toolNames, name)
	}
	for _, want := range []string{
		"laneboard.get_board",
		"laneboard.list_lane_items",
		"laneboard.rename_lane",
		"laneboard.delete_lane",
		"laneboard.drag_start",
		"laneboard.drag_over",
		"laneboard.drag_end",
	} {
		if !slices.Contains(toolNames, want) {
			t.Fatalf("tool list missing %s: %#v", want, toolNames)
		}
	}
}

// TestNewHandlerRequiresBoardService verifies constructor validation.
func TestNewHandlerRequiresBoardService(t *testing.T) {
	if _, err := NewHandler(Config{}, nil); err == nil {
		t.Fatal("NewHandler() error = nil, want error")
	}
}

// TestHandlerGetBoardToolCall verifies get_board returns structured board state.
func TestHandlerGetBoardToolCall(t *testing.T) {
	svc := &stubBoardService{
		result: app.Result{
			Revision: 4,
			Board: board.Snapshot{
				Lanes: []domain.Lane{{ID: 1, Title: "First row"}},
				Items: []domain.Item{{ID: "1", LaneID: 1, Title: "One"}},
			},
		},
	}
	server := newTestServer(t, svc)

	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "laneboard.get_board", map[string]any{}))
	if isErr, _ := resp.Result["isError"].(bool); isErr {
		t.Fatalf("get_board returned error: %s", toolResultText(t, resp.Result))
	}
	structured := toolResultStructured(t, resp.Result)
	if got, _ := structured["revision"].(float64); got != 4 {
		t.Fatalf("revision = %v, want 4", structured["revision"])
	}
	boardRaw, ok := structured["board"].(map[string]any)
	if !ok {
		t.Fatalf("board missing in structured result: %#v", structured)
	}
	lanes, _ := boardRaw["lanes"].([]any)
	if len(lanes) != 1 {
		t.Fatalf("lanes = %#v, want one lane", boardRaw["lanes"])
	}
	if svc.lastSource != app.SourceMCP {
		t.Fatalf("source = %q, want %q", svc.lastSource, app.SourceMCP)
	}
}

// TestHandlerListLaneItemsToolCall verifies lane id parsing and item output.
func TestHandlerListLaneItemsToolCall(t *testing.T) {
	svc := &stubBoardService{
		items: []domain.Item{{ID: "5", LaneID: 2, Title: "Five"}},
	}
	server := newTestServer(t, svc)

	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "laneboard.list_lane_items", map[string]any{
		"lane_id": "2",
	}))
	structured := toolResultStructured(t, resp.Result)
	items, _ := structured["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %#v, want one item", structured["items"])
	}
	if svc.lastLaneID != 2 {
		t.Fatalf("lane id = %d, want 2", svc.lastLaneID)
	}

	_, resp = postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "laneboard.list_lane_items", map[string]any{
		"lane_id": "zero",
	}))
	if got := toolResultText(t, resp.Result); !strings.HasPrefix(got, "invalid_request:") {
		t.Fatalf("text = %q, want invalid_request prefix", got)
	}
}

// TestHandlerGestureToolCalls verifies drag tool arguments become gesture requests.
func TestHandlerGestureToolCalls(t *testing.T) {
	cases := []struct {
		name      string
		tool      string
		args      map[string]any
		wantPhase common.GesturePhase
		wantOver  *board.Payload
	}{
		{
			name:      "start item",
			tool:      "laneboard.drag_start",
			args:      map[string]any{"active_type": "Item", "active_id": "1"},
			wantPhase: common.PhaseStart,
		},
		{
			name:      "over item",
			tool:      "laneboard.drag_over",
			args:      map[string]any{"active_type": "Item", "active_id": "1", "over_type": "Item", "over_id": "5"},
			wantPhase: common.PhaseOver,
			wantOver:  &board.Payload{Type: "Item", ItemID: "5"},
		},
		{
			name:      "over nothing",
			tool:      "laneboard.drag_over",
			args:      map[string]any{"active_type": "Item", "active_id": "1"},
			wantPhase: common.PhaseOver,
		},
		{
			name:      "end lane",
			tool:      "laneboard.drag_end",
			args:      map[string]any{"active_type": "Lane", "active_id": "1", "over_type": "Lane", "over_id": "3"},
			wantPhase: common.PhaseEnd,
			wantOver:  &board.Payload{Type: "Lane", LaneID: 3},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubBoardService{result: app.Result{Revision: 1}}
			server := newTestServer(t, svc)

			_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, tt.tool, tt.args))
			if isErr, _ := resp.Result["isError"].(bool); isErr {
				t.Fatalf("%s returned error: %s", tt.tool, toolResultText(t, resp.Result))
			}
			if svc.lastPhase != tt.wantPhase {
				t.Fatalf("phase = %q, want %q", svc.lastPhase, tt.wantPhase)
			}
			switch {
			case tt.wantOver == nil && svc.lastGesture.Over != nil:
				t.Fatalf("over = %#v, want nil", svc.lastGesture.Over)
			case tt.wantOver != nil && (svc.lastGesture.Over == nil || *svc.lastGesture.Over != *tt.wantOver):
				t.Fatalf("over = %#v, want %#v", svc.lastGesture.Over, tt.wantOver)
			}
		})
	}
}

// TestHandlerGestureAgainstService verifies a full item move through a real service.
func TestHandlerGestureAgainstService(t *testing.T) {
	svc, err := app.OpenBoard(context.Background(), nil)
	if err != nil {
		t.Fatalf("OpenBoard() error = %v", err)
	}
	server := newTestServer(t, common.NewAppServiceAdapter(svc))

	calls := []map[string]any{
		callToolRequest(2, "laneboard.drag_start", map[string]any{"active_type": "Item", "active_id": "9"}),
		callToolRequest(3, "laneboard.drag_over", map[string]any{"active_type": "Item", "active_id": "9", "over_type": "Item", "over_id": "2"}),
		callToolRequest(4, "laneboard.drag_end", map[string]any{"active_type": "Item", "active_id": "9", "over_type": "Item", "over_id": "2"}),
	}
	for _, call := range calls {
		_, resp := postJSONRPC(t, server.Client(), server.URL, call)
		if isErr, _ := resp.Result["isError"].(bool); isErr {
			t.Fatalf("tool returned error: %s", toolResultText(t, resp.Result))
		}
	}

	items, err := svc.LaneItems(context.Background(), 1)
	if err != nil {
		t.Fatalf("LaneItems() error = %v", err)
	}
	if len(items) != 4 || items[0].ID != "9" {
		t.Fatalf("lane 1 items = %#v, want 9 first of four", items)
	}
	res, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if res.Board.ActiveItem != nil || res.Board.ActiveLane != nil {
		t.Fatalf("drag state not cleared: %#v", res.Board)
	}
}

// TestHandlerRenameAndDeleteToolCalls verifies lane mutation tools.
func TestHandlerRenameAndDeleteToolCalls(t *testing.T) {
	svc := &stubBoardService{}
	server := newTestServer(t, svc)

	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "laneboard.rename_lane", map[string]any{
		"lane_id": "3",
		"title":   "Done",
	}))
	if isErr, _ := resp.Result["isError"].(bool); isErr {
		t.Fatalf("rename_lane returned error: %s", toolResultText(t, resp.Result))
	}
	if svc.lastLaneID != 3 || svc.lastRename.Title != "Done" {
		t.Fatalf("rename = (%d, %#v), want (3, Done)", svc.lastLaneID, svc.lastRename)
	}

	_, resp = postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "laneboard.delete_lane", map[string]any{
		"lane_id": "2",
	}))
	if isErr, _ := resp.Result["isError"].(bool); isErr {
		t.Fatalf("delete_lane returned error: %s", toolResultText(t, resp.Result))
	}
	if svc.lastLaneID != 2 {
		t.Fatalf("delete lane id = %d, want 2", svc.lastLaneID)
	}

	svc.err = errors.Join(common.ErrNotFound, errors.New("lane 7"))
	_, resp = postJSONRPC(t, server.Client(), server.URL, callToolRequest(4, "laneboard.rename_lane", map[string]any{
		"lane_id": "7",
		"title":   "Nope",
	}))
	if got := toolResultText(t, resp.Result); !strings.HasPrefix(got, "not_found:") {
		t.Fatalf("text = %q, want not_found prefix", got)
	}
}

// TestNormalizeConfig verifies deterministic MCP config defaults.
func TestNormalizeConfig(t *testing.T) {
	cases := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "defaults",
			in:   Config{},
			want: Config{ServerName: "laneboard", ServerVersion: "dev", EndpointPath: "/mcp"},
		},
		{
			name: "trims and prefixes endpoint",
			in:   Config{ServerName: " lb ", ServerVersion: " 1.2.3 ", EndpointPath: "tools/mcp/"},
			want: Config{ServerName: "lb", ServerVersion: "1.2.3", EndpointPath: "/tools/mcp"},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeConfig(tt.in); got != tt.want {
				t.Fatalf("normalizeConfig() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestHandlerServeHTTPUnavailable verifies nil handler paths fail closed with 503.
func TestHandlerServeHTTPUnavailable(t *testing.T) {
	cases := []struct {
		name    string
		handler *Handler
	}{
		{
			name:    "nil receiver",
			handler: nil,
		},
		{
			name:    "missing inner http handler",
			handler: &Handler{},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(`{}`))
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
			}
			if !strings.Contains(rec.Body.String(), "mcp handler unavailable") {
				t.Fatalf("body = %q, want mcp handler unavailable", rec.Body.String())
			}
		})
	}
}

// TestToolResultFromErrorMapping verifies deterministic error-to-tool-result mapping.
func TestToolResultFromErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantPrefix string
	}{
		{
			name:       "nil error",
			err:        nil,
			wantPrefix: "unknown error",
		},
		{
			name:       "invalid request",
			err:        errors.Join(common.ErrInvalidRequest, errors.New("bad lane")),
			wantPrefix: "invalid_request:",
		},
		{
			name:       "not found",
			err:        errors.Join(common.ErrNotFound, errors.New("missing")),
			wantPrefix: "not_found:",
		},
		{
			name:       "internal",
			err:        errors.New("boom"),
			wantPrefix: "internal_error:",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			result := toolResultFromError(tt.err)
			if !result.IsError {
				t.Fatalf("IsError = false, want true")
			}
			if got := callToolResultText(t, result); !strings.HasPrefix(got, tt.wantPrefix) {
				t.Fatalf("text = %q, want prefix %q", got, tt.wantPrefix)
			}
		})
	}
}
