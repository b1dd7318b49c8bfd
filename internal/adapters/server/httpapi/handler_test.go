package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hylla/laneboard/internal/adapters/server/common"
	"github.com/hylla/laneboard/internal/app"
	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// stubBoardService records calls and returns fixture results.
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

// serve runs one request through the handler.
func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeErrorEnvelope decodes one structured error response.
func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var out ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return out
}

// TestHandlerBoard verifies GET /board returns the service snapshot.
func TestHandlerBoard(t *testing.T) {
	svc := &stubBoardService{result: app.Result{Revision: 7}}
	rec := serve(NewHandler(svc), http.MethodGet, "/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got app.Result
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Revision != 7 {
		t.Fatalf("revision = %d, want 7", got.Revision)
	}
	if svc.lastSource != app.SourceHTTP {
		t.Fatalf("source = %q, want http", svc.lastSource)
	}
}

// TestHandlerDragDecodesGesture verifies drag bodies reach the service intact.
func TestHandlerDragDecodesGesture(t *testing.T) {
	svc := &stubBoardService{}
	body := `{"active":{"type":"Item","item_id":"5"},"over":{"type":"Lane","lane_id":3}}`
	rec := serve(NewHandler(svc), http.MethodPost, "/drag/over", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.lastPhase != common.PhaseOver {
		t.Fatalf("phase = %q, want over", svc.lastPhase)
	}
	if svc.lastGesture.Active.ItemID != "5" || svc.lastGesture.Over == nil || svc.lastGesture.Over.LaneID != 3 {
		t.Fatalf("unexpected gesture %#v", svc.lastGesture)
	}

	rec = serve(NewHandler(svc), http.MethodPost, "/drag/end", `{"active":{"type":"Lane","lane_id":1},"over":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.lastGesture.Over != nil {
		t.Fatalf("expected nil over, got %#v", svc.lastGesture.Over)
	}
}

// TestHandlerLaneRoutes verifies lane item listing, rename and delete.
func TestHandlerLaneRoutes(t *testing.T) {
	svc := &stubBoardService{items: []domain.Item{{ID: "1", LaneID: 2, Title: "x"}}}
	h := NewHandler(svc)

	rec := serve(h, http.MethodGet, "/lanes/2/items", "")
	if rec.Code != http.StatusOK || svc.lastLaneID != 2 {
		t.Fatalf("status = %d lane = %d", rec.Code, svc.lastLaneID)
	}
	rec = serve(h, http.MethodPatch, "/lanes/3", `{"title":"Review"}`)
	if rec.Code != http.StatusOK || svc.lastLaneID != 3 || svc.lastRename.Title != "Review" {
		t.Fatalf("unexpected rename status=%d req=%#v", rec.Code, svc.lastRename)
	}
	rec = serve(h, http.MethodDelete, "/lanes/4", "")
	if rec.Code != http.StatusOK || svc.lastLaneID != 4 {
		t.Fatalf("unexpected delete status=%d lane=%d", rec.Code, svc.lastLaneID)
	}
}

// TestHandlerRouteGuards verifies structured 400/404/405 responses.
func TestHandlerRouteGuards(t *testing.T) {
	h := NewHandler(&stubBoardService{})
	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, "not_found"},
		{"unknown phase", http.MethodPost, "/drag/hover", `{}`, http.StatusNotFound, "not_found"},
		{"wrong method", http.MethodPost, "/board", "", http.StatusMethodNotAllowed, "method_not_allowed"},
		{"bad lane id", http.MethodGet, "/lanes/zero/items", "", http.StatusBadRequest, "invalid_request"},
		{"unknown field", http.MethodPatch, "/lanes/1", `{"name":"x"}`, http.StatusBadRequest, "invalid_request"},
		{"trailing content", http.MethodPost, "/drag/start", `{"active":{}} {}`, http.StatusBadRequest, "invalid_request"},
	}
	for _, tc := range cases {
		rec := serve(h, tc.method, tc.target, tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d", tc.name, rec.Code, tc.status)
		}
		if got := decodeErrorEnvelope(t, rec); got.Error.Code != tc.code {
			t.Fatalf("%s: code = %q, want %q", tc.name, got.Error.Code, tc.code)
		}
	}
	rec := serve(h, http.MethodPut, "/lanes/1", "")
	if allow := rec.Header().Get("Allow"); allow != "PATCH, DELETE" {
		t.Fatalf("Allow = %q", allow)
	}
}

// TestHandlerErrorMapping verifies service errors become structured responses.
func TestHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{common.ErrNotFound, http.StatusNotFound, "not_found"},
		{common.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		rec := serve(NewHandler(&stubBoardService{err: tc.err}), http.MethodGet, "/board", "")
		if rec.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		if got := decodeErrorEnvelope(t, rec); got.Error.Code != tc.code {
			t.Fatalf("%v: code = %q, want %q", tc.err, got.Error.Code, tc.code)
		}
	}
	rec := serve(NewHandler(nil), http.MethodGet, "/board", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

// TestHandlerGestureAgainstService verifies a full drag through the real service.
func TestHandlerGestureAgainstService(t *testing.T) {
	svc, err := app.OpenBoard(context.Background(), nil)
	if err != nil {
		t.Fatalf("OpenBoard() error = %v", err)
	}
	server := httptest.NewServer(NewHandler(common.NewAppServiceAdapter(svc)))
	defer server.Close()

	post := func(path, body string) app.Result {
		t.Helper()
		resp, err := server.Client().Post(server.URL+path, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("Post() error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", path, resp.StatusCode)
		}
		var out app.Result
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		return out
	}

	post("/drag/start", `{"active":{"type":"Item","item_id":"9"}}`)
	res := post("/drag/over", `{"active":{"type":"Item","item_id":"9"},"over":{"type":"Item","item_id":"2"}}`)
	if res.Outcome.Result != board.ResultTransferred {
		t.Fatalf("unexpected outcome %#v", res.Outcome)
	}
	res = post("/drag/end", `{"active":{"type":"Item","item_id":"9"},"over":{"type":"Item","item_id":"2"}}`)
	lane1 := res.Board.ItemsInLane(1)
	if len(lane1) != 4 || lane1[0].ID != "9" {
		t.Fatalf("unexpected lane 1 %#v", lane1)
	}
	if res.Board.ActiveItem != nil {
		t.Fatal("drag end must clear the active item")
	}
}
