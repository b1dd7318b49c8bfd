// Package httpapi provides the REST HTTP adapter for the server surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hylla/laneboard/internal/adapters/server/common"
	"github.com/hylla/laneboard/internal/app"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	board  common.BoardService
	router *mux.Router
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs one HTTP API adapter over a board service.
func NewHandler(board common.BoardService) *Handler {
	h := &Handler{board: board}

	r := mux.NewRouter()
	r.Use(sourceMiddleware)
	r.HandleFunc("/board", h.route(h.handleBoard, http.MethodGet))
	r.HandleFunc("/lanes/{id}/items", h.route(h.handleLaneItems, http.MethodGet))
	r.HandleFunc("/lanes/{id}", h.route(h.handleLane, http.MethodPatch, http.MethodDelete))
	r.HandleFunc("/drag/{phase}", h.route(h.handleDrag, http.MethodPost))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
		})
	})
	h.router = r
	return h
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// route guards one handler with service availability and allowed methods.
func (h *Handler) route(next http.HandlerFunc, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed := false
		for _, method := range methods {
			if r.Method == method {
				allowed = true
				break
			}
		}
		if !allowed {
			writeMethodNotAllowed(w, methods...)
			return
		}
		if h.board == nil {
			writeJSONError(w, http.StatusServiceUnavailable, APIError{
				Code:    "service_unavailable",
				Message: "board service is not configured",
			})
			return
		}
		next(w, r)
	}
}

// sourceMiddleware tags request contexts as HTTP gestures.
func sourceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(app.WithSource(r.Context(), app.SourceHTTP)))
	})
}

// handleBoard serves GET `/board`.
func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	res, err := h.board.Board(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleLaneItems serves GET `/lanes/{id}/items`.
func (h *Handler) handleLaneItems(w http.ResponseWriter, r *http.Request) {
	laneID, err := common.ParseLaneID(mux.Vars(r)["id"])
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	items, err := h.board.LaneItems(r.Context(), laneID)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lane_id": laneID,
		"items":   items,
	})
}

// handleLane serves PATCH and DELETE `/lanes/{id}`.
func (h *Handler) handleLane(w http.ResponseWriter, r *http.Request) {
	laneID, err := common.ParseLaneID(mux.Vars(r)["id"])
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	if r.Method == http.MethodDelete {
		res, err := h.board.DeleteLane(r.Context(), laneID)
		if err != nil {
			writeErrorFrom(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	var req common.RenameLaneRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	res, err := h.board.RenameLane(r.Context(), laneID, req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleDrag serves POST `/drag/{start|over|end}`.
func (h *Handler) handleDrag(w http.ResponseWriter, r *http.Request) {
	phase := common.GesturePhase(strings.ToLower(mux.Vars(r)["phase"]))
	switch phase {
	case common.PhaseStart, common.PhaseOver, common.PhaseEnd:
	default:
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
			Hint:    "Use /drag/start, /drag/over or /drag/end.",
		})
		return
	}

	var req common.GestureRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	res, err := h.board.Gesture(r.Context(), phase, req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
