// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"

	"github.com/hylla/laneboard/internal/app"
	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// GesturePhase names one step of a drag gesture.
type GesturePhase string

// GesturePhase values.
const (
	PhaseStart GesturePhase = "start"
	PhaseOver  GesturePhase = "over"
	PhaseEnd   GesturePhase = "end"
)

// SupportedPhases returns the accepted gesture phases in lifecycle order.
func SupportedPhases() []string {
	return []string{string(PhaseStart), string(PhaseOver), string(PhaseEnd)}
}

// SupportedEntityTypes returns the canonical payload type tags.
func SupportedEntityTypes() []string {
	return []string{"Lane", "Item"}
}

// GestureRequest carries one drag event. Over is nil when nothing is under
// the pointer.
type GestureRequest struct {
	Active board.Payload  `json:"active"`
	Over   *board.Payload `json:"over"`
}

// RenameLaneRequest carries a new lane title.
type RenameLaneRequest struct {
	Title string `json:"title"`
}

// BoardService is the board surface exposed over HTTP and MCP.
type BoardService interface {
	Board(context.Context) (app.Result, error)
	LaneItems(context.Context, domain.LaneID) ([]domain.Item, error)
	Gesture(context.Context, GesturePhase, GestureRequest) (app.Result, error)
	DeleteLane(context.Context, domain.LaneID) (app.Result, error)
	RenameLane(context.Context, domain.LaneID, RenameLaneRequest) (app.Result, error)
}
