package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hylla/laneboard/internal/app"
	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// AppServiceAdapter maps transport contracts onto app.Service.
type AppServiceAdapter struct {
	service *app.Service
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
func NewAppServiceAdapter(service *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{service: service}
}

// Board returns the current board.
func (a *AppServiceAdapter) Board(ctx context.Context) (app.Result, error) {
	if err := a.ready(); err != nil {
		return app.Result{}, err
	}
	res, err := a.service.Board(ctx)
	if err != nil {
		return app.Result{}, mapAppError("board", err)
	}
	return res, nil
}

// LaneItems lists one lane's items.
func (a *AppServiceAdapter) LaneItems(ctx context.Context, laneID domain.LaneID) ([]domain.Item, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	items, err := a.service.LaneItems(ctx, laneID)
	if err != nil {
		return nil, mapAppError("list lane items", err)
	}
	return items, nil
}

// Gesture dispatches one drag event by phase.
func (a *AppServiceAdapter) Gesture(ctx context.Context, phase GesturePhase, in GestureRequest) (app.Result, error) {
	if err := a.ready(); err != nil {
		return app.Result{}, err
	}
	var (
		res app.Result
		err error
	)
	switch GesturePhase(strings.ToLower(strings.TrimSpace(string(phase)))) {
	case PhaseStart:
		res, err = a.service.DragStart(ctx, board.StartEvent{Active: in.Active})
	case PhaseOver:
		res, err = a.service.DragOver(ctx, board.OverEvent{Active: in.Active, Over: in.Over})
	case PhaseEnd:
		res, err = a.service.DragEnd(ctx, board.EndEvent{Active: in.Active, Over: in.Over})
	default:
		return app.Result{}, fmt.Errorf("unsupported gesture phase %q: %w", phase, ErrInvalidRequest)
	}
	if err != nil {
		return app.Result{}, mapAppError("drag "+string(phase), err)
	}
	return res, nil
}

// DeleteLane removes a lane and its items.
func (a *AppServiceAdapter) DeleteLane(ctx context.Context, laneID domain.LaneID) (app.Result, error) {
	if err := a.ready(); err != nil {
		return app.Result{}, err
	}
	res, err := a.service.DeleteLane(ctx, laneID)
	if err != nil {
		return app.Result{}, mapAppError("delete lane", err)
	}
	return res, nil
}

// RenameLane sets a lane title.
func (a *AppServiceAdapter) RenameLane(ctx context.Context, laneID domain.LaneID, in RenameLaneRequest) (app.Result, error) {
	if err := a.ready(); err != nil {
		return app.Result{}, err
	}
	res, err := a.service.RenameLane(ctx, laneID, in.Title)
	if err != nil {
		return app.Result{}, mapAppError("rename lane", err)
	}
	return res, nil
}

func (a *AppServiceAdapter) ready() error {
	if a == nil || a.service == nil {
		return errors.New("app service adapter is not configured")
	}
	return nil
}

// ParseLaneID parses a transport lane id.
func ParseLaneID(raw string) (domain.LaneID, error) {
	id, err := domain.ParseLaneID(raw)
	if err != nil {
		return 0, fmt.Errorf("lane id %q: %w", raw, errors.Join(ErrInvalidRequest, err))
	}
	return id, nil
}

// PayloadFromRef builds a payload from a flat type/id pair. An empty type
// yields an untyped payload, which the board ignores.
func PayloadFromRef(entityType, id string) (board.Payload, error) {
	entityType = strings.TrimSpace(entityType)
	id = strings.TrimSpace(id)
	switch board.ParseKind(entityType) {
	case board.KindLane:
		laneID, err := ParseLaneID(id)
		if err != nil {
			return board.Payload{}, err
		}
		return board.Payload{Type: entityType, LaneID: laneID}, nil
	case board.KindItem:
		if id == "" {
			return board.Payload{}, fmt.Errorf("item id is required: %w", ErrInvalidRequest)
		}
		return board.Payload{Type: entityType, ItemID: domain.ItemID(id)}, nil
	default:
		return board.Payload{Type: entityType}, nil
	}
}

// mapAppError maps app and domain errors onto transport sentinels.
func mapAppError(operation string, err error) error {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidLaneID):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
