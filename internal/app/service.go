package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// IDGenerator returns unique identifiers for gesture sessions.
type IDGenerator func() string

// Result is the board after an operation.
type Result struct {
	Revision uint64         `json:"revision"`
	Gesture  string         `json:"gesture,omitempty"`
	Board    board.Snapshot `json:"board"`
	Outcome  board.Outcome  `json:"outcome,omitzero"`
}

// Service owns one board and serializes every operation on it.
type Service struct {
	mu       sync.Mutex
	state    board.State
	revision uint64
	gesture  string
	logger   Logger
	idGen    IDGenerator

	checkInvariants bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the diagnostics sink.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator sets the gesture id generator.
func WithIDGenerator(idGen IDGenerator) ServiceOption {
	return func(s *Service) {
		if idGen != nil {
			s.idGen = idGen
		}
	}
}

// WithInvariantChecks enables an orphan check after every operation.
func WithInvariantChecks(enabled bool) ServiceOption {
	return func(s *Service) {
		s.checkInvariants = enabled
	}
}

// NewService constructs a service around an existing board.
func NewService(state board.State, opts ...ServiceOption) *Service {
	s := &Service{
		state:  state,
		logger: NewCharmLogger(nil),
		idGen:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenBoard loads a seed and constructs a service for it. A nil loader opens
// the demo board.
func OpenBoard(ctx context.Context, loader SeedLoader, opts ...ServiceOption) (*Service, error) {
	seed := DefaultSeed()
	if loader != nil {
		loaded, err := loader.LoadSeed(ctx)
		if err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
		seed = loaded
	}
	state, err := board.FromSeed(seed)
	if err != nil {
		return nil, errors.Join(ErrInvalidSeed, err)
	}
	svc := NewService(state, opts...)
	svc.logger.Info("board opened", "lanes", len(seed.Lanes), "items", len(seed.Items))
	return svc, nil
}

// Board returns the current board.
func (s *Service) Board(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked(board.Outcome{}), nil
}

// LaneItems lists one lane's items in board order.
func (s *Service) LaneItems(ctx context.Context, laneID domain.LaneID) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state.Snapshot()
	if _, ok := snap.Lane(laneID); !ok {
		return nil, fmt.Errorf("lane %d: %w", laneID, ErrNotFound)
	}
	return snap.ItemsInLane(laneID), nil
}

// DragStart begins a gesture.
func (s *Service) DragStart(ctx context.Context, ev board.StartEvent) (Result, error) {
	return s.apply(ctx, func(st board.State) (board.State, board.Outcome) {
		return board.DragStart(st, ev)
	})
}

// DragOver applies one hover step of a gesture.
func (s *Service) DragOver(ctx context.Context, ev board.OverEvent) (Result, error) {
	return s.apply(ctx, func(st board.State) (board.State, board.Outcome) {
		return board.DragOver(st, ev)
	})
}

// DragEnd finishes a gesture.
func (s *Service) DragEnd(ctx context.Context, ev board.EndEvent) (Result, error) {
	return s.apply(ctx, func(st board.State) (board.State, board.Outcome) {
		return board.DragEnd(st, ev)
	})
}

// DeleteLane removes a lane and its items. Unknown ids are a no-op.
func (s *Service) DeleteLane(ctx context.Context, laneID domain.LaneID) (Result, error) {
	return s.apply(ctx, func(st board.State) (board.State, board.Outcome) {
		return board.DeleteLane(st, laneID)
	})
}

// RenameLane sets a lane title.
func (s *Service) RenameLane(ctx context.Context, laneID domain.LaneID, title string) (Result, error) {
	var renameErr error
	res, err := s.apply(ctx, func(st board.State) (board.State, board.Outcome) {
		next, out, err := board.RenameLane(st, laneID, title)
		renameErr = err
		return next, out
	})
	if err != nil {
		return Result{}, err
	}
	if errors.Is(renameErr, board.ErrUnknownLane) {
		return Result{}, fmt.Errorf("lane %d: %w", laneID, ErrNotFound)
	}
	if renameErr != nil {
		return Result{}, fmt.Errorf("rename lane %d: %w", laneID, renameErr)
	}
	return res, nil
}

// apply runs one handler under the lock and records its outcome.
func (s *Service) apply(ctx context.Context, fn func(board.State) (board.State, board.Outcome)) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, out := fn(s.state)
	s.state = next
	if out.Changed() {
		s.revision++
	}
	if out.Op == board.OpDragStart && out.Result == board.ResultActivated {
		s.gesture = s.idGen()
	}
	s.logOutcome(ctx, out)
	if s.checkInvariants {
		if orphans := s.state.Orphans(); len(orphans) > 0 {
			s.logger.Error("board invariant violated", "op", out.Op, "orphans", orphans)
		}
	}

	res := s.resultLocked(out)
	if out.Op == board.OpDragEnd {
		s.gesture = ""
	}
	return res, nil
}

func (s *Service) resultLocked(out board.Outcome) Result {
	return Result{
		Revision: s.revision,
		Gesture:  s.gesture,
		Board:    s.state.Snapshot(),
		Outcome:  out,
	}
}

func (s *Service) logOutcome(ctx context.Context, out board.Outcome) {
	keyvals := []any{
		"op", out.Op,
		"result", out.Result,
		"kind", out.Kind,
		"id", out.ID,
		"source", sourceLabel(ctx),
		"revision", s.revision,
	}
	if s.gesture != "" {
		keyvals = append(keyvals, "gesture", s.gesture)
	}
	switch {
	case out.Desync:
		s.logger.Warn("board desync", append(keyvals, "reason", out.Reason)...)
	case out.Op == board.OpDragOver && !out.Changed():
		// Hover streams are noisy; unchanged steps are not logged.
	case out.Changed():
		s.logger.Debug("board changed", append(keyvals, "from", out.From, "to", out.To)...)
	default:
		s.logger.Debug("board unchanged", append(keyvals, "reason", out.Reason)...)
	}
}
