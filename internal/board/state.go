package board

import (
	"fmt"
	"slices"

	"github.com/hylla/laneboard/internal/domain"
)

// State is the board: ordered lanes, ordered items, and the transient drag
// state. Values are immutable from the caller's point of view; handlers
// return a new State and never write through shared slices.
type State struct {
	lanes      []domain.Lane
	items      []domain.Item
	activeLane *domain.Lane
	activeItem *domain.Item
}

// NewState validates a seed and builds a board from it.
func NewState(lanes []domain.Lane, items []domain.Item) (State, error) {
	s := State{
		lanes: make([]domain.Lane, 0, len(lanes)),
		items: make([]domain.Item, 0, len(items)),
	}
	seenLanes := make(map[domain.LaneID]struct{}, len(lanes))
	for _, in := range lanes {
		lane, err := domain.NewLane(in.ID, in.Title)
		if err != nil {
			return State{}, fmt.Errorf("lane %d: %w", in.ID, err)
		}
		if _, ok := seenLanes[lane.ID]; ok {
			return State{}, fmt.Errorf("%w: %d", ErrDuplicateLane, lane.ID)
		}
		seenLanes[lane.ID] = struct{}{}
		s.lanes = append(s.lanes, lane)
	}
	seenItems := make(map[domain.ItemID]struct{}, len(items))
	for _, in := range items {
		item, err := domain.NewItem(in.ID, in.LaneID, in.Title)
		if err != nil {
			return State{}, fmt.Errorf("item %q: %w", in.ID, err)
		}
		if _, ok := seenItems[item.ID]; ok {
			return State{}, fmt.Errorf("%w: %q", ErrDuplicateItem, item.ID)
		}
		if _, ok := seenLanes[item.LaneID]; !ok {
			return State{}, fmt.Errorf("%w: item %q lane %d", ErrOrphanItem, item.ID, item.LaneID)
		}
		seenItems[item.ID] = struct{}{}
		s.items = append(s.items, item)
	}
	return s, nil
}

// FromSeed builds a board from a seed.
func FromSeed(seed Seed) (State, error) {
	return NewState(seed.Lanes, seed.Items)
}

// Lanes returns a copy of the lane sequence.
func (s State) Lanes() []domain.Lane {
	return slices.Clone(s.lanes)
}

// Items returns a copy of the item sequence.
func (s State) Items() []domain.Item {
	return slices.Clone(s.items)
}

// ActiveLane returns the lane being dragged, if any.
func (s State) ActiveLane() (domain.Lane, bool) {
	if s.activeLane == nil {
		return domain.Lane{}, false
	}
	return *s.activeLane, true
}

// ActiveItem returns the item being dragged, if any.
func (s State) ActiveItem() (domain.Item, bool) {
	if s.activeItem == nil {
		return domain.Item{}, false
	}
	return *s.activeItem, true
}

// Orphans lists items whose lane is not on the board. A healthy board has none.
func (s State) Orphans() []domain.ItemID {
	var out []domain.ItemID
	for _, item := range s.items {
		if s.laneIndex(item.LaneID) < 0 {
			out = append(out, item.ID)
		}
	}
	return out
}

// Snapshot returns a deep copy of the board for presentation.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Lanes: slices.Clone(s.lanes),
		Items: slices.Clone(s.items),
	}
	if snap.Lanes == nil {
		snap.Lanes = []domain.Lane{}
	}
	if snap.Items == nil {
		snap.Items = []domain.Item{}
	}
	if lane, ok := s.ActiveLane(); ok {
		snap.ActiveLane = &lane
	}
	if item, ok := s.ActiveItem(); ok {
		snap.ActiveItem = &item
	}
	return snap
}

func (s State) laneIndex(id domain.LaneID) int {
	return slices.IndexFunc(s.lanes, func(l domain.Lane) bool { return l.ID == id })
}

func (s State) itemIndex(id domain.ItemID) int {
	return slices.IndexFunc(s.items, func(i domain.Item) bool { return i.ID == id })
}

func (s State) cleared() State {
	s.activeLane = nil
	s.activeItem = nil
	return s
}

// Snapshot is a read-only copy of a board.
type Snapshot struct {
	Lanes      []domain.Lane `json:"lanes"`
	Items      []domain.Item `json:"items"`
	ActiveLane *domain.Lane  `json:"active_lane,omitempty"`
	ActiveItem *domain.Item  `json:"active_item,omitempty"`
}

// ItemsInLane returns the items of one lane in board order.
func (s Snapshot) ItemsInLane(id domain.LaneID) []domain.Item {
	out := make([]domain.Item, 0)
	for _, item := range s.Items {
		if item.LaneID == id {
			out = append(out, item)
		}
	}
	return out
}

// Lane looks up a lane by id.
func (s Snapshot) Lane(id domain.LaneID) (domain.Lane, bool) {
	for _, lane := range s.Lanes {
		if lane.ID == id {
			return lane, true
		}
	}
	return domain.Lane{}, false
}

// Seed returns the persistent part of the snapshot.
func (s Snapshot) Seed() Seed {
	return Seed{Lanes: slices.Clone(s.Lanes), Items: slices.Clone(s.Items)}
}
