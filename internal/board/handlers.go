package board

import (
	"slices"

	"github.com/hylla/laneboard/internal/domain"
)

// StartEvent begins a gesture.
type StartEvent struct {
	Active Payload `json:"active"`
}

// OverEvent reports the element under the pointer during a gesture.
type OverEvent struct {
	Active Payload  `json:"active"`
	Over   *Payload `json:"over"`
}

// EndEvent finishes a gesture. Over is nil when the pointer was released
// outside any droppable element.
type EndEvent struct {
	Active Payload  `json:"active"`
	Over   *Payload `json:"over"`
}

// DragStart records the dragged entity as active. The board's copy wins over
// the payload's value; a payload value is used only when its id is not on
// the board. Starting one kind clears the other. Nothing is reordered.
func DragStart(s State, ev StartEvent) (State, Outcome) {
	e := Classify(ev.Active)
	switch e.Kind {
	case KindLane:
		lane, ok := s.resolveLane(e)
		if !ok {
			return s, desync(OpDragStart, e, ReasonUnknownLane)
		}
		s.activeLane, s.activeItem = &lane, nil
	case KindItem:
		item, ok := s.resolveItem(e)
		if !ok {
			return s, desync(OpDragStart, e, ReasonUnknownItem)
		}
		s.activeLane, s.activeItem = nil, &item
	default:
		return s, ignored(OpDragStart, e, ReasonUnknownKind)
	}
	out := ignored(OpDragStart, e, "")
	out.Result = ResultActivated
	return s, out
}

// DragOver applies live item reordering while an item hovers another item or
// a lane. Lanes are never reordered here.
func DragOver(s State, ev OverEvent) (State, Outcome) {
	active := Classify(ev.Active)
	if ev.Over == nil {
		return s, ignored(OpDragOver, active, ReasonNoTarget)
	}
	over := Classify(*ev.Over)
	if active.Ref() == over.Ref() {
		return s, ignored(OpDragOver, active, ReasonSelfTarget)
	}
	if active.Kind != KindItem {
		return s, ignored(OpDragOver, active, ReasonNotItem)
	}

	from := s.itemIndex(active.ItemID)
	switch over.Kind {
	case KindItem:
		to := s.itemIndex(over.ItemID)
		if from < 0 || to < 0 {
			return s, desync(OpDragOver, active, ReasonUnknownItem)
		}
		out := ignored(OpDragOver, active, "")
		items := slices.Clone(s.items)
		if items[from].LaneID != items[to].LaneID {
			items[from].LaneID = items[to].LaneID
			// Cross-lane hovers land one slot before the target.
			to = max(to-1, 0)
			out.Result, out.LaneChanged = ResultTransferred, true
		} else {
			out.Result = ResultMoved
		}
		s.items = Move(items, from, to)
		out.From, out.To = from, to
		return s, out
	case KindLane:
		if from < 0 {
			return s, desync(OpDragOver, active, ReasonUnknownItem)
		}
		if s.laneIndex(over.LaneID) < 0 {
			return s, desync(OpDragOver, over, ReasonUnknownLane)
		}
		out := ignored(OpDragOver, active, "")
		out.From, out.To = from, from
		if s.items[from].LaneID == over.LaneID {
			out.Result = ResultUnchanged
			return s, out
		}
		items := slices.Clone(s.items)
		items[from].LaneID = over.LaneID
		s.items = items
		out.Result, out.LaneChanged = ResultRelaned, true
		return s, out
	default:
		return s, ignored(OpDragOver, active, ReasonUnknownKind)
	}
}

// DragEnd commits a lane reorder and clears the drag state. Item gestures
// have already been applied by DragOver, so ending one only clears state.
func DragEnd(s State, ev EndEvent) (State, Outcome) {
	hadActive := s.activeLane != nil || s.activeItem != nil
	next := s.cleared()
	active := Classify(ev.Active)

	skip := func(reason string) (State, Outcome) {
		out := ignored(OpDragEnd, active, reason)
		if hadActive {
			out.Result = ResultCleared
		}
		return next, out
	}

	if ev.Over == nil {
		return skip(ReasonNoTarget)
	}
	over := Classify(*ev.Over)
	if active.Ref() == over.Ref() {
		return skip(ReasonSelfTarget)
	}
	if active.Kind != KindLane {
		return skip(ReasonNotLane)
	}
	if over.Kind != KindLane {
		return skip(ReasonTargetNotLane)
	}
	from, to := s.laneIndex(active.LaneID), s.laneIndex(over.LaneID)
	if from < 0 || to < 0 {
		next, out := skip(ReasonUnknownLane)
		out.Desync = true
		return next, out
	}
	next.lanes = Move(s.lanes, from, to)
	out := ignored(OpDragEnd, active, "")
	out.Result, out.From, out.To = ResultMoved, from, to
	return next, out
}

// DeleteLane removes a lane and every item in it. Remaining lanes and items
// keep their relative order. Unknown ids are a no-op.
func DeleteLane(s State, id domain.LaneID) (State, Outcome) {
	e := Entity{Kind: KindLane, LaneID: id}
	idx := s.laneIndex(id)
	if idx < 0 {
		return s, ignored(OpDeleteLane, e, ReasonUnknownLane)
	}
	s.lanes = slices.Delete(slices.Clone(s.lanes), idx, idx+1)
	items := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		if item.LaneID != id {
			items = append(items, item)
		}
	}
	removed := len(s.items) - len(items)
	s.items = items
	if s.activeLane != nil && s.activeLane.ID == id {
		s.activeLane = nil
	}
	if s.activeItem != nil && s.activeItem.LaneID == id {
		s.activeItem = nil
	}

	out := ignored(OpDeleteLane, e, "")
	out.Result, out.From, out.To, out.Removed = ResultDeleted, idx, -1, removed
	return s, out
}

// RenameLane sets a lane title. Unlike the gesture handlers it reports bad
// input as an error.
func RenameLane(s State, id domain.LaneID, title string) (State, Outcome, error) {
	e := Entity{Kind: KindLane, LaneID: id}
	idx := s.laneIndex(id)
	if idx < 0 {
		return s, ignored(OpRenameLane, e, ReasonUnknownLane), ErrUnknownLane
	}
	lane := s.lanes[idx]
	if err := lane.Rename(title); err != nil {
		return s, ignored(OpRenameLane, e, ""), err
	}
	out := ignored(OpRenameLane, e, "")
	out.From, out.To = idx, idx
	if lane.Title == s.lanes[idx].Title {
		out.Result = ResultUnchanged
		return s, out, nil
	}
	s.lanes = slices.Clone(s.lanes)
	s.lanes[idx] = lane
	if s.activeLane != nil && s.activeLane.ID == id {
		active := lane
		s.activeLane = &active
	}
	out.Result = ResultRenamed
	return s, out, nil
}

func (s State) resolveLane(e Entity) (domain.Lane, bool) {
	if idx := s.laneIndex(e.LaneID); idx >= 0 {
		return s.lanes[idx], true
	}
	if e.Lane != nil {
		return *e.Lane, true
	}
	return domain.Lane{}, false
}

func (s State) resolveItem(e Entity) (domain.Item, bool) {
	if idx := s.itemIndex(e.ItemID); idx >= 0 {
		return s.items[idx], true
	}
	if e.Item != nil {
		return *e.Item, true
	}
	return domain.Item{}, false
}
