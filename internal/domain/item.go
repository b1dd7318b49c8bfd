package domain

import "strings"

// ItemID identifies an item. It lives in its own id space, separate from LaneID.
type ItemID string

// Item is a unit of work that belongs to exactly one lane.
type Item struct {
	ID     ItemID `json:"id" toml:"id" yaml:"id"`
	LaneID LaneID `json:"lane_id" toml:"lane_id" yaml:"lane_id"`
	Title  string `json:"title" toml:"title" yaml:"title"`
}

// NewItem constructs a validated item.
func NewItem(id ItemID, laneID LaneID, title string) (Item, error) {
	id = ItemID(strings.TrimSpace(string(id)))
	title = strings.TrimSpace(title)
	if id == "" {
		return Item{}, ErrInvalidID
	}
	if laneID <= 0 {
		return Item{}, ErrInvalidLaneID
	}
	if title == "" {
		return Item{}, ErrInvalidTitle
	}
	return Item{ID: id, LaneID: laneID, Title: title}, nil
}

// MoveToLane reassigns the lane the item belongs to.
func (i *Item) MoveToLane(laneID LaneID) error {
	if laneID <= 0 {
		return ErrInvalidLaneID
	}
	i.LaneID = laneID
	return nil
}
