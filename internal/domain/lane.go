package domain

import (
	"strconv"
	"strings"
)

// LaneID identifies a lane. Valid ids are positive.
type LaneID int

// String renders the id in its decimal wire form.
func (id LaneID) String() string {
	return strconv.Itoa(int(id))
}

// ParseLaneID parses the decimal wire form of a lane id.
func ParseLaneID(raw string) (LaneID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, ErrInvalidLaneID
	}
	return LaneID(n), nil
}

// Lane is a named ordered bucket of items.
type Lane struct {
	ID    LaneID `json:"id" toml:"id" yaml:"id"`
	Title string `json:"title" toml:"title" yaml:"title"`
}

// NewLane constructs a validated lane.
func NewLane(id LaneID, title string) (Lane, error) {
	title = strings.TrimSpace(title)
	if id <= 0 {
		return Lane{}, ErrInvalidID
	}
	if title == "" {
		return Lane{}, ErrInvalidTitle
	}
	return Lane{ID: id, Title: title}, nil
}

// Rename replaces the lane title.
func (l *Lane) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	l.Title = title
	return nil
}
