package board

import (
	"strings"

	"github.com/hylla/laneboard/internal/domain"
)

// Kind is the closed set of draggable entity kinds.
type Kind int

// Kind values.
const (
	KindUnknown Kind = iota
	KindLane
	KindItem
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLane:
		return "lane"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind by name.
func (k *Kind) UnmarshalText(text []byte) error {
	*k = ParseKind(string(text))
	return nil
}

// ParseKind maps a type tag to a kind. Matching is case-insensitive and
// accepts the "row" and "task" aliases. Anything else is KindUnknown.
func ParseKind(tag string) Kind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "lane", "row":
		return KindLane
	case "item", "task":
		return KindItem
	default:
		return KindUnknown
	}
}

// Payload is the raw data a gesture source attaches to a dragged or hovered
// element. Type is "Lane", "Item", or empty. Either the id or the value may
// be supplied.
type Payload struct {
	Type   string        `json:"type,omitempty"`
	LaneID domain.LaneID `json:"lane_id,omitempty"`
	ItemID domain.ItemID `json:"item_id,omitempty"`
	Lane   *domain.Lane  `json:"lane,omitempty"`
	Item   *domain.Item  `json:"item,omitempty"`
}

// LanePayload builds a payload referencing a lane by id.
func LanePayload(id domain.LaneID) Payload {
	return Payload{Type: "Lane", LaneID: id}
}

// ItemPayload builds a payload referencing an item by id.
func ItemPayload(id domain.ItemID) Payload {
	return Payload{Type: "Item", ItemID: id}
}

// Entity is a classified payload.
type Entity struct {
	Kind   Kind
	LaneID domain.LaneID
	ItemID domain.ItemID
	Lane   *domain.Lane
	Item   *domain.Item
}

// Ref identifies an entity across both id spaces.
type Ref struct {
	Kind   Kind
	LaneID domain.LaneID
	ItemID domain.ItemID
}

// Ref returns the identity of e.
func (e Entity) Ref() Ref {
	switch e.Kind {
	case KindLane:
		return Ref{Kind: KindLane, LaneID: e.LaneID}
	case KindItem:
		return Ref{Kind: KindItem, ItemID: e.ItemID}
	default:
		return Ref{}
	}
}

// ID renders the entity id for diagnostics.
func (e Entity) ID() string {
	switch e.Kind {
	case KindLane:
		return e.LaneID.String()
	case KindItem:
		return string(e.ItemID)
	default:
		return ""
	}
}

// Classify decodes a payload into an Entity.
func Classify(p Payload) Entity {
	switch ParseKind(p.Type) {
	case KindLane:
		e := Entity{Kind: KindLane, LaneID: p.LaneID}
		if p.Lane != nil {
			lane := *p.Lane
			e.Lane = &lane
			if e.LaneID == 0 {
				e.LaneID = lane.ID
			}
		}
		return e
	case KindItem:
		e := Entity{Kind: KindItem, ItemID: p.ItemID}
		if p.Item != nil {
			item := *p.Item
			e.Item = &item
			if e.ItemID == "" {
				e.ItemID = item.ID
			}
		}
		return e
	default:
		return Entity{}
	}
}
