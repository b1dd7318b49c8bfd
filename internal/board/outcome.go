package board

// Op names a board operation.
type Op string

// Op values.
const (
	OpDragStart  Op = "drag_start"
	OpDragOver   Op = "drag_over"
	OpDragEnd    Op = "drag_end"
	OpDeleteLane Op = "delete_lane"
	OpRenameLane Op = "rename_lane"
)

// Result describes what an operation did to the board.
type Result string

// Result values.
const (
	ResultIgnored     Result = "ignored"
	ResultUnchanged   Result = "unchanged"
	ResultActivated   Result = "activated"
	ResultCleared     Result = "cleared"
	ResultMoved       Result = "moved"
	ResultTransferred Result = "transferred"
	ResultRelaned     Result = "relaned"
	ResultDeleted     Result = "deleted"
	ResultRenamed     Result = "renamed"
)

// Reasons attached to ignored outcomes.
const (
	ReasonNoTarget      = "no_target"
	ReasonSelfTarget    = "self_target"
	ReasonNotLane       = "dragged_not_lane"
	ReasonTargetNotLane = "target_not_lane"
	ReasonNotItem       = "dragged_not_item"
	ReasonUnknownKind   = "unknown_kind"
	ReasonUnknownLane   = "unknown_lane"
	ReasonUnknownItem   = "unknown_item"
)

// Outcome reports the effect of one operation. Handlers never fail; callers
// read the outcome instead.
type Outcome struct {
	Op     Op     `json:"op"`
	Result Result `json:"result"`
	Kind   Kind   `json:"kind"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
	// Desync is set when the kind was recognized but its id could not be
	// found on the board.
	Desync      bool `json:"desync,omitempty"`
	From        int  `json:"from"`
	To          int  `json:"to"`
	LaneChanged bool `json:"lane_changed,omitempty"`
	Removed     int  `json:"removed_items,omitempty"`
}

// Changed reports whether the board differs from before the operation.
func (o Outcome) Changed() bool {
	switch o.Result {
	case ResultIgnored, ResultUnchanged, "":
		return false
	default:
		return true
	}
}

func ignored(op Op, e Entity, reason string) Outcome {
	return Outcome{Op: op, Result: ResultIgnored, Kind: e.Kind, ID: e.ID(), Reason: reason, From: -1, To: -1}
}

func desync(op Op, e Entity, reason string) Outcome {
	out := ignored(op, e, reason)
	out.Desync = true
	return out
}
