package board

import "errors"

var (
	ErrDuplicateLane = errors.New("duplicate lane id")
	ErrDuplicateItem = errors.New("duplicate item id")
	ErrOrphanItem    = errors.New("item references unknown lane")
	ErrUnknownLane   = errors.New("unknown lane")
)
