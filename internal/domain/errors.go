package domain

import "errors"

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidTitle  = errors.New("invalid title")
	ErrInvalidLaneID = errors.New("invalid lane id")
)
