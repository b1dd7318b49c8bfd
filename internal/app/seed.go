package app

import (
	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// DefaultSeed returns the demo board used when no seed is configured.
func DefaultSeed() board.Seed {
	return board.Seed{
		Lanes: []domain.Lane{
			{ID: 1, Title: "First row"},
			{ID: 2, Title: "Second row"},
			{ID: 3, Title: "Third row"},
		},
		Items: []domain.Item{
			{ID: "1", LaneID: 1, Title: "Qualitative research planning"},
			{ID: "2", LaneID: 1, Title: "Newsletter feature"},
			{ID: "4", LaneID: 1, Title: "Marketing brainstorming"},
			{ID: "5", LaneID: 2, Title: "Add CHANGELOG to client repo"},
			{ID: "8", LaneID: 2, Title: "Add commitlint"},
			{ID: "9", LaneID: 3, Title: "Onboarding John Doe"},
		},
	}
}
