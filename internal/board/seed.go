package board

import "github.com/hylla/laneboard/internal/domain"

// Seed is the initial content of a board.
type Seed struct {
	Lanes []domain.Lane `json:"lanes" toml:"lanes" yaml:"lanes"`
	Items []domain.Item `json:"items" toml:"items" yaml:"items"`
}
