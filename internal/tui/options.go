package tui

import "github.com/atotto/clipboard"

// Option configures a Model.
type Option func(*Model)

// DefaultCardWidth is the item card width when none is configured.
const DefaultCardWidth = 24

func WithConfirmDelete(enabled bool) Option {
	return func(m *Model) {
		m.confirmDelete = enabled
	}
}

func WithShowItemIDs(enabled bool) Option {
	return func(m *Model) {
		m.showItemIDs = enabled
	}
}

// WithCardWidth sets the card width; values outside 12..60 keep the default.
func WithCardWidth(width int) Option {
	return func(m *Model) {
		if width >= 12 && width <= 60 {
			m.cardWidth = width
		}
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithClipboard replaces the clipboard writer used by the copy binding.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}
