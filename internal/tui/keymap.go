package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig overrides the configurable lane bindings. Blank fields keep defaults.
type KeyConfig struct {
	DeleteLane string
	RenameLane string
	CopyBoard  string
}

// keyMap holds every board binding.
type keyMap struct {
	quit       key.Binding
	reload     key.Binding
	toggleHelp key.Binding
	laneUp     key.Binding
	laneDown   key.Binding
	renameLane key.Binding
	deleteLane key.Binding
	laneInfo   key.Binding
	copyBoard  key.Binding
	cancel     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		laneUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "lane up")),
		laneDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "lane down")),
		renameLane: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename lane")),
		deleteLane: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete lane")),
		laneInfo:   key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i", "lane info")),
		copyBoard:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy markdown")),
		cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
	}
}

// applyConfig rebinds the configurable lane keys.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.deleteLane, cfg.DeleteLane, "d", "delete lane")
	configureBinding(&k.renameLane, cfg.RenameLane, "e", "rename lane")
	configureBinding(&k.copyBoard, cfg.CopyBoard, "y", "copy markdown")
}

// configureBinding replaces the keys and help of one binding.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys turns one configured key into matcher keys and help text.
// Uppercase runes also match their shift+ form.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp returns the footer bindings.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.laneDown, k.renameLane, k.deleteLane, k.laneInfo, k.copyBoard, k.toggleHelp, k.quit}
}

// FullHelp returns every binding grouped by purpose.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.laneUp, k.laneDown, k.laneInfo, k.cancel},
		{k.renameLane, k.deleteLane, k.copyBoard},
		{k.reload, k.toggleHelp, k.quit},
	}
}
