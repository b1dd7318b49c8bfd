package tui

import (
	"fmt"
	"strings"

	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// BoardMarkdown renders every lane of a snapshot as a markdown checklist.
func BoardMarkdown(snap board.Snapshot) string {
	var b strings.Builder
	b.WriteString("# Board\n")
	for _, lane := range snap.Lanes {
		b.WriteString("\n")
		writeLaneMarkdown(&b, lane, snap.ItemsInLane(lane.ID), "##")
	}
	return b.String()
}

// LaneMarkdown renders one lane and its items.
func LaneMarkdown(lane domain.Lane, items []domain.Item) string {
	var b strings.Builder
	writeLaneMarkdown(&b, lane, items, "#")
	return b.String()
}

func writeLaneMarkdown(b *strings.Builder, lane domain.Lane, items []domain.Item, heading string) {
	fmt.Fprintf(b, "%s %s\n\n", heading, lane.Title)
	if len(items) == 0 {
		b.WriteString("_no items_\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s `%s`\n", item.Title, item.ID)
	}
}
