package tui

import (
	"slices"

	"charm.land/lipgloss/v2"

	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// Board geometry. The status header takes the first headerLines rows; each
// lane is a title row, its card rows, and one blank spacer row.
const (
	headerLines = 2
	cardIndent  = 2
	cardGap     = 1
)

// region is a half-open rectangle of terminal cells mapped to a drop target.
type region struct {
	x0, y0, x1, y1 int
	target         board.Payload
	lane           domain.LaneID
}

func (r region) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

type laneBlock struct {
	lane domain.Lane
	top  int
	rows [][]domain.Item
}

// boardLayout maps the rendered board onto hit regions. Card regions come
// before the body region of their lane so the first match wins.
type boardLayout struct {
	blocks  []laneBlock
	regions []region
	cardW   int
	cardH   int
}

// hit returns the payload under a cell and the lane that cell belongs to.
func (l boardLayout) hit(x, y int) (board.Payload, domain.LaneID, bool) {
	for _, r := range l.regions {
		if r.contains(x, y) {
			return r.target, r.lane, true
		}
	}
	return board.Payload{}, 0, false
}

// find returns the region of the first target with ref.
func (l boardLayout) find(ref board.Ref) (region, bool) {
	for _, r := range l.regions {
		if board.Classify(r.target).Ref() == ref {
			return r, true
		}
	}
	return region{}, false
}

// cardSize measures one rendered card so layout and rendering agree.
func (m Model) cardSize() (int, int) {
	sample := m.cardStyle(lipgloss.Color("239")).Render("x")
	return lipgloss.Width(sample), lipgloss.Height(sample)
}

func (m Model) cardsPerRow(cardW int) int {
	if m.width <= 0 {
		return 1
	}
	return max(1, (m.width-cardIndent+cardGap)/(cardW+cardGap))
}

func (m Model) layout() boardLayout {
	cardW, cardH := m.cardSize()
	perRow := m.cardsPerRow(cardW)
	rowEnd := m.width
	if rowEnd <= 0 {
		rowEnd = 1 << 16
	}

	l := boardLayout{cardW: cardW, cardH: cardH}
	y := headerLines
	for _, lane := range m.snap.Lanes {
		block := laneBlock{lane: lane, top: y}
		for row := range slices.Chunk(m.snap.ItemsInLane(lane.ID), perRow) {
			block.rows = append(block.rows, row)
		}
		lanePayload := board.LanePayload(lane.ID)
		l.regions = append(l.regions, region{x0: 0, y0: y, x1: rowEnd, y1: y + 1, target: lanePayload, lane: lane.ID})

		bodyTop := y + 1
		for r, row := range block.rows {
			for c, item := range row {
				x0 := cardIndent + c*(cardW+cardGap)
				y0 := bodyTop + r*cardH
				l.regions = append(l.regions, region{
					x0: x0, y0: y0, x1: x0 + cardW, y1: y0 + cardH,
					target: board.ItemPayload(item.ID),
					lane:   lane.ID,
				})
			}
		}
		bodyRows := max(1, len(block.rows))
		bodyBottom := bodyTop + bodyRows*cardH
		l.regions = append(l.regions, region{x0: 0, y0: bodyTop, x1: rowEnd, y1: bodyBottom, target: lanePayload, lane: lane.ID})

		l.blocks = append(l.blocks, block)
		y = bodyBottom + 1
	}
	return l
}
