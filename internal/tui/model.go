package tui

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hylla/laneboard/internal/app"
	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/domain"
)

// Service is the board surface the terminal UI drives.
type Service interface {
	Board(context.Context) (app.Result, error)
	DragStart(context.Context, board.StartEvent) (app.Result, error)
	DragOver(context.Context, board.OverEvent) (app.Result, error)
	DragEnd(context.Context, board.EndEvent) (app.Result, error)
	DeleteLane(context.Context, domain.LaneID) (app.Result, error)
	RenameLane(context.Context, domain.LaneID, string) (app.Result, error)
}

// inputMode represents a modal state.
type inputMode int

const (
	modeNone inputMode = iota
	modeRenameLane
	modeConfirmDelete
	modeLaneInfo
)

type gesturePhase int

const (
	phaseStart gesturePhase = iota
	phaseOver
	phaseEnd
)

// gestureStep is one queued drag event. Steps reach the service strictly in
// the order the mouse produced them.
type gestureStep struct {
	phase  gesturePhase
	active board.Payload
	over   *board.Payload
}

// dragState tracks the pointer side of an in-progress gesture.
type dragState struct {
	active  bool
	payload board.Payload
	hover   board.Ref
	x, y    int
}

// Model is the Bubble Tea model for the board.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	confirmDelete bool
	showItemIDs   bool
	cardWidth     int
	copyText      func(string) error
	markdown      *markdownRenderer

	snap         board.Snapshot
	revision     uint64
	selectedLane int

	mode          inputMode
	renameInput   textinput.Model
	editingLane   domain.LaneID
	pendingDelete domain.LaneID

	drag        dragState
	queue       []gestureStep
	inFlight    bool
	needsReload bool
}

// boardMsg carries a snapshot from a load, rename or delete.
type boardMsg struct {
	res    app.Result
	status string
	load   bool
	err    error
}

// gestureMsg carries the service answer to one gesture step.
type gestureMsg struct {
	step gestureStep
	res  app.Result
	err  error
}

type copiedMsg struct {
	err error
}

// NewModel constructs the board model.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:           svc,
		status:        "loading...",
		help:          h,
		keys:          newKeyMap(),
		confirmDelete: true,
		cardWidth:     DefaultCardWidth,
		copyText:      systemClipboard,
		markdown:      &markdownRenderer{},
		renameInput:   newModalInput("title: ", "lane title", "", 80),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init loads the first snapshot.
func (m Model) Init() tea.Cmd {
	return m.loadBoard
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardMsg:
		if msg.err != nil {
			if msg.load {
				m.err = msg.err
			} else {
				m.status = msg.err.Error()
			}
			return m, nil
		}
		m.err = nil
		m.applyResult(msg.res)
		switch {
		case msg.status != "":
			m.status = msg.status
		case m.status == "" || m.status == "loading..." || m.status == "reloading...":
			m.status = "ready"
		}
		return m, nil

	case gestureMsg:
		m.inFlight = false
		if msg.err != nil {
			m.status = "drag failed: " + msg.err.Error()
			m.needsReload = true
			return m, m.dispatchNext()
		}
		m.applyResult(msg.res)
		if msg.res.Outcome.Desync {
			m.status = "board out of sync, reloading"
			m.needsReload = true
		} else if status := gestureStatus(msg.res.Outcome); status != "" {
			m.status = status
		}
		return m, m.dispatchNext()

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "copied board markdown"
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		return m.handleMousePress(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		return m, nil
	}
}

func (m Model) tuiContext() context.Context {
	return app.WithSource(context.Background(), app.SourceTUI)
}

// loadBoard fetches the current snapshot.
func (m Model) loadBoard() tea.Msg {
	res, err := m.svc.Board(m.tuiContext())
	return boardMsg{res: res, load: true, err: err}
}

// applyResult adopts a snapshot unless a newer revision is already shown.
func (m *Model) applyResult(res app.Result) {
	if res.Revision < m.revision {
		return
	}
	m.revision = res.Revision
	m.snap = res.Board
	m.selectedLane = clamp(m.selectedLane, 0, len(m.snap.Lanes)-1)
	if m.mode == modeRenameLane {
		if _, ok := m.snap.Lane(m.editingLane); !ok {
			m.exitMode()
			m.status = "lane no longer exists"
		}
	}
}

// enqueue appends a gesture step and sends it when nothing is in flight.
func (m *Model) enqueue(step gestureStep) tea.Cmd {
	m.queue = append(m.queue, step)
	return m.dispatchNext()
}

// dispatchNext sends the oldest queued step. A reload requested while the
// queue was busy runs once the queue drains.
func (m *Model) dispatchNext() tea.Cmd {
	if m.inFlight {
		return nil
	}
	if len(m.queue) == 0 {
		if m.needsReload {
			m.needsReload = false
			return m.loadBoard
		}
		return nil
	}
	step := m.queue[0]
	m.queue = m.queue[1:]
	m.inFlight = true

	svc, ctx := m.svc, m.tuiContext()
	return func() tea.Msg {
		var (
			res app.Result
			err error
		)
		switch step.phase {
		case phaseStart:
			res, err = svc.DragStart(ctx, board.StartEvent{Active: step.active})
		case phaseOver:
			res, err = svc.DragOver(ctx, board.OverEvent{Active: step.active, Over: step.over})
		default:
			res, err = svc.DragEnd(ctx, board.EndEvent{Active: step.active, Over: step.over})
		}
		return gestureMsg{step: step, res: res, err: err}
	}
}

// gestureStatus summarizes an outcome for the status line.
func gestureStatus(out board.Outcome) string {
	switch out.Result {
	case board.ResultActivated:
		return fmt.Sprintf("dragging %s %s", strings.ToLower(out.Kind.String()), out.ID)
	case board.ResultMoved:
		if out.Kind == board.KindLane {
			return "lane moved"
		}
		return "item moved"
	case board.ResultTransferred, board.ResultRelaned:
		return "item moved to another lane"
	case board.ResultCleared:
		return "dropped"
	default:
		return ""
	}
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeRenameLane:
		return m.handleRenameKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeLaneInfo:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.exitMode()
		return m, nil
	}

	if m.drag.active {
		switch {
		case key.Matches(msg, m.keys.cancel):
			return m.cancelDrag()
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadBoard
	case key.Matches(msg, m.keys.laneUp):
		m.selectedLane = clamp(m.selectedLane-1, 0, len(m.snap.Lanes)-1)
		return m, nil
	case key.Matches(msg, m.keys.laneDown):
		m.selectedLane = clamp(m.selectedLane+1, 0, len(m.snap.Lanes)-1)
		return m, nil
	case key.Matches(msg, m.keys.renameLane):
		return m.startRename()
	case key.Matches(msg, m.keys.deleteLane):
		return m.requestDelete()
	case key.Matches(msg, m.keys.laneInfo):
		if _, ok := m.selected(); ok {
			m.mode = modeLaneInfo
		}
		return m, nil
	case key.Matches(msg, m.keys.copyBoard):
		return m, m.copyBoardCmd()
	}
	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.exitMode()
		m.status = "rename canceled"
		return m, nil
	case "enter":
		id := m.editingLane
		title := strings.TrimSpace(m.renameInput.Value())
		m.exitMode()
		if title == "" {
			m.status = "lane title is required"
			return m, nil
		}
		svc, ctx := m.svc, m.tuiContext()
		return m, func() tea.Msg {
			res, err := svc.RenameLane(ctx, id, title)
			return boardMsg{res: res, status: "lane renamed", err: err}
		}
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.pendingDelete
		m.exitMode()
		return m, m.deleteLaneCmd(id)
	case "n", "N", "esc":
		m.exitMode()
		m.status = "delete canceled"
	}
	return m, nil
}

// startRename opens the title editor for the selected lane. While it is
// open that lane cannot be dragged.
func (m Model) startRename() (tea.Model, tea.Cmd) {
	lane, ok := m.selected()
	if !ok {
		m.status = "no lane selected"
		return m, nil
	}
	m.mode = modeRenameLane
	m.editingLane = lane.ID
	m.renameInput = newModalInput("title: ", "lane title", lane.Title, 80)
	return m, m.renameInput.Focus()
}

func (m Model) requestDelete() (tea.Model, tea.Cmd) {
	lane, ok := m.selected()
	if !ok {
		m.status = "no lane selected"
		return m, nil
	}
	if !m.confirmDelete {
		return m, m.deleteLaneCmd(lane.ID)
	}
	m.mode = modeConfirmDelete
	m.pendingDelete = lane.ID
	return m, nil
}

func (m Model) deleteLaneCmd(id domain.LaneID) tea.Cmd {
	svc, ctx := m.svc, m.tuiContext()
	return func() tea.Msg {
		res, err := svc.DeleteLane(ctx, id)
		if err != nil {
			return boardMsg{err: err}
		}
		status := "lane already removed"
		if res.Outcome.Result == board.ResultDeleted {
			status = fmt.Sprintf("deleted lane %s and %d items", id, res.Outcome.Removed)
		}
		return boardMsg{res: res, status: status}
	}
}

func (m Model) copyBoardCmd() tea.Cmd {
	markdown := BoardMarkdown(m.snap)
	write := m.copyText
	return func() tea.Msg {
		return copiedMsg{err: write(markdown)}
	}
}

func (m Model) cancelDrag() (tea.Model, tea.Cmd) {
	active := m.drag.payload
	m.drag = dragState{}
	m.status = "drag canceled"
	return m, m.enqueue(gestureStep{phase: phaseEnd, active: active})
}

func (m *Model) exitMode() {
	m.mode = modeNone
	m.editingLane = 0
	m.pendingDelete = 0
	m.renameInput.Blur()
}

func (m Model) handleMousePress(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseLeft || m.help.ShowAll || m.drag.active {
		return m, nil
	}
	if m.mode == modeConfirmDelete || m.mode == modeLaneInfo {
		return m, nil
	}
	target, _, ok := m.layout().hit(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	e := board.Classify(target)
	switch e.Kind {
	case board.KindLane:
		if m.mode == modeRenameLane && e.LaneID == m.editingLane {
			m.status = "lane is being edited"
			return m, nil
		}
		m.selectLane(e.LaneID)
	case board.KindItem:
		if item, found := m.item(e.ItemID); found {
			m.selectLane(item.LaneID)
		}
	}
	m.drag = dragState{active: true, payload: target, hover: e.Ref(), x: msg.X, y: msg.Y}
	return m, m.enqueue(gestureStep{phase: phaseStart, active: target})
}

// handleMouseMotion reports a hover only when the element under the pointer
// changes.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.drag.active {
		return m, nil
	}
	m.drag.x, m.drag.y = msg.X, msg.Y
	target, ok := m.dropTarget(msg.X, msg.Y)
	var ref board.Ref
	if ok {
		ref = board.Classify(target).Ref()
	}
	if ref == m.drag.hover {
		return m, nil
	}
	m.drag.hover = ref
	if !ok {
		return m, nil
	}
	return m, m.enqueue(gestureStep{phase: phaseOver, active: m.drag.payload, over: &target})
}

func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.drag.active {
		return m, nil
	}
	step := gestureStep{phase: phaseEnd, active: m.drag.payload}
	if target, ok := m.dropTarget(msg.X, msg.Y); ok {
		step.over = &target
	}
	m.drag = dragState{}
	return m, m.enqueue(step)
}

// dropTarget hit-tests for the current drag. A dragged lane only ever
// targets lanes, so a card resolves to the lane holding it.
func (m Model) dropTarget(x, y int) (board.Payload, bool) {
	target, laneID, ok := m.layout().hit(x, y)
	if !ok {
		return board.Payload{}, false
	}
	if board.ParseKind(m.drag.payload.Type) == board.KindLane {
		return board.LanePayload(laneID), true
	}
	return target, true
}

func (m Model) selected() (domain.Lane, bool) {
	if m.selectedLane < 0 || m.selectedLane >= len(m.snap.Lanes) {
		return domain.Lane{}, false
	}
	return m.snap.Lanes[m.selectedLane], true
}

func (m *Model) selectLane(id domain.LaneID) {
	if idx := slices.IndexFunc(m.snap.Lanes, func(l domain.Lane) bool { return l.ID == id }); idx >= 0 {
		m.selectedLane = idx
	}
}

func (m Model) item(id domain.ItemID) (domain.Item, bool) {
	idx := slices.IndexFunc(m.snap.Items, func(it domain.Item) bool { return it.ID == id })
	if idx < 0 {
		return domain.Item{}, false
	}
	return m.snap.Items[idx], true
}

// View renders the board.
func (m Model) View() tea.View {
	if m.err != nil {
		return newView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
	}
	if !m.ready {
		return newView("loading...")
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("laneboard") +
		statusStyle.Render(fmt.Sprintf("  rev %d  [%s]", m.revision, m.modeLabel()))
	if m.status != "" {
		header += statusStyle.Render("  " + m.status)
	}
	lines := []string{lipgloss.NewStyle().MaxWidth(max(1, m.width)).Render(header), ""}
	lines = append(lines, m.renderLanes(accent, muted, dim)...)
	content := strings.Join(lines, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	// TODO: scroll the lane list when it overflows the terminal height.
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	full := content + "\n" + helpLine

	height := lipgloss.Height(full)
	if m.height > 0 {
		height = m.height
	}
	width := max(1, m.width)
	if m.drag.active {
		ghost := m.renderGhost(accent)
		x := clamp(m.drag.x+2, 0, max(0, width-lipgloss.Width(ghost)))
		y := clamp(m.drag.y, 0, max(0, height-lipgloss.Height(ghost)))
		full = overlayAt(full, ghost, x, y, width, height)
	}
	if overlay := m.renderModeOverlay(accent, muted); overlay != "" {
		full = overlayOnContent(full, overlay, width, height)
	}
	return newView(full)
}

func newView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

func (m Model) modeLabel() string {
	switch {
	case m.drag.active:
		return "drag"
	case m.mode == modeRenameLane:
		return "rename"
	case m.mode == modeConfirmDelete:
		return "confirm"
	case m.mode == modeLaneInfo:
		return "info"
	default:
		return "board"
	}
}

// renderLanes draws every lane block using the same geometry as layout.
func (m Model) renderLanes(accent, muted, dim color.Color) []string {
	l := m.layout()
	laneStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	draggedStyle := lipgloss.NewStyle().Italic(true).Foreground(muted)
	hoverStyle := laneStyle.Underline(true)
	gap := strings.Repeat(" ", cardGap)
	indent := strings.Repeat(" ", cardIndent)

	var activeLane domain.LaneID
	var activeItem domain.ItemID
	if m.drag.active {
		e := board.Classify(m.drag.payload)
		activeLane, activeItem = e.LaneID, e.ItemID
	}

	var lines []string
	for idx, block := range l.blocks {
		marker := "  "
		if idx == m.selectedLane {
			marker = "▶ "
		}
		count := 0
		for _, row := range block.rows {
			count += len(row)
		}
		title := fmt.Sprintf("%s%s (%d)", marker, block.lane.Title, count)
		if m.mode == modeRenameLane && block.lane.ID == m.editingLane {
			title += "  ✎ editing"
		}
		style := laneStyle
		switch {
		case block.lane.ID == activeLane:
			style = draggedStyle
		case m.drag.active && m.drag.hover == (board.Ref{Kind: board.KindLane, LaneID: block.lane.ID}):
			style = hoverStyle
		}
		lines = append(lines, style.MaxWidth(max(1, m.width)).Render(truncate(title, max(1, m.width))))

		if len(block.rows) == 0 {
			empty := m.cardStyle(dim).BorderStyle(lipgloss.NormalBorder()).Foreground(muted).Render(truncate("drop here", m.cardWidth-4))
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, indent, empty))
		}
		for _, row := range block.rows {
			parts := []string{indent}
			for i, item := range row {
				if i > 0 {
					parts = append(parts, gap)
				}
				card := m.cardStyle(dim)
				switch {
				case item.ID == activeItem:
					card = card.Faint(true)
				case m.drag.active && m.drag.hover == (board.Ref{Kind: board.KindItem, ItemID: item.ID}):
					card = card.BorderForeground(accent)
				}
				parts = append(parts, card.Render(m.cardLabel(item)))
			}
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
		}
		lines = append(lines, "")
	}
	if len(l.blocks) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(muted).Render("no lanes"))
	}
	return lines
}

func (m Model) cardStyle(border color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.cardWidth)
}

func (m Model) cardLabel(item domain.Item) string {
	label := item.Title
	if m.showItemIDs {
		label = "#" + string(item.ID) + " " + label
	}
	return truncate(label, m.cardWidth-4)
}

// renderGhost draws the floating copy of the dragged entity.
func (m Model) renderGhost(accent color.Color) string {
	e := board.Classify(m.drag.payload)
	switch e.Kind {
	case board.KindItem:
		item, ok := m.item(e.ItemID)
		if !ok {
			return ""
		}
		return m.cardStyle(accent).Bold(true).Render(m.cardLabel(item))
	case board.KindLane:
		lane, ok := m.snap.Lane(e.LaneID)
		if !ok {
			return ""
		}
		items := m.snap.ItemsInLane(lane.ID)
		return lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			Bold(true).
			Render(truncate(fmt.Sprintf("%s (%d)", lane.Title, len(items)), 40))
	default:
		return ""
	}
}

func (m Model) renderModeOverlay(accent, muted color.Color) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	hint := lipgloss.NewStyle().Foreground(muted)
	title := lipgloss.NewStyle().Bold(true).Foreground(accent)

	switch m.mode {
	case modeRenameLane:
		return box.Render(strings.Join([]string{
			title.Render("Rename lane"),
			m.renameInput.View(),
			hint.Render("enter save • esc cancel"),
		}, "\n"))
	case modeConfirmDelete:
		lane, ok := m.snap.Lane(m.pendingDelete)
		if !ok {
			return ""
		}
		n := len(m.snap.ItemsInLane(lane.ID))
		return box.Render(strings.Join([]string{
			title.Render("Delete lane"),
			fmt.Sprintf("Delete %q and its %d items?", lane.Title, n),
			hint.Render("y confirm • n cancel"),
		}, "\n"))
	case modeLaneInfo:
		lane, ok := m.selected()
		if !ok {
			return ""
		}
		wrap := clamp(m.width-8, minMarkdownWrap, 72)
		body := m.markdown.render(LaneMarkdown(lane, m.snap.ItemsInLane(lane.ID)), wrap)
		return box.Render(body + "\n" + hint.Render("any key closes"))
	default:
		return ""
	}
}

func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or truncates content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base.
func overlayOnContent(base, overlay string, width, height int) string {
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	return overlayAt(base, centered, 0, 0, width, height)
}

// overlayAt composes overlay above base with its top-left corner at x, y.
func overlayAt(base, overlay string, x, y, width, height int) string {
	if strings.TrimSpace(overlay) == "" {
		return base
	}
	if width <= 0 || height <= 0 {
		return overlay + "\n\n" + base
	}
	canvas := lipgloss.NewCanvas(width, height)
	canvas.Compose(lipgloss.NewLayer(fitLines(base, height)).X(0).Y(0).Z(0))
	canvas.Compose(lipgloss.NewLayer(overlay).X(x).Y(y).Z(10))
	return canvas.Render()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
