package tui

import (
	"board-cli/internal/gesture"
	"board-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// pickUp starts a gesture on the selected entity and parks the pointer on it.
func (m *appModel) pickUp() tea.Cmd {
	b := m.engine.Snapshot()
	if len(b.Containers) == 0 {
		return m.setFlash("nothing to pick up (press a to add a container)", false)
	}
	m.sel = clampSelection(b, m.sel)
	id := m.sel.ID
	_, cmd := m.apply(gesture.Event{Type: gesture.TypeStart, Active: id})
	if !m.dragging() {
		return cmd
	}
	m.active = id
	m.ptr = pointer{Col: m.sel.Col, Half: 2 * m.sel.Row}
	return cmd
}

// movePointer shifts the pointer by dc columns and dh half rows and reports what it hovers.
func (m *appModel) movePointer(dc, dh int) tea.Cmd {
	b := m.engine.Snapshot()
	if len(b.Containers) == 0 {
		return nil
	}
	m.ptr.Col = clamp(m.ptr.Col+dc, 0, len(b.Containers)-1)
	if m.holdingContainer() {
		m.ptr.Half = 0
	} else {
		n := len(b.Items[b.Containers[m.ptr.Col]])
		// One row past the last item is the container body.
		m.ptr.Half = clamp(m.ptr.Half+dh, 0, 2*(n+1)+1)
	}

	over, g := m.hovered(b)
	_, cmd := m.apply(gesture.Event{Type: gesture.TypeOver, Active: m.active, Over: over, Geometry: &g})
	return cmd
}

// drop ends the gesture on whatever the pointer hovers.
func (m *appModel) drop() tea.Cmd {
	over, _ := m.hovered(m.engine.Snapshot())
	_, cmd := m.apply(gesture.Event{Type: gesture.TypeEnd, Active: m.active, Over: over})
	m.release()
	return cmd
}

func (m *appModel) cancel() tea.Cmd {
	_, cmd := m.apply(gesture.Event{Type: gesture.TypeCancel})
	m.release()
	return cmd
}

// release returns to the idle cursor, selecting the entity that was held.
func (m *appModel) release() {
	if m.dragging() {
		return
	}
	if m.active != "" {
		m.sel.ID = m.active
	}
	m.active = ""
	m.ptr = pointer{}
	m.resync()
}

func (m appModel) holdingContainer() bool {
	id, ok := m.engine.Current()
	return ok && id.IsContainer()
}

// hovered maps the pointer onto a board id plus the geometry a pointer sensor would report:
// the held entity is one row tall at the pointer, the target is the row under it.
func (m appModel) hovered(b model.Board) (string, model.Geometry) {
	if len(b.Containers) == 0 {
		return "", model.Geometry{}
	}
	col := clamp(m.ptr.Col, 0, len(b.Containers)-1)
	c := b.Containers[col]
	row := m.ptr.Half / 2

	active := model.Rect{Top: float64(m.ptr.Half) / 2, Height: 1}
	over := model.Rect{Top: float64(row), Height: 1}
	g := model.Geometry{Active: &active, Over: &over}

	if m.holdingContainer() || row == 0 {
		return c, g
	}
	items := b.Items[c]
	if row-1 < len(items) {
		return items[row-1], g
	}
	return c, g
}
