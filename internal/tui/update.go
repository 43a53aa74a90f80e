package tui

import (
	"board-cli/internal/gesture"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, cmd
}

func (m *appModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return nil
	case tea.BlurMsg:
		// Losing the terminal aborts the gesture.
		if m.dragging() {
			return m.cancel()
		}
		return nil
	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return nil
}

func (m *appModel) updateKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		if m.dragging() {
			m.cancel()
		}
		return tea.Quit
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.help), key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.quit):
			m.showHelp = false
		}
		return nil
	}
	if m.jumping {
		return m.updateJump(msg)
	}
	if m.dragging() {
		return m.updateDrag(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.help):
		m.showHelp = true
	case key.Matches(msg, m.keys.left):
		m.moveSelection(-1, 0)
	case key.Matches(msg, m.keys.right):
		m.moveSelection(1, 0)
	case key.Matches(msg, m.keys.up):
		m.moveSelection(0, -1)
	case key.Matches(msg, m.keys.down):
		m.moveSelection(0, 1)
	case key.Matches(msg, m.keys.pickUp):
		return m.pickUp()
	case key.Matches(msg, m.keys.addCol):
		res, cmd := m.apply(gesture.Event{Type: gesture.TypeAddContainer})
		if res.Created != "" {
			m.sel = selection{ID: res.Created}
			m.resync()
		}
		return cmd
	case key.Matches(msg, m.keys.addRow):
		b := m.engine.Snapshot()
		if len(b.Containers) == 0 {
			return m.setFlash("add a container first", false)
		}
		c := b.Containers[clamp(m.sel.Col, 0, len(b.Containers)-1)]
		res, cmd := m.apply(gesture.Event{Type: gesture.TypeAddItem, Container: c})
		if res.Created != "" {
			m.sel.ID = res.Created
			m.resync()
		}
		return cmd
	case key.Matches(msg, m.keys.jump):
		m.jumping = true
		m.query = ""
		m.matches = nil
	}
	return nil
}

func (m *appModel) updateDrag(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.left):
		return m.movePointer(-1, 0)
	case key.Matches(msg, m.keys.right):
		return m.movePointer(1, 0)
	case key.Matches(msg, m.keys.up):
		return m.movePointer(0, -1)
	case key.Matches(msg, m.keys.down):
		return m.movePointer(0, 1)
	case key.Matches(msg, m.keys.drop):
		return m.drop()
	case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.quit):
		return m.cancel()
	}
	return nil
}

func (m *appModel) moveSelection(dc, dr int) {
	b := m.engine.Snapshot()
	if len(b.Containers) == 0 {
		return
	}
	m.sel = clampSelection(b, selection{Col: m.sel.Col + dc, Row: m.sel.Row + dr})
}
