package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

const maxJumpMatches = 5

func (m *appModel) updateJump(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.jumping = false
		return nil
	case key.Matches(msg, m.keys.drop):
		m.jumping = false
		if len(m.matches) == 0 {
			return m.setFlash("no match for "+m.query, false)
		}
		m.sel.ID = m.matches[0]
		m.resync()
		return nil
	}
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
	default:
		return nil
	}
	m.matches = jumpMatches(m.engine.Snapshot().Containers, m.itemIDs(), m.query)
	return nil
}

func (m appModel) itemIDs() []string {
	b := m.engine.Snapshot()
	var out []string
	for _, c := range b.Containers {
		out = append(out, b.Items[c]...)
	}
	return out
}

// jumpMatches ranks containers and items against query, best first.
func jumpMatches(containers, items []string, query string) []string {
	if query == "" {
		return nil
	}
	candidates := append(append([]string{}, containers...), items...)
	found := fuzzy.Find(query, candidates)
	out := make([]string, 0, maxJumpMatches)
	for _, f := range found {
		out = append(out, f.Str)
		if len(out) == maxJumpMatches {
			break
		}
	}
	return out
}
