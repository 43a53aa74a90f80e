package board

import (
	"sync/atomic"

	"board-cli/internal/model"
)

type published struct {
	board   model.Board
	loc     *Locator
	version uint64
}

// Model owns the canonical board. Every change is a whole-board swap of an immutable value,
// so a reader on another goroutine sees either the old or the new board, never a mix.
type Model struct {
	cur atomic.Pointer[published]
}

func NewModel() *Model {
	m := &Model{}
	b := model.EmptyBoard()
	m.cur.Store(&published{board: b, loc: newLocator(b)})
	return m
}

func NewModelFrom(b model.Board) (*Model, error) {
	m := NewModel()
	if err := m.Replace(b); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) load() *published { return m.cur.Load() }

func (m *Model) Containers() []string {
	return append([]string{}, m.load().board.Containers...)
}

func (m *Model) ItemsOf(containerID string) ([]string, error) {
	items, ok := m.load().board.Items[containerID]
	if !ok {
		return nil, NotFoundError{Kind: "container", ID: containerID}
	}
	return append([]string{}, items...), nil
}

func (m *Model) Snapshot() model.Board { return m.load().board.Clone() }

func (m *Model) Version() uint64 { return m.load().version }

func (m *Model) Locator() *Locator { return m.load().loc }

// Replace validates b and publishes a private copy of it.
func (m *Model) Replace(b model.Board) error {
	if b.Items == nil {
		b.Items = map[string][]string{}
	}
	return m.commit(b.Clone())
}

// commit publishes b, which the caller must no longer hold. A board that breaks an invariant
// is rejected and the current one stays in place.
func (m *Model) commit(b model.Board) error {
	if b.Containers == nil {
		b.Containers = []string{}
	}
	if err := b.Validate(); err != nil {
		return err
	}
	prev := m.load()
	m.cur.Store(&published{board: b, loc: newLocator(b), version: prev.version + 1})
	return nil
}
