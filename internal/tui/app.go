package tui

import (
	"io"
	"time"

	"board-cli/internal/board"
	"board-cli/internal/gesture"
	"board-cli/internal/model"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Options configures the interactive board.
type Options struct {
	Theme         string
	MarkdownStyle string
	Recorder      *gesture.Recorder
	Logger        logrus.FieldLogger
}

// selection is the idle cursor. Row 0 is a container header; row i is the container's
// (i-1)th item. ID tracks the selected entity across board changes.
type selection struct {
	Col int
	Row int
	ID  string
}

// pointer is the virtual drag pointer. Half counts half rows from the header, so an odd
// Half rests on the lower half of row Half/2.
type pointer struct {
	Col  int
	Half int
}

type flashDoneMsg struct{ seq int }

const flashFor = 2500 * time.Millisecond

type appModel struct {
	engine *board.Engine
	rec    *gesture.Recorder
	log    logrus.FieldLogger

	keys keyMap
	help help.Model

	width   int
	height  int
	mdStyle string

	sel    selection
	ptr    pointer
	active string

	showHelp bool
	jumping  bool
	query    string
	matches  []string

	flash    string
	flashErr bool
	flashSeq int
}

func newAppModel(e *board.Engine, opts Options) appModel {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	m := appModel{
		engine:  e,
		rec:     opts.Recorder,
		log:     log,
		keys:    newKeyMap(),
		help:    help.New(),
		width:   80,
		height:  24,
		mdStyle: markdownStyle(opts.MarkdownStyle),
		sel:     selection{Col: 0, Row: 1},
	}
	m.resync()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) dragging() bool { return m.engine.State() != board.StateIdle }

// apply feeds ev to the engine and, when it succeeds, to the trace recorder.
func (m *appModel) apply(ev gesture.Event) (gesture.Result, tea.Cmd) {
	res, err := gesture.Apply(m.engine, ev)
	if err != nil {
		m.log.WithError(err).WithField("type", string(ev.Type)).Warn("gesture rejected")
		return res, m.setFlash(err.Error(), true)
	}
	if err := m.rec.Record(ev); err != nil {
		m.log.WithError(err).Error("trace write failed")
		return res, m.setFlash("trace: "+err.Error(), true)
	}
	return res, nil
}

func (m *appModel) setFlash(msg string, isErr bool) tea.Cmd {
	m.flashSeq++
	m.flash = msg
	m.flashErr = isErr
	seq := m.flashSeq
	return tea.Tick(flashFor, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// resync re-resolves the selection after the board changed underneath it.
func (m *appModel) resync() {
	b := m.engine.Snapshot()
	if len(b.Containers) == 0 {
		m.sel = selection{Col: 0, Row: 0}
		return
	}
	loc := m.engine.Model().Locator()
	if id, ok := loc.Classify(m.sel.ID); ok {
		idx, _ := loc.Index(id.Value)
		if id.IsContainer() {
			m.sel.Col, m.sel.Row = idx, 0
			return
		}
		owner, _ := loc.Resolve(id.Value)
		ci, _ := loc.Index(owner)
		m.sel.Col, m.sel.Row = ci, idx+1
		return
	}
	m.sel = clampSelection(b, m.sel)
}

func clampSelection(b model.Board, sel selection) selection {
	if len(b.Containers) == 0 {
		return selection{}
	}
	sel.Col = clamp(sel.Col, 0, len(b.Containers)-1)
	c := b.Containers[sel.Col]
	items := b.Items[c]
	sel.Row = clamp(sel.Row, 0, len(items))
	if sel.Row == 0 {
		sel.ID = c
	} else {
		sel.ID = items[sel.Row-1]
	}
	return sel
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
