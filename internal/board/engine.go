package board

import (
	"fmt"
	"io"

	"board-cli/internal/model"

	"github.com/sirupsen/logrus"
)

type State int

const (
	StateIdle State = iota
	StateDraggingItem
	StateDraggingContainer
)

func (s State) String() string {
	switch s {
	case StateDraggingItem:
		return "dragging-item"
	case StateDraggingContainer:
		return "dragging-container"
	default:
		return "idle"
	}
}

// Change is delivered to observers once per committed transition.
type Change struct {
	Op      string
	Board   model.Board
	Active  *model.ID
	Version uint64
	Mutated bool
}

type Option func(*Engine)

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithObserver(fn func(Change)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// Engine turns gesture events into board transitions. It is not safe for concurrent use;
// callers drive it from a single goroutine. Snapshots it hands out are safe to share.
type Engine struct {
	model     *Model
	session   Session
	log       logrus.FieldLogger
	observers []func(Change)
}

func NewEngine(m *Model, opts ...Option) *Engine {
	if m == nil {
		m = NewModel()
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	e := &Engine{model: m, log: quiet}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Model() *Model { return e.model }

func (e *Engine) Containers() []string { return e.model.Containers() }

func (e *Engine) ItemsOf(containerID string) ([]string, error) { return e.model.ItemsOf(containerID) }

func (e *Engine) Snapshot() model.Board { return e.model.Snapshot() }

func (e *Engine) Current() (model.ID, bool) { return e.session.Current() }

func (e *Engine) State() State {
	id, ok := e.session.Current()
	switch {
	case !ok:
		return StateIdle
	case id.IsContainer():
		return StateDraggingContainer
	default:
		return StateDraggingItem
	}
}

// Overlay reports what the drag overlay should show for the active gesture.
func (e *Engine) Overlay() (model.Overlay, bool) {
	id, ok := e.session.Current()
	if !ok {
		return model.Overlay{}, false
	}
	if id.IsContainer() {
		items := e.model.load().board.Items[id.Value]
		return model.Overlay{Kind: model.KindContainer, ID: id.Value, Items: append([]string{}, items...)}, true
	}
	return model.Overlay{Kind: model.KindItem, ID: id.Value}, true
}

// Start begins a gesture on activeID. Ids the board does not know are accepted as items; End
// recovers from them without touching the board.
func (e *Engine) Start(activeID string) error {
	if activeID == "" {
		return ProtocolViolation{Op: "start", Reason: "missing active id"}
	}
	id, ok := e.model.Locator().Classify(activeID)
	if !ok {
		id = model.ItemID(activeID)
	}
	if err := e.session.Begin(id); err != nil {
		e.log.WithError(err).Warn("rejected nested start")
		return err
	}
	e.log.WithFields(logrus.Fields{"active": activeID, "kind": id.Kind.String()}).Debug("drag start")
	e.notify("start", false)
	return nil
}

// Over reacts to the pointer hovering overID. Only an item crossing into another container
// changes the board here; reordering inside a container waits for End.
func (e *Engine) Over(activeID, overID string, g model.Geometry) (bool, error) {
	active, err := e.checkActive("over", activeID)
	if err != nil {
		return false, err
	}
	if overID == "" || active.IsContainer() {
		return false, nil
	}

	pub := e.model.load()
	overC, okOver := pub.loc.Resolve(overID)
	activeC, okActive := pub.loc.Resolve(activeID)
	if !okOver || !okActive {
		return false, nil
	}
	if overC == activeC {
		return false, nil
	}

	overItems := pub.board.Items[overC]
	var idx int
	if pub.loc.IsContainer(overID) {
		idx = len(overItems) + 1
	} else {
		overIndex, ok := pub.loc.Index(overID)
		modifier := 0
		if isBelowOverItem(g) {
			modifier = 1
		}
		if ok {
			idx = overIndex + modifier
		} else {
			idx = len(overItems) + 1
		}
	}

	next := transfer(pub.board, activeID, activeC, overC, idx)
	if err := e.commit("over", next); err != nil {
		return false, err
	}
	e.log.WithFields(logrus.Fields{
		"active": activeID,
		"over":   overID,
		"from":   activeC,
		"to":     overC,
		"index":  idx,
	}).Debug("transfer")
	return true, nil
}

// End finishes the gesture. The session is cleared on every path, including errors. With no
// gesture active it does nothing.
func (e *Engine) End(activeID, overID string) (bool, error) {
	active, ok := e.session.Current()
	if !ok {
		return false, nil
	}
	mutated, err := e.finish(active, activeID, overID)
	e.session.End()
	if err != nil {
		e.notify("end", false)
		return false, err
	}
	e.notify("end", mutated)
	return mutated, nil
}

// Cancel ends the active gesture as a drop on nothing.
func (e *Engine) Cancel() (bool, error) {
	id, ok := e.session.Current()
	if !ok {
		return false, nil
	}
	return e.End(id.Value, "")
}

func (e *Engine) finish(active model.ID, activeID, overID string) (bool, error) {
	if activeID != active.Value {
		return false, ProtocolViolation{
			Op:     "end",
			Reason: fmt.Sprintf("active id %q does not match gesture %s", activeID, active),
		}
	}
	log := e.log.WithFields(logrus.Fields{"active": activeID, "over": overID})
	pub := e.model.load()

	if active.IsContainer() {
		if overID == "" {
			log.Debug("container drop cancelled")
			return false, nil
		}
		target, ok := pub.loc.Resolve(overID)
		if !ok {
			return false, nil
		}
		from, okFrom := pub.loc.Index(activeID)
		to, okTo := pub.loc.Index(target)
		if !okFrom || !okTo || from == to || !pub.loc.IsContainer(activeID) {
			return false, nil
		}
		next := shallowCopy(pub.board)
		next.Containers = Move(pub.board.Containers, from, to)
		if err := e.model.commit(next); err != nil {
			return false, err
		}
		log.WithFields(logrus.Fields{"from": from, "to": to}).Debug("container moved")
		return true, nil
	}

	activeC, ok := pub.loc.Resolve(activeID)
	if !ok {
		log.Debug("active item not on board")
		return false, nil
	}
	if overID == "" {
		log.Debug("item drop cancelled")
		return false, nil
	}
	overC, ok := pub.loc.Resolve(overID)
	if !ok {
		return false, nil
	}
	items := pub.board.Items[overC]

	if overC != activeC {
		// No over event carried the item across; land it where the drop happened.
		idx := len(items)
		if i, ok := pub.loc.Index(overID); ok && !pub.loc.IsContainer(overID) {
			idx = i
		}
		if err := e.model.commit(transfer(pub.board, activeID, activeC, overC, idx)); err != nil {
			return false, err
		}
		log.WithFields(logrus.Fields{"from": activeC, "to": overC, "index": idx}).Debug("transfer on drop")
		return true, nil
	}

	activeIndex, _ := pub.loc.Index(activeID)
	overIndex := len(items) - 1
	if !pub.loc.IsContainer(overID) {
		overIndex, _ = pub.loc.Index(overID)
	}
	if activeIndex == overIndex {
		return false, nil
	}
	next := shallowCopy(pub.board)
	next.Items[overC] = Move(items, activeIndex, overIndex)
	if err := e.model.commit(next); err != nil {
		return false, err
	}
	log.WithFields(logrus.Fields{"container": overC, "from": activeIndex, "to": overIndex}).Debug("item moved")
	return true, nil
}

// AddContainer registers the next container label with an empty item list in one transition.
func (e *Engine) AddContainer() (string, error) {
	pub := e.model.load()
	id, err := NextContainerID(pub.board.Containers)
	if err != nil {
		return "", err
	}
	if pub.loc.Contains(id) {
		return "", fmt.Errorf("add container %s: %w", id, ErrIDCollision)
	}
	next := shallowCopy(pub.board)
	next.Containers = append(append(make([]string, 0, len(pub.board.Containers)+1), pub.board.Containers...), id)
	next.Items[id] = []string{}
	if err := e.commit("add-container", next); err != nil {
		return "", err
	}
	e.log.WithField("container", id).Debug("container added")
	return id, nil
}

// AddItem appends the next item label to containerID.
func (e *Engine) AddItem(containerID string) (string, error) {
	pub := e.model.load()
	items, ok := pub.board.Items[containerID]
	if !ok {
		return "", NotFoundError{Kind: "container", ID: containerID}
	}
	id, err := NextItemID(containerID, items, pub.loc.Contains)
	if err != nil {
		return "", err
	}
	next := shallowCopy(pub.board)
	next.Items[containerID] = append(append(make([]string, 0, len(items)+1), items...), id)
	if err := e.commit("add-item", next); err != nil {
		return "", err
	}
	e.log.WithFields(logrus.Fields{"container": containerID, "item": id}).Debug("item added")
	return id, nil
}

func (e *Engine) checkActive(op, activeID string) (model.ID, error) {
	id, ok := e.session.Current()
	if !ok {
		return model.ID{}, ProtocolViolation{Op: op, Reason: "no active gesture"}
	}
	if id.Value != activeID {
		return model.ID{}, ProtocolViolation{
			Op:     op,
			Reason: fmt.Sprintf("active id %q does not match gesture %s", activeID, id),
		}
	}
	return id, nil
}

func (e *Engine) commit(op string, next model.Board) error {
	if err := e.model.commit(next); err != nil {
		e.log.WithError(err).WithField("op", op).Error("transition rejected")
		return err
	}
	e.notify(op, true)
	return nil
}

func (e *Engine) notify(op string, mutated bool) {
	if len(e.observers) == 0 {
		return
	}
	ch := Change{
		Op:      op,
		Board:   e.model.Snapshot(),
		Version: e.model.Version(),
		Mutated: mutated,
	}
	if id, ok := e.session.Current(); ok {
		ch.Active = &id
	}
	for _, fn := range e.observers {
		fn(ch)
	}
}

// isBelowOverItem reports whether the dragged rect's bottom edge has passed the hovered rect.
func isBelowOverItem(g model.Geometry) bool {
	if g.Active == nil || g.Over == nil {
		return false
	}
	return g.Active.Bottom() > g.Over.Top+g.Over.Height
}

// shallowCopy copies the container order slice header and the item map; sequences are shared
// and must be replaced, never written in place.
func shallowCopy(b model.Board) model.Board {
	next := model.Board{Containers: b.Containers, Items: make(map[string][]string, len(b.Items))}
	for k, v := range b.Items {
		next.Items[k] = v
	}
	return next
}

func transfer(b model.Board, id, fromC, toC string, idx int) model.Board {
	next := shallowCopy(b)
	next.Items[fromC] = without(b.Items[fromC], id)
	next.Items[toC] = insertAt(b.Items[toC], idx, id)
	return next
}
