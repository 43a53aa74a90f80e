package gesture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"board-cli/internal/board"
	"board-cli/internal/model"
)

type Type string

const (
	TypeStart        Type = "start"
	TypeOver         Type = "over"
	TypeEnd          Type = "end"
	TypeCancel       Type = "cancel"
	TypeAddContainer Type = "add-container"
	TypeAddItem      Type = "add-item"
)

func (t Type) valid() bool {
	switch t {
	case TypeStart, TypeOver, TypeEnd, TypeCancel, TypeAddContainer, TypeAddItem:
		return true
	}
	return false
}

// Event is one inbound message from a presentation collaborator.
type Event struct {
	Type      Type            `json:"type"`
	Active    string          `json:"active,omitempty"`
	Over      string          `json:"over,omitempty"`
	Container string          `json:"container,omitempty"`
	Geometry  *model.Geometry `json:"geometry,omitempty"`

	// Gesture groups start..end events in a recorded trace.
	Gesture string    `json:"gesture,omitempty"`
	At      time.Time `json:"at,omitempty"`
}

var ErrUnknownType = errors.New("unknown gesture event type")

func (ev Event) Validate() error {
	if !ev.Type.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, ev.Type)
	}
	switch ev.Type {
	case TypeStart, TypeOver, TypeEnd:
		if strings.TrimSpace(ev.Active) == "" {
			return fmt.Errorf("%s event: missing active id", ev.Type)
		}
	case TypeAddItem:
		if strings.TrimSpace(ev.Container) == "" {
			return fmt.Errorf("%s event: missing container id", ev.Type)
		}
	}
	return nil
}

// Result reports what applying one event did.
type Result struct {
	Type    Type   `json:"type"`
	Changed bool   `json:"changed"`
	Created string `json:"created,omitempty"`
	State   string `json:"state"`
}

// Apply feeds ev into e.
func Apply(e *board.Engine, ev Event) (Result, error) {
	if err := ev.Validate(); err != nil {
		return Result{}, err
	}
	res := Result{Type: ev.Type}
	var err error
	switch ev.Type {
	case TypeStart:
		err = e.Start(ev.Active)
	case TypeOver:
		var g model.Geometry
		if ev.Geometry != nil {
			g = *ev.Geometry
		}
		res.Changed, err = e.Over(ev.Active, ev.Over, g)
	case TypeEnd:
		res.Changed, err = e.End(ev.Active, ev.Over)
	case TypeCancel:
		res.Changed, err = e.Cancel()
	case TypeAddContainer:
		res.Created, err = e.AddContainer()
		res.Changed = err == nil
	case TypeAddItem:
		res.Created, err = e.AddItem(ev.Container)
		res.Changed = err == nil
	}
	res.State = e.State().String()
	if err != nil {
		return res, err
	}
	return res, nil
}

// StepError locates a failing event within a replayed sequence.
type StepError struct {
	Index int
	Event Event
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("event %d (%s): %v", e.Index, e.Event.Type, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Replay applies events in order and stops at the first failure.
func Replay(e *board.Engine, events []Event) ([]Result, error) {
	out := make([]Result, 0, len(events))
	for i, ev := range events {
		res, err := Apply(e, ev)
		if err != nil {
			return out, &StepError{Index: i, Event: ev, Err: err}
		}
		out = append(out, res)
	}
	return out, nil
}
