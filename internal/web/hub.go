package web

import (
	"context"
	"encoding/json"
	"errors"

	"board-cli/internal/board"
	"board-cli/internal/gesture"
	"board-cli/internal/model"

	"github.com/sirupsen/logrus"
)

var errHubStopped = errors.New("web: hub stopped")

// snapshotMsg is broadcast to every client after each applied event.
type snapshotMsg struct {
	Type    string          `json:"type"`
	Board   model.Board     `json:"board"`
	Active  *model.ID       `json:"active,omitempty"`
	Overlay *model.Overlay  `json:"overlay,omitempty"`
	Version uint64          `json:"version"`
	Result  *gesture.Result `json:"result,omitempty"`
}

// errorMsg goes back to the client whose event was rejected.
type errorMsg struct {
	Type  string       `json:"type"`
	Error string       `json:"error"`
	Event gesture.Type `json:"event,omitempty"`
}

type inbound struct {
	from *client
	ev   gesture.Event
	// err reports a frame that did not decode; the hub answers it in order with snapshots.
	err error
}

// hub owns the engine. Clients talk to it only through channels.
type hub struct {
	engine *board.Engine
	rec    *gesture.Recorder
	log    logrus.FieldLogger

	clients map[*client]struct{}
	// owner started the active gesture; its disconnect cancels the gesture.
	owner *client

	register   chan *client
	unregister chan *client
	events     chan inbound
	queries    chan chan snapshotMsg
	done       chan struct{}
}

func newHub(e *board.Engine, rec *gesture.Recorder, log logrus.FieldLogger) *hub {
	return &hub{
		engine:     e,
		rec:        rec,
		log:        log,
		clients:    map[*client]struct{}{},
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan inbound, 64),
		queries:    make(chan chan snapshotMsg),
		done:       make(chan struct{}),
	}
}

func (h *hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			if h.engine.State() != board.StateIdle {
				_, _ = h.engine.Cancel()
			}
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.WithField("clients", len(h.clients)).Debug("client connected")
			h.sendTo(c, h.snapshotMsg(nil))
		case c := <-h.unregister:
			// A slow client may already be dropped; its gesture still needs cancelling.
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.WithField("clients", len(h.clients)).Debug("client disconnected")
			}
			if c == h.owner && h.engine.State() != board.StateIdle {
				h.handle(inbound{ev: gesture.Event{Type: gesture.TypeCancel}})
			}
		case in := <-h.events:
			h.handle(in)
		case reply := <-h.queries:
			reply <- h.snapshotMsg(nil)
		}
	}
}

func (h *hub) handle(in inbound) {
	if in.from != nil {
		if _, ok := h.clients[in.from]; !ok {
			return
		}
	}
	if in.err != nil {
		h.sendTo(in.from, errorMsg{Type: "error", Error: in.err.Error()})
		return
	}
	res, err := gesture.Apply(h.engine, in.ev)
	if err != nil {
		h.log.WithError(err).WithField("type", string(in.ev.Type)).Warn("gesture rejected")
		if in.from != nil {
			h.sendTo(in.from, errorMsg{Type: "error", Error: err.Error(), Event: in.ev.Type})
		}
		if h.engine.State() == board.StateIdle {
			h.owner = nil
		}
		return
	}
	if err := h.rec.Record(in.ev); err != nil {
		h.log.WithError(err).Error("trace write failed")
	}
	switch in.ev.Type {
	case gesture.TypeStart:
		h.owner = in.from
	case gesture.TypeEnd, gesture.TypeCancel:
		h.owner = nil
	}
	h.broadcast(h.snapshotMsg(&res))
}

func (h *hub) snapshotMsg(res *gesture.Result) snapshotMsg {
	msg := snapshotMsg{
		Type:    "snapshot",
		Board:   h.engine.Snapshot(),
		Version: h.engine.Model().Version(),
		Result:  res,
	}
	if id, ok := h.engine.Current(); ok {
		msg.Active = &id
	}
	if ov, ok := h.engine.Overlay(); ok {
		msg.Overlay = &ov
	}
	return msg
}

func (h *hub) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.WithError(err).Error("encode broadcast")
		return
	}
	for c := range h.clients {
		h.enqueue(c, b)
	}
}

func (h *hub) sendTo(c *client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.WithError(err).Error("encode message")
		return
	}
	h.enqueue(c, b)
}

// enqueue never blocks the hub: a client that cannot keep up is dropped.
func (h *hub) enqueue(c *client, b []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- b:
	default:
		h.log.Warn("client too slow; dropping")
		h.drop(c)
	}
}

func (h *hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// snapshot asks the hub for the current board from another goroutine.
func (h *hub) snapshot(ctx context.Context) (snapshotMsg, error) {
	reply := make(chan snapshotMsg, 1)
	select {
	case h.queries <- reply:
	case <-h.done:
		return snapshotMsg{}, errHubStopped
	case <-ctx.Done():
		return snapshotMsg{}, ctx.Err()
	}
	select {
	case msg := <-reply:
		return msg, nil
	case <-ctx.Done():
		return snapshotMsg{}, ctx.Err()
	}
}
