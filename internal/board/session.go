package board

import "board-cli/internal/model"

// Session tracks the identifier picked up by the gesture in progress, if any.
type Session struct {
	active *model.ID
}

func (s *Session) Begin(id model.ID) error {
	if s.active != nil {
		return ProtocolViolation{
			Op:     "begin",
			Reason: "gesture already active for " + s.active.String() + ", cannot start " + id.String(),
		}
	}
	s.active = &id
	return nil
}

// End clears the session. Calling it with nothing active is a no-op.
func (s *Session) End() { s.active = nil }

func (s *Session) Current() (model.ID, bool) {
	if s.active == nil {
		return model.ID{}, false
	}
	return *s.active, true
}

func (s *Session) Active() bool { return s.active != nil }
