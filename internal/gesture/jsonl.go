package gesture

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Read parses a JSON-lines gesture script. Blank lines and lines starting with '#' are skipped.
func Read(r io.Reader) ([]Event, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var out []Event
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 || b[0] == '#' {
			continue
		}
		var ev Event
		if err := json.Unmarshal(b, &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Recorder appends events as JSON lines, stamping each with a time and a gesture id that is
// minted on start and carried through the matching end or cancel.
type Recorder struct {
	mu      sync.Mutex
	w       io.Writer
	gesture string
	now     func() time.Time
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w, now: func() time.Time { return time.Now().UTC() }}
}

func (r *Recorder) Record(ev Event) error {
	if r == nil || r.w == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.Type == TypeStart {
		r.gesture = uuid.NewString()
	}
	switch ev.Type {
	case TypeStart, TypeOver, TypeEnd, TypeCancel:
		ev.Gesture = r.gesture
	}
	if ev.Type == TypeEnd || ev.Type == TypeCancel {
		r.gesture = ""
	}
	if ev.At.IsZero() {
		ev.At = r.now()
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = r.w.Write(b)
	return err
}
