package model

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindItem Kind = iota
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	default:
		return "item"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.TrimSpace(string(b)) {
	case "container":
		*k = KindContainer
	case "item", "":
		*k = KindItem
	default:
		return fmt.Errorf("unknown id kind: %q", string(b))
	}
	return nil
}

// ID is a board identifier tagged with the namespace it lives in.
type ID struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"id"`
}

func ContainerID(v string) ID { return ID{Kind: KindContainer, Value: v} }
func ItemID(v string) ID      { return ID{Kind: KindItem, Value: v} }

func (id ID) IsContainer() bool { return id.Kind == KindContainer }

func (id ID) String() string { return id.Kind.String() + ":" + id.Value }

// Board is the canonical state: container order plus each container's item order.
// Values are treated as immutable once published; mutate a Clone.
type Board struct {
	Containers []string            `json:"containers"`
	Items      map[string][]string `json:"items"`
}

func EmptyBoard() Board {
	return Board{Containers: []string{}, Items: map[string][]string{}}
}

func (b Board) Clone() Board {
	out := Board{
		Containers: append([]string{}, b.Containers...),
		Items:      make(map[string][]string, len(b.Items)),
	}
	for k, v := range b.Items {
		out.Items[k] = append([]string{}, v...)
	}
	return out
}

func (b Board) Equal(o Board) bool {
	if len(b.Containers) != len(o.Containers) || len(b.Items) != len(o.Items) {
		return false
	}
	for i := range b.Containers {
		if b.Containers[i] != o.Containers[i] {
			return false
		}
	}
	for k, xs := range b.Items {
		ys, ok := o.Items[k]
		if !ok || len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if xs[i] != ys[i] {
				return false
			}
		}
	}
	return true
}

// Text renders one line per container in board order, e.g. "A: A1 A2".
func (b Board) Text() string {
	var sb strings.Builder
	for _, c := range b.Containers {
		sb.WriteString(c)
		sb.WriteString(":")
		for _, it := range b.Items[c] {
			sb.WriteString(" ")
			sb.WriteString(it)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Markdown publishes the board as one section per container with its items as a list.
func (b Board) Markdown() string {
	var buf strings.Builder
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}
	writeLn("# Board")
	for _, c := range b.Containers {
		writeLn("")
		items := b.Items[c]
		writeLn(fmt.Sprintf("## %s (%d)", c, len(items)))
		if len(items) == 0 {
			writeLn("")
			writeLn("_empty_")
			continue
		}
		writeLn("")
		for _, it := range items {
			writeLn("- " + it)
		}
	}
	return buf.String()
}

type InvariantError struct {
	Rule string
	ID   string
}

func (e *InvariantError) Error() string {
	if e.ID == "" {
		return "board invariant violated: " + e.Rule
	}
	return fmt.Sprintf("board invariant violated: %s (%s)", e.Rule, e.ID)
}

// Validate checks the structural invariants every published board must satisfy.
func (b Board) Validate() error {
	seen := make(map[string]bool, len(b.Containers))
	for _, c := range b.Containers {
		if c == "" {
			return &InvariantError{Rule: "empty container id"}
		}
		if seen[c] {
			return &InvariantError{Rule: "duplicate container", ID: c}
		}
		seen[c] = true
		if _, ok := b.Items[c]; !ok {
			return &InvariantError{Rule: "container has no item list", ID: c}
		}
	}
	if len(b.Items) != len(b.Containers) {
		for k := range b.Items {
			if !seen[k] {
				return &InvariantError{Rule: "item list for unordered container", ID: k}
			}
		}
	}

	owner := map[string]string{}
	for _, c := range b.Containers {
		for _, it := range b.Items[c] {
			if it == "" {
				return &InvariantError{Rule: "empty item id", ID: c}
			}
			if seen[it] {
				return &InvariantError{Rule: "item id shadows a container id", ID: it}
			}
			if prev, dup := owner[it]; dup {
				if prev == c {
					return &InvariantError{Rule: "item listed twice in one container", ID: it}
				}
				return &InvariantError{Rule: "item owned by two containers", ID: it}
			}
			owner[it] = c
		}
	}
	return nil
}

type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Geometry is the pointer-vs-target measurement a collaborator reports with each over event.
// Active is the dragged element's translated rect and may be nil before the first move.
type Geometry struct {
	Active *Rect `json:"active,omitempty"`
	Over   *Rect `json:"over,omitempty"`
}

// Overlay describes what the drag overlay should draw for the active gesture.
type Overlay struct {
	Kind  Kind     `json:"kind"`
	ID    string   `json:"id"`
	Items []string `json:"items,omitempty"`
}
