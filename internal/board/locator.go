package board

import "board-cli/internal/model"

// ResolveContainer returns the container owning id by scanning b. A container id resolves to
// itself. This is the reference behavior the Locator index must agree with.
func ResolveContainer(id string, b model.Board) (string, bool) {
	if id == "" {
		return "", false
	}
	if _, ok := b.Items[id]; ok {
		return id, true
	}
	for _, c := range b.Containers {
		for _, it := range b.Items[c] {
			if it == id {
				return c, true
			}
		}
	}
	return "", false
}

// Locator is a reverse index over one published board.
type Locator struct {
	containers map[string]bool
	owner      map[string]string
	position   map[string]int
}

func newLocator(b model.Board) *Locator {
	l := &Locator{
		containers: make(map[string]bool, len(b.Containers)),
		owner:      map[string]string{},
		position:   map[string]int{},
	}
	for i, c := range b.Containers {
		l.containers[c] = true
		l.position[c] = i
		for j, it := range b.Items[c] {
			l.owner[it] = c
			l.position[it] = j
		}
	}
	return l
}

// Resolve returns the owning container of an item id, or the id itself for a container.
func (l *Locator) Resolve(id string) (string, bool) {
	if l == nil || id == "" {
		return "", false
	}
	if l.containers[id] {
		return id, true
	}
	c, ok := l.owner[id]
	return c, ok
}

func (l *Locator) Classify(id string) (model.ID, bool) {
	if l == nil || id == "" {
		return model.ID{}, false
	}
	if l.containers[id] {
		return model.ContainerID(id), true
	}
	if _, ok := l.owner[id]; ok {
		return model.ItemID(id), true
	}
	return model.ID{}, false
}

func (l *Locator) Contains(id string) bool {
	_, ok := l.Classify(id)
	return ok
}

func (l *Locator) IsContainer(id string) bool {
	return l != nil && l.containers[id]
}

// Index returns the position of id within its own sequence: container order for containers,
// the owning container's item list for items.
func (l *Locator) Index(id string) (int, bool) {
	if l == nil {
		return -1, false
	}
	i, ok := l.position[id]
	if !ok {
		return -1, false
	}
	return i, true
}
