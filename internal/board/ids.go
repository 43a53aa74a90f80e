package board

import (
	"sort"
	"strconv"
	"strings"
)

// NextContainerID returns "A" for an empty board, otherwise the letter after the first letter of
// the lexicographically last container id. Labels stop at "Z"; there is no wrap-around.
func NextContainerID(existing []string) (string, error) {
	if len(existing) == 0 {
		return "A", nil
	}
	sorted := append([]string{}, existing...)
	sort.Strings(sorted)
	last := sorted[len(sorted)-1]
	if last == "" {
		return "", ErrContainerIDsExhausted
	}
	c := last[0]
	if c < 'A' || c >= 'Z' {
		return "", ErrContainerIDsExhausted
	}
	return string(rune(c + 1)), nil
}

// NextItemID returns "<containerID>N" where N is one past the largest decimal suffix among the
// container's current items. Items are assumed to be "<one container label><decimal>"; ids whose
// suffix is not decimal are ignored. inUse (optional) reports ids taken anywhere on the board;
// the counter is bumped past every collision so the result is globally unique.
func NextItemID(containerID string, existing []string, inUse func(string) bool) (string, error) {
	containerID = strings.TrimSpace(containerID)
	if containerID == "" {
		return "", NotFoundError{Kind: "container", ID: containerID}
	}

	n := 0
	for _, it := range existing {
		if len(it) <= len(containerID) {
			continue
		}
		// Items carried over from other containers keep their own label, which is the same
		// width as ours.
		v, err := strconv.Atoi(it[len(containerID):])
		if err != nil || v < 0 {
			continue
		}
		if v > n {
			n = v
		}
	}

	for i := 0; i < 1<<16; i++ {
		n++
		id := containerID + strconv.Itoa(n)
		if inUse == nil || !inUse(id) {
			return id, nil
		}
	}
	return "", ErrIDCollision
}
