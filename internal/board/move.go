package board

// Move returns a copy of seq with the element at from relocated to index to, where to is read in
// the sequence *after* removing the element. Elements between the two positions shift by one;
// this is a single move, not a swap. Out-of-range targets clamp to the ends; an out-of-range
// source returns an unchanged copy.
func Move(seq []string, from, to int) []string {
	out := append([]string{}, seq...)
	if from < 0 || from >= len(seq) {
		return out
	}
	moved := seq[from]

	rest := make([]string, 0, len(seq)-1)
	rest = append(rest, seq[:from]...)
	rest = append(rest, seq[from+1:]...)

	if to < 0 {
		to = 0
	}
	if to > len(rest) {
		to = len(rest)
	}

	out = out[:0]
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out
}

// insertAt returns seq with id inserted before index i (clamped to the ends).
func insertAt(seq []string, i int, id string) []string {
	if i < 0 {
		i = 0
	}
	if i > len(seq) {
		i = len(seq)
	}
	out := make([]string, 0, len(seq)+1)
	out = append(out, seq[:i]...)
	out = append(out, id)
	out = append(out, seq[i:]...)
	return out
}

func without(seq []string, id string) []string {
	out := make([]string, 0, len(seq))
	for _, s := range seq {
		if s != id {
			out = append(out, s)
		}
	}
	return out
}
