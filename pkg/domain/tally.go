package domain

// Tally is the per-traversal multiset of submitted answer letters.
// It is shared by reference between a node and the node it creates on a
// successful transition, and only replaced at the explicit reset points
// (entering the graph, restarting after an end node).
//
// Insertion order is tracked so that ties in MostCommon resolve to the
// key that reached the maximum first, matching Counter-style semantics.
type Tally struct {
	counts map[string]int
	order  []string
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments the count for key by one.
func (t *Tally) Add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Count returns the current count for key.
func (t *Tally) Count(key string) int {
	return t.counts[key]
}

// Len returns the number of distinct keys.
func (t *Tally) Len() int {
	return len(t.counts)
}

// MostCommon returns the single most frequent key. Ties resolve to the
// earliest-inserted key. ok is false when the tally is empty.
func (t *Tally) MostCommon() (key string, ok bool) {
	best := -1
	for _, k := range t.order {
		if c := t.counts[k]; c > best {
			best = c
			key = k
			ok = true
		}
	}
	return key, ok
}
