package terminal

// History is a bounded ring of past command lines, most recent first.
// Adding beyond capacity evicts the oldest entry; adding a line identical
// to the most recent one is a no-op, so adjacent duplicates never occur.
type History struct {
	entries []string
	limit   int
}

// NewHistory creates a history ring holding at most limit lines.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{
		entries: make([]string, 0, limit),
		limit:   limit,
	}
}

// Add records a committed line at the front of the ring.
func (h *History) Add(line string) {
	if line == "" {
		return
	}
	if len(h.entries) > 0 && h.entries[0] == line {
		return
	}
	if len(h.entries) < h.limit {
		h.entries = append(h.entries, "")
	}
	copy(h.entries[1:], h.entries)
	h.entries[0] = line
}

// Get returns the entry at index (0 = most recent).
func (h *History) Get(index int) (string, bool) {
	if index < 0 || index >= len(h.entries) {
		return "", false
	}
	return h.entries[index], true
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// All returns a copy of the entries, most recent first.
func (h *History) All() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = h.entries[:0]
}
