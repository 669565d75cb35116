package entities

import (
	"encoding/json"
	"time"
)

// HistoryEntry is one line of a work order's audit trail.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	UserID    string    `json:"userId" db:"user_id"`
	Action    string    `json:"action" db:"action"`
}

// History is the append-only audit trail of a work order.
// The zero value is an empty history. Entries can only be added at the end;
// Append never touches the receiver's backing array.
type History struct {
	entries []HistoryEntry
}

func NewHistory(entries ...HistoryEntry) History {
	return History{}.Append(entries...)
}

func (h History) Append(entries ...HistoryEntry) History {
	next := make([]HistoryEntry, len(h.entries), len(h.entries)+len(entries))
	copy(next, h.entries)
	return History{entries: append(next, entries...)}
}

// Entries returns a copy of the trail in insertion order.
func (h History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h History) Len() int { return len(h.entries) }

func (h History) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Since returns the entries appended after the first n.
func (h History) Since(n int) []HistoryEntry {
	if n >= len(h.entries) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	out := make([]HistoryEntry, len(h.entries)-n)
	copy(out, h.entries[n:])
	return out
}

func (h History) MarshalJSON() ([]byte, error) {
	if h.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.entries)
}

func (h *History) UnmarshalJSON(data []byte) error {
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*h = NewHistory(entries...)
	return nil
}
