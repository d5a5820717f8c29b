package terrain

import (
	"fmt"
	"strings"
)

// JournalEntry is one recorded terrain event.
type JournalEntry struct {
	Turn      int
	Combatant string  // name, or "--" for global events
	Faction   string  // "xcorp", "alien" or "--"
	Category  string  // deploy, move, remove, vision, reveal
	Key       string  // specific event within the category
	Value     string  // human-readable detail
	NumVal    float64 // optional numeric value
}

// String formats the entry as a fixed-width log line.
//
//	[T=003] X2    vision    contact_new      A0
func (e JournalEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-5s %-9s %-16s %s",
		e.Turn, e.Combatant, e.Category, e.Key, e.Value)
}

// Journal collects structured terrain events for reports and tests. It is
// unbounded and machine-readable.
type Journal struct {
	entries []JournalEntry
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Add records a new entry.
func (j *Journal) Add(e JournalEntry) {
	j.entries = append(j.entries, e)
}

// Entries returns all recorded entries.
func (j *Journal) Entries() []JournalEntry {
	return j.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (j *Journal) Filter(category, key string) []JournalEntry {
	var out []JournalEntry
	for _, e := range j.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountFaction returns how many entries members of f recorded for the given
// category and key.
func (j *Journal) CountFaction(f Faction, category, key string) int {
	n := 0
	for _, e := range j.Filter(category, key) {
		if e.Faction == f.String() {
			n++
		}
	}
	return n
}

// FirstTurn returns the turn of the earliest entry matching category and key,
// or -1 when there is none.
func (j *Journal) FirstTurn(category, key string) int {
	for _, e := range j.entries {
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e.Turn
		}
	}
	return -1
}

// CountCategory returns how many entries match the given category and key.
func (j *Journal) CountCategory(category, key string) int {
	return len(j.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key.
func (j *Journal) LastOf(category, key string) (JournalEntry, bool) {
	entries := j.Filter(category, key)
	if len(entries) == 0 {
		return JournalEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry reports whether an entry matches category, key and value substring.
func (j *Journal) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range j.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// record adds an entry when the terrain has a journal.
func (t *Terrain) record(c *Combatant, category, key, value string, num float64) {
	if t.journal == nil {
		return
	}
	name, faction := "--", "--"
	if c != nil {
		name, faction = c.Name, c.Faction.String()
	}
	t.journal.Add(JournalEntry{
		Turn:      t.turn,
		Combatant: name,
		Faction:   faction,
		Category:  category,
		Key:       key,
		Value:     value,
		NumVal:    num,
	})
}
