// Package hints holds the per-branch hint catalog and tracks which hints a
// learner has already been shown during a run.
package hints

import (
	"fmt"
	"slices"

	"github.com/abhisek/gauntlet/internal/levelgraph"
)

// Hint is a named piece of help text for one branch of one level.
type Hint struct {
	Name string
	Text string
}

// Catalog maps a full level name ("level4a") to its hints in authored order.
type Catalog map[string][]Hint

// UnknownHintError reports a request for a hint name the catalog does not
// have for the given level name.
type UnknownHintError struct {
	LevelName string
	Name      string
}

func (e *UnknownHintError) Error() string {
	return fmt.Sprintf("no hint %q for %s", e.Name, e.LevelName)
}

// Ledger gives out hints from the catalog and remembers which were taken.
// Taken-hint state is independent of the game engine: an aborted game keeps
// its hint history until Restart is called.
type Ledger struct {
	catalog Catalog
	taken   map[string][]string
	total   int
}

// NewLedger creates a Ledger over the given catalog.
func NewLedger(catalog Catalog) *Ledger {
	return &Ledger{
		catalog: catalog,
		taken:   make(map[string][]string),
	}
}

// ListHints returns the hint names available for a level and branch, in
// authored order. The result is empty for unknown keys.
func (l *Ledger) ListHints(level int, branch string) []string {
	hs := l.catalog[levelgraph.LevelName(level, branch)]
	names := make([]string, len(hs))
	for i, h := range hs {
		names[i] = h.Name
	}
	return names
}

// TakeHint returns the text of a hint and records it as taken. Re-taking a
// hint returns the same text without growing the log or the counter.
func (l *Ledger) TakeHint(level int, branch, name string) (string, error) {
	key := levelgraph.LevelName(level, branch)
	for _, h := range l.catalog[key] {
		if h.Name != name {
			continue
		}
		if !slices.Contains(l.taken[key], name) {
			l.taken[key] = append(l.taken[key], name)
			l.total++
		}
		return h.Text, nil
	}
	return "", &UnknownHintError{LevelName: key, Name: name}
}

// TakenHints returns the hints already taken for a level and branch, in the
// order they were taken.
func (l *Ledger) TakenHints(level int, branch string) []string {
	return slices.Clone(l.taken[levelgraph.LevelName(level, branch)])
}

// TakenAll returns a copy of the full taken-hint log keyed by level name,
// for persistence.
func (l *Ledger) TakenAll() map[string][]string {
	out := make(map[string][]string, len(l.taken))
	for k, v := range l.taken {
		out[k] = slices.Clone(v)
	}
	return out
}

// TotalTaken returns the number of distinct hints taken during this run.
func (l *Ledger) TotalTaken() int {
	return l.total
}

// Restart clears the taken-hint log and the counter. The game engine's
// Abort does not call this; the driving loop invokes both.
func (l *Ledger) Restart() {
	l.taken = make(map[string][]string)
	l.total = 0
}

// Restore replaces the taken-hint log with a persisted one, recounting
// the total. Used when a saved run is resumed.
func (l *Ledger) Restore(taken map[string][]string) {
	l.taken = make(map[string][]string, len(taken))
	l.total = 0
	for k, v := range taken {
		l.taken[k] = slices.Clone(v)
		l.total += len(v)
	}
}
