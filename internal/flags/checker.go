// Package flags validates completion flags submitted by the learner and
// keeps a log of every wrong guess for post-game analysis.
package flags

import "slices"

// Registry maps a level number to the expected flag for that level.
// Expected values are fixed at load time.
type Registry map[int]string

// Checker compares submissions against the registry. Wrong guesses are
// appended to a per-level log that grows for the lifetime of the checker;
// nothing in the game reads it back, it exists for the exercise operators.
type Checker struct {
	registry Registry
	wrong    map[int][]string
}

// NewChecker creates a Checker over the given registry.
func NewChecker(registry Registry) *Checker {
	return &Checker{
		registry: registry,
		wrong:    make(map[int][]string),
	}
}

// Check reports whether submitted is the flag registered for level.
// A mismatch (including a level with no registered flag) records the
// submission in the wrong-guess log.
func (c *Checker) Check(level int, submitted string) bool {
	expected, ok := c.registry[level]
	if ok && expected == submitted {
		return true
	}
	c.wrong[level] = append(c.wrong[level], submitted)
	return false
}

// WrongGuesses returns the wrong submissions recorded for a level, oldest
// first.
func (c *Checker) WrongGuesses(level int) []string {
	return slices.Clone(c.wrong[level])
}

// AllWrongGuesses returns a copy of the complete wrong-guess log keyed by
// level, for persistence.
func (c *Checker) AllWrongGuesses() map[int][]string {
	out := make(map[int][]string, len(c.wrong))
	for k, v := range c.wrong {
		out[k] = slices.Clone(v)
	}
	return out
}

// Restore replaces the wrong-guess log with a persisted one. Used when a
// saved run is resumed.
func (c *Checker) Restore(wrong map[int][]string) {
	c.wrong = make(map[int][]string, len(wrong))
	for k, v := range wrong {
		c.wrong[k] = slices.Clone(v)
	}
}
