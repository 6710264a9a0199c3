// Package quiz collects the skills a learner self-reports before the game
// starts. The resulting set feeds the adaptive branch resolver and is never
// mutated by the game engine.
package quiz

import "slices"

// SkillSet is an ordered, duplicate-free collection of skill identifiers.
type SkillSet struct {
	names []string
	seen  map[string]bool
}

// NewSkillSet creates an empty SkillSet.
func NewSkillSet() *SkillSet {
	return &SkillSet{seen: make(map[string]bool)}
}

// Add records a skill; re-adding is a no-op.
func (s *SkillSet) Add(name string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}

// Has reports whether the skill was recorded.
func (s *SkillSet) Has(name string) bool {
	return s.seen[name]
}

// All returns the skills in the order they were added.
func (s *SkillSet) All() []string {
	return slices.Clone(s.names)
}

// Known returns the set as a lookup map for the branch resolver.
func (s *SkillSet) Known() map[string]bool {
	out := make(map[string]bool, len(s.seen))
	for k := range s.seen {
		out[k] = true
	}
	return out
}

// Len returns the number of recorded skills.
func (s *SkillSet) Len() int {
	return len(s.names)
}
