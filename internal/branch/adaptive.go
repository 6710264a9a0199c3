package branch

import (
	"errors"
	"time"
)

// ErrNoEligibleBranch is returned by Resolve when no candidate matched and
// the level carries no unconditional default. A well-formed requirements
// table always has a default per fork, so callers treat this as a fatal
// routing error.
var ErrNoEligibleBranch = errors.New("no eligible branch for level")

// Requirement gates a candidate branch: the learner must have solved the
// previous level in under TimeLimit and know Skill.
type Requirement struct {
	TimeLimit time.Duration
	Skill     string
}

// Candidate is one branch of a fork together with its entry requirement.
// A nil Requirement marks the unconditional default anyone can take.
type Candidate struct {
	Name         string
	Requirements *Requirement
}

// Table holds the fork candidates per level, in the order the scenario
// author listed them. Order is significant: see Resolve.
type Table map[int][]Candidate

// Resolve picks a branch for the learner from candidates, given their
// solving time for the current level and the skills they reported knowing.
//
// The scan is a fold with last-match-wins semantics: a default candidate is
// always recorded as the current choice, and a conditioned candidate
// overwrites it when elapsed is under its time limit and its skill is known.
// Later list entries therefore take priority over earlier ones, which is how
// scenario authors rank harder branches below the default.
func Resolve(candidates []Candidate, elapsed time.Duration, known map[string]bool) (string, error) {
	if len(candidates) == 1 {
		return candidates[0].Name, nil
	}

	chosen := ""
	for _, c := range candidates {
		switch {
		case c.Requirements == nil:
			chosen = c.Name
		case elapsed < c.Requirements.TimeLimit && known[c.Requirements.Skill]:
			chosen = c.Name
		}
	}
	if chosen == "" {
		return "", ErrNoEligibleBranch
	}
	return chosen, nil
}
