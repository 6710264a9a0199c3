package levelgraph

import (
	"fmt"
	"strings"
)

// MaxLevels is the highest level number a graph may contain. Branch token
// resolution assumes single-digit level numbers when stripping the
// "level<N>" prefix from learner input, so two-digit levels are rejected
// up front instead of misbehaving later.
const MaxLevels = 9

// validate checks the structural rules for a level mapping:
// level numbers are 1..N contiguous, every level has at least one branch,
// every branch name is "level"+number+suffix and unique within its level.
func validate(levels map[int][]Branch) error {
	if len(levels) == 0 {
		return fmt.Errorf("level graph is empty")
	}
	if len(levels) > MaxLevels {
		return fmt.Errorf("level graph has %d levels, maximum is %d", len(levels), MaxLevels)
	}

	for n := 1; n <= len(levels); n++ {
		branches, ok := levels[n]
		if !ok {
			return fmt.Errorf("level numbering is not contiguous: level %d missing", n)
		}
		if len(branches) == 0 {
			return fmt.Errorf("level %d has no branches", n)
		}

		prefix := fmt.Sprintf("level%d", n)
		seen := make(map[string]bool, len(branches))
		for _, b := range branches {
			if !strings.HasPrefix(b.Name, prefix) {
				return fmt.Errorf("branch %q of level %d must start with %q", b.Name, n, prefix)
			}
			if seen[b.Name] {
				return fmt.Errorf("level %d has duplicate branch %q", n, b.Name)
			}
			seen[b.Name] = true
		}
	}

	return nil
}
