package branch

import (
	"fmt"
	"slices"
)

// NotFoundError reports a learner-supplied token that matches no branch of
// the level being resolved.
type NotFoundError struct {
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no branch called %q found", e.Token)
}

// ResolveToken resolves a learner-supplied token against the branch names
// of level. The token may be a bare suffix, a number+suffix, or a full
// branch name: for level 4 with branches level4a/level4b, the tokens "a",
// "4a" and "level4a" all resolve to the suffix "a".
//
// The checks run most-specific-first so that a bare suffix is never shadowed
// by the longer forms. The positional stripping in the latter two cases
// assumes a single-digit level number; levelgraph.MaxLevels keeps that
// assumption valid.
func ResolveToken(level int, names []string, token string) (string, error) {
	if slices.Contains(names, fmt.Sprintf("level%d%s", level, token)) {
		return token, nil
	}
	if slices.Contains(names, "level"+token) {
		return token[1:], nil
	}
	if slices.Contains(names, token) {
		return token[6:], nil
	}
	return "", &NotFoundError{Token: token}
}
