package game

import "errors"

var (
	// ErrNotStarted is returned by operations that require a game in
	// progress when there is none (either never started or already
	// finished).
	ErrNotStarted = errors.New("game not in progress")

	// ErrNoNextLevel is returned by Advance when the level graph has no
	// successor to the current level.
	ErrNoNextLevel = errors.New("no next level found")

	// ErrUnexpectedBranch is returned by Advance when a branch token was
	// supplied but the next level does not fork.
	ErrUnexpectedBranch = errors.New("next level has no branch, but a branch was given")
)
