package game

import (
	"slices"
	"time"
)

// Summary is a read-only report of the run, built by Engine.Summary for
// the info screen and for persistence.
type Summary struct {
	RunID     string
	Lifecycle Lifecycle
	Level     int
	Branch    string

	// Elapsed is the total run time: now minus game start while in
	// progress, end minus start when finished, zero before the first start.
	Elapsed time.Duration

	// LevelLog lists visited level names in order. LoadTimes parallels it;
	// the first entry includes the initial setup phase. SolvingTimes also
	// parallels it but lags one entry behind until the game finishes.
	LevelLog     []string
	LoadTimes    []time.Duration
	SolvingTimes []time.Duration

	TotalLevels int
}

// Summary reports the current run without mutating it.
func (e *Engine) Summary() Summary {
	var elapsed time.Duration
	switch e.lifecycle {
	case InProgress:
		elapsed = e.now().Sub(e.gameStart)
	case Finished:
		elapsed = e.gameEnd.Sub(e.gameStart)
	}

	return Summary{
		RunID:        e.runID,
		Lifecycle:    e.lifecycle,
		Level:        e.level,
		Branch:       e.branch,
		Elapsed:      elapsed,
		LevelLog:     slices.Clone(e.levelLog),
		LoadTimes:    slices.Clone(e.loadTimes),
		SolvingTimes: slices.Clone(e.solvingTimes),
		TotalLevels:  e.graph.MaxLevel(),
	}
}

// Accessors for the persistence collaborator. The engine owns no file
// format; a snapshot is a plain dump of these fields.

// RunID returns the identifier of the current run.
func (e *Engine) RunID() string { return e.runID }

// State returns the lifecycle state.
func (e *Engine) State() Lifecycle { return e.lifecycle }

// Level returns the current level number (0 before the first start).
func (e *Engine) Level() int { return e.level }

// Branch returns the current branch suffix ("" on unforked levels).
func (e *Engine) Branch() string { return e.branch }

// LevelLog returns the visited level names in order.
func (e *Engine) LevelLog() []string { return slices.Clone(e.levelLog) }

// LoadTimes returns the per-phase provisioning durations.
func (e *Engine) LoadTimes() []time.Duration { return slices.Clone(e.loadTimes) }

// SolvingTimes returns the per-level solving durations.
func (e *Engine) SolvingTimes() []time.Duration { return slices.Clone(e.solvingTimes) }

// GameStart returns when the run started (zero before the first start).
func (e *Engine) GameStart() time.Time { return e.gameStart }

// LevelStart returns when the current level's clock started.
func (e *Engine) LevelStart() time.Time { return e.levelStart }

// GameEnd returns when the run finished (zero until then).
func (e *Engine) GameEnd() time.Time { return e.gameEnd }

// LevelElapsed returns time spent on the current level so far.
func (e *Engine) LevelElapsed() time.Duration {
	if e.lifecycle != InProgress {
		return 0
	}
	return e.now().Sub(e.levelStart)
}

// NextExists reports whether the graph continues past the current level.
func (e *Engine) NextExists() bool { return e.graph.Exists(e.level + 1) }

// NextForked reports whether the next level forks.
func (e *Engine) NextForked() bool { return e.graph.IsForked(e.level + 1) }

// NextBranchNames returns the branch names of the next level.
func (e *Engine) NextBranchNames() []string { return e.graph.BranchNames(e.level + 1) }
