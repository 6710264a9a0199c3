// Package game holds the progression engine for one learner's run: the
// lifecycle state machine, the timing logs, and the advancement logic that
// walks the level graph and drives the provisioner.
package game

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gauntlet/internal/branch"
	"github.com/abhisek/gauntlet/internal/levelgraph"
	"github.com/abhisek/gauntlet/internal/provision"
)

// Lifecycle is the engine's coarse state.
type Lifecycle int

const (
	NotStarted Lifecycle = iota
	InProgress
	Finished
)

// String returns the lifecycle name for display and persistence.
func (l Lifecycle) String() string {
	switch l {
	case InProgress:
		return "in-progress"
	case Finished:
		return "finished"
	default:
		return "not-started"
	}
}

// Engine tracks one learner's run through the level graph. It is not safe
// for concurrent use: a single driving loop calls all methods sequentially,
// and every learner session gets its own Engine.
type Engine struct {
	graph *levelgraph.Graph
	prov  provision.Provisioner

	runID     string
	lifecycle Lifecycle
	level     int
	branch    string

	levelLog     []string
	loadTimes    []time.Duration
	solvingTimes []time.Duration

	gameStart  time.Time
	levelStart time.Time
	gameEnd    time.Time

	now func() time.Time
}

// New creates an Engine over an immutable level graph and a provisioner.
// The game is not started; call Start.
func New(graph *levelgraph.Graph, prov provision.Provisioner) *Engine {
	return &Engine{
		graph: graph,
		prov:  prov,
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

// Start begins a new run. It returns (false, nil) without doing anything if
// a game is already in progress or finished.
//
// The engine transitions to InProgress and logs level 1 before the
// provisioner is invoked, so a provisioning error leaves the run started
// with the setup load time missing; the caller retries provisioning or
// aborts (see Advance for the same asymmetry).
func (e *Engine) Start(ctx context.Context) (bool, error) {
	if e.lifecycle != NotStarted {
		return false, nil
	}

	e.lifecycle = InProgress
	e.level = 1
	e.branch = ""
	e.levelLog = append(e.levelLog, levelgraph.LevelName(1, ""))

	dur, err := e.prov.BringUp(ctx, nil, "setup")
	if err != nil {
		return true, err
	}
	e.loadTimes = append(e.loadTimes, dur)

	start := e.now()
	e.gameStart = start
	e.levelStart = start
	return true, nil
}

// Advance moves the run to the next level. When the next level forks,
// branchToken selects the branch (any of the forms branch.ResolveToken
// accepts); for an unforked next level the token must be empty.
//
// Validation errors (ErrNotStarted, ErrNoNextLevel, ErrUnexpectedBranch,
// branch.NotFoundError) are returned before any state changes. A
// provisioning error is returned verbatim after the level counter and logs
// have already advanced: the engine then believes it is on the new level
// even though its boxes never came up, and only a provisioning retry or
// Abort makes the state trustworthy again.
func (e *Engine) Advance(ctx context.Context, branchToken string) error {
	if e.lifecycle != InProgress {
		return ErrNotStarted
	}
	next := e.level + 1
	if !e.graph.Exists(next) {
		return ErrNoNextLevel
	}

	nextBranch := ""
	if e.graph.IsForked(next) {
		resolved, err := branch.ResolveToken(next, e.graph.BranchNames(next), branchToken)
		if err != nil {
			return err
		}
		nextBranch = resolved
	} else if branchToken != "" {
		return ErrUnexpectedBranch
	}

	e.solvingTimes = append(e.solvingTimes, e.now().Sub(e.levelStart))
	e.level = next
	e.branch = nextBranch

	levelName := levelgraph.LevelName(e.level, e.branch)
	e.levelLog = append(e.levelLog, levelName)

	boxes, err := e.graph.BoxesFor(e.level, levelName)
	if err != nil {
		return err
	}
	dur, err := e.prov.BringUp(ctx, boxes, levelName)
	if err != nil {
		return err
	}
	e.loadTimes = append(e.loadTimes, dur)
	e.levelStart = e.now()
	return nil
}

// Finish ends the run. It returns false without mutating anything unless
// the game is in progress and the learner is on the terminal level.
func (e *Engine) Finish() bool {
	if e.lifecycle != InProgress || e.graph.Exists(e.level+1) {
		return false
	}
	e.solvingTimes = append(e.solvingTimes, e.now().Sub(e.levelStart))
	e.gameEnd = e.now()
	e.lifecycle = Finished
	return true
}

// Abort destroys all provisioned machines and resets the engine to its
// initial state. It is allowed from any lifecycle state and is idempotent.
// The teardown error, if any, is returned after the reset has happened.
func (e *Engine) Abort(ctx context.Context) error {
	err := e.prov.TearDown(ctx)

	e.lifecycle = NotStarted
	e.level = 0
	e.branch = ""
	e.levelLog = nil
	e.loadTimes = nil
	e.solvingTimes = nil
	e.gameStart = time.Time{}
	e.levelStart = time.Time{}
	e.gameEnd = time.Time{}
	e.runID = uuid.NewString()
	return err
}

// Resumed carries a previously persisted run, field for field. The
// persistence collaborator fills it from the engine's accessors on save and
// hands it back on load.
type Resumed struct {
	RunID        string
	Lifecycle    Lifecycle
	Level        int
	Branch       string
	LevelLog     []string
	LoadTimes    []time.Duration
	SolvingTimes []time.Duration
	GameStart    time.Time
	LevelStart   time.Time
	GameEnd      time.Time
}

// Resume overwrites a not-started engine with a persisted run. It does
// nothing once a game is in progress.
func (e *Engine) Resume(r Resumed) {
	if e.lifecycle != NotStarted {
		return
	}
	if r.RunID != "" {
		e.runID = r.RunID
	}
	e.lifecycle = r.Lifecycle
	e.level = r.Level
	e.branch = r.Branch
	e.levelLog = slices.Clone(r.LevelLog)
	e.loadTimes = slices.Clone(r.LoadTimes)
	e.solvingTimes = slices.Clone(r.SolvingTimes)
	e.gameStart = r.GameStart
	e.levelStart = r.LevelStart
	e.gameEnd = r.GameEnd
}
