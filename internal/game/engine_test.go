package game

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/abhisek/gauntlet/internal/branch"
	"github.com/abhisek/gauntlet/internal/levelgraph"
	"github.com/abhisek/gauntlet/internal/provision"
)

func testGraph(t *testing.T) *levelgraph.Graph {
	t.Helper()
	g, err := levelgraph.New(map[int][]levelgraph.Branch{
		1: {{Name: "level1", Boxes: []string{"attacker"}}},
		2: {{Name: "level2", Boxes: []string{"attacker", "web"}}},
		3: {
			{Name: "level3a", Boxes: []string{"web"}},
			{Name: "level3b", Boxes: []string{"web", "db"}},
		},
	})
	if err != nil {
		t.Fatalf("levelgraph.New: %v", err)
	}
	return g
}

// fakeClock returns a now func that advances by step on every call.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func newTestEngine(t *testing.T) (*Engine, *provision.Recorder) {
	t.Helper()
	rec := &provision.Recorder{UpDuration: 3 * time.Second}
	e := New(testGraph(t), rec)
	e.now = fakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), time.Minute)
	return e, rec
}

func TestStartExactlyOnce(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()

	started, err := e.Start(ctx)
	if err != nil || !started {
		t.Fatalf("Start = %v, %v; want true, nil", started, err)
	}
	if e.State() != InProgress || e.Level() != 1 {
		t.Errorf("after Start: state=%v level=%d", e.State(), e.Level())
	}
	if len(rec.Ups) != 1 || rec.Ups[0].Tag != "setup" || rec.Ups[0].Boxes != nil {
		t.Errorf("setup provisioning call = %+v", rec.Ups)
	}
	gameStart := e.GameStart()

	started, err = e.Start(ctx)
	if err != nil || started {
		t.Fatalf("second Start = %v, %v; want false, nil", started, err)
	}
	if len(rec.Ups) != 1 {
		t.Error("second Start must not provision")
	}
	if !e.GameStart().Equal(gameStart) {
		t.Error("second Start must not restamp timestamps")
	}
}

func TestAdvanceSequence(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Advance(ctx, ""); err != nil {
		t.Fatalf("Advance to 2: %v", err)
	}
	if e.Level() != 2 || e.Branch() != "" {
		t.Errorf("level=%d branch=%q, want 2, \"\"", e.Level(), e.Branch())
	}

	if err := e.Advance(ctx, "b"); err != nil {
		t.Fatalf("Advance to 3b: %v", err)
	}
	if e.Level() != 3 || e.Branch() != "b" {
		t.Errorf("level=%d branch=%q, want 3, \"b\"", e.Level(), e.Branch())
	}

	wantLog := []string{"level1", "level2", "level3b"}
	if !slices.Equal(e.LevelLog(), wantLog) {
		t.Errorf("LevelLog = %v, want %v", e.LevelLog(), wantLog)
	}
	if len(e.LoadTimes()) != 3 {
		t.Errorf("LoadTimes len = %d, want 3", len(e.LoadTimes()))
	}
	// Final level's solving time is only appended on Finish.
	if len(e.SolvingTimes()) != 2 {
		t.Errorf("SolvingTimes len = %d, want 2", len(e.SolvingTimes()))
	}

	last := rec.Ups[len(rec.Ups)-1]
	if last.Tag != "level3b" || !slices.Equal(last.Boxes, []string{"web", "db"}) {
		t.Errorf("level3b provisioning call = %+v", last)
	}
}

func TestAdvanceValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	if err := e.Advance(ctx, ""); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Advance before start: %v, want ErrNotStarted", err)
	}

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	// Level 2 is unforked: a token is an error and must not mutate state.
	if err := e.Advance(ctx, "a"); !errors.Is(err, ErrUnexpectedBranch) {
		t.Errorf("Advance with stray token: %v, want ErrUnexpectedBranch", err)
	}
	if e.Level() != 1 || len(e.SolvingTimes()) != 0 {
		t.Error("failed Advance mutated state")
	}

	if err := e.Advance(ctx, ""); err != nil {
		t.Fatal(err)
	}

	// Level 3 forks: an unknown token fails with NotFoundError.
	var nf *branch.NotFoundError
	if err := e.Advance(ctx, "z"); !errors.As(err, &nf) {
		t.Errorf("Advance with bad token: %v, want branch.NotFoundError", err)
	}
	if e.Level() != 2 {
		t.Error("failed fork Advance mutated state")
	}

	if err := e.Advance(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := e.Advance(ctx, ""); !errors.Is(err, ErrNoNextLevel) {
		t.Errorf("Advance past last level: %v, want ErrNoNextLevel", err)
	}
}

func TestMonotonicAdvancement(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	tokens := []string{"", "a"}
	for i, tok := range tokens {
		if err := e.Advance(ctx, tok); err != nil {
			t.Fatal(err)
		}
		if e.Level() != i+2 {
			t.Fatalf("level = %d after advance %d", e.Level(), i+1)
		}
		if len(e.LevelLog()) != e.Level() {
			t.Fatalf("len(LevelLog) = %d, level = %d", len(e.LevelLog()), e.Level())
		}
	}
}

func TestProvisioningFailureNotRolledBack(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("virtualbox exploded")
	rec.UpErr = boom
	err := e.Advance(ctx, "")
	if !errors.Is(err, boom) {
		t.Fatalf("Advance err = %v, want the provisioning error", err)
	}

	// The engine already advanced: documented asymmetry.
	if e.Level() != 2 {
		t.Errorf("level = %d, want 2 (not rolled back)", e.Level())
	}
	if !slices.Contains(e.LevelLog(), "level2") {
		t.Error("level log missing entry for failed level")
	}
	// No load time was recorded for the failed phase.
	if len(e.LoadTimes()) != 1 {
		t.Errorf("LoadTimes len = %d, want 1", len(e.LoadTimes()))
	}
}

func TestFinishGating(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	if e.Finish() {
		t.Error("Finish before start succeeded")
	}

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if e.Finish() {
		t.Error("Finish on non-terminal level succeeded")
	}
	if e.State() != InProgress || len(e.SolvingTimes()) != 0 || !e.GameEnd().IsZero() {
		t.Error("ineligible Finish mutated state")
	}

	if err := e.Advance(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.Advance(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if !e.Finish() {
		t.Fatal("Finish on terminal level failed")
	}
	if e.State() != Finished {
		t.Errorf("state = %v, want Finished", e.State())
	}
	if len(e.SolvingTimes()) != len(e.LoadTimes()) {
		t.Errorf("after finish: %d solving vs %d load times",
			len(e.SolvingTimes()), len(e.LoadTimes()))
	}
	if e.GameEnd().IsZero() {
		t.Error("GameEnd not stamped")
	}

	if e.Finish() {
		t.Error("Finish after finish succeeded")
	}
}

func TestAbortIdempotent(t *testing.T) {
	e, rec := newTestEngine(t)
	ctx := context.Background()

	check := func(stage string) {
		t.Helper()
		if e.State() != NotStarted || e.Level() != 0 || e.Branch() != "" {
			t.Errorf("%s: state=%v level=%d branch=%q", stage, e.State(), e.Level(), e.Branch())
		}
		if len(e.LevelLog()) != 0 || len(e.LoadTimes()) != 0 || len(e.SolvingTimes()) != 0 {
			t.Errorf("%s: logs not cleared", stage)
		}
	}

	if err := e.Abort(ctx); err != nil {
		t.Fatal(err)
	}
	check("abort from not-started")

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Advance(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.Abort(ctx); err != nil {
		t.Fatal(err)
	}
	check("abort from in-progress")

	if rec.TearDowns != 2 {
		t.Errorf("TearDowns = %d, want 2 (unconditional)", rec.TearDowns)
	}

	// The engine is re-enterable after an abort.
	started, err := e.Start(ctx)
	if err != nil || !started {
		t.Fatalf("Start after abort = %v, %v", started, err)
	}
}

func TestAbortResetsEvenWhenTearDownFails(t *testing.T) {
	e, rec := newTestEngine(t)
	rec.DownErr = errors.New("destroy failed")
	ctx := context.Background()

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Abort(ctx); err == nil {
		t.Error("Abort swallowed the teardown error")
	}
	if e.State() != NotStarted || e.Level() != 0 {
		t.Error("Abort with failing teardown did not reset")
	}
}

func TestSummary(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	s := e.Summary()
	if s.Lifecycle != NotStarted || s.Elapsed != 0 {
		t.Errorf("pre-start summary = %+v", s)
	}

	if _, err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Advance(ctx, ""); err != nil {
		t.Fatal(err)
	}

	s = e.Summary()
	if s.Lifecycle != InProgress || s.Level != 2 {
		t.Errorf("summary = %+v", s)
	}
	if s.Elapsed <= 0 {
		t.Error("in-progress summary has no elapsed time")
	}
	if len(s.LevelLog) != len(s.LoadTimes) {
		t.Errorf("%d levels vs %d load times", len(s.LevelLog), len(s.LoadTimes))
	}
	if s.TotalLevels != 3 {
		t.Errorf("TotalLevels = %d, want 3", s.TotalLevels)
	}

	if err := e.Advance(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if !e.Finish() {
		t.Fatal("Finish failed")
	}
	fin := e.Summary()
	if fin.Lifecycle != Finished || fin.Elapsed <= 0 {
		t.Errorf("finished summary = %+v", fin)
	}
}

func TestResume(t *testing.T) {
	e, _ := newTestEngine(t)

	r := Resumed{
		RunID:        "run-1",
		Lifecycle:    InProgress,
		Level:        2,
		Branch:       "",
		LevelLog:     []string{"level1", "level2"},
		LoadTimes:    []time.Duration{5 * time.Second, 3 * time.Second},
		SolvingTimes: []time.Duration{90 * time.Second},
		GameStart:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		LevelStart:   time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC),
	}
	e.Resume(r)

	if e.RunID() != "run-1" || e.Level() != 2 || e.State() != InProgress {
		t.Errorf("after resume: id=%s level=%d state=%v", e.RunID(), e.Level(), e.State())
	}

	// Resume on a running engine is ignored.
	e.Resume(Resumed{Level: 9})
	if e.Level() != 2 {
		t.Error("Resume overwrote a running game")
	}
}
