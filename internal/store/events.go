package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Game event kinds.
const (
	KindStart   = "start"
	KindAdvance = "advance"
	KindFinish  = "finish"
	KindAbort   = "abort"
)

// GameEvent is one lifecycle transition of a run.
type GameEvent struct {
	RunID     string
	Kind      string
	LevelName string
	LoadTime  time.Duration
	SolveTime time.Duration
}

// HintEvent records a hint revealed during a run.
type HintEvent struct {
	RunID     string
	LevelName string
	HintName  string
}

// FlagEvent records a flag submission, right or wrong.
type FlagEvent struct {
	RunID     string
	Level     int
	Submitted string
	Correct   bool
}

// RunSummary aggregates one run's events for the stats command.
type RunSummary struct {
	RunID      string
	Levels     int
	Finished   bool
	Aborted    bool
	TotalLoad  time.Duration
	TotalSolve time.Duration
	Hints      int
	WrongFlags int
	StartedAt  time.Time
}

// EventRepo appends run events and reads them back in aggregate.
type EventRepo interface {
	AppendGameEvent(ctx context.Context, ev GameEvent) error
	AppendHintEvent(ctx context.Context, ev HintEvent) error
	AppendFlagEvent(ctx context.Context, ev FlagEvent) error
	RunSummaries(ctx context.Context) ([]RunSummary, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendGameEvent(ctx context.Context, ev GameEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_events (run_id, kind, level_name, load_secs, solve_secs)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.RunID, ev.Kind, ev.LevelName,
		int64(ev.LoadTime/time.Second), int64(ev.SolveTime/time.Second))
	if err != nil {
		return fmt.Errorf("append game event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendHintEvent(ctx context.Context, ev HintEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hint_events (run_id, level_name, hint_name) VALUES (?, ?, ?)`,
		ev.RunID, ev.LevelName, ev.HintName)
	if err != nil {
		return fmt.Errorf("append hint event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendFlagEvent(ctx context.Context, ev FlagEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flag_events (run_id, level, submitted, correct) VALUES (?, ?, ?, ?)`,
		ev.RunID, ev.Level, ev.Submitted, ev.Correct)
	if err != nil {
		return fmt.Errorf("append flag event: %w", err)
	}
	return nil
}

// RunSummaries folds the event tables into one row per run, newest first.
func (r *eventRepo) RunSummaries(ctx context.Context) ([]RunSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.run_id,
		       SUM(CASE WHEN g.kind IN (?, ?) THEN 1 ELSE 0 END) AS levels,
		       MAX(CASE WHEN g.kind = ? THEN 1 ELSE 0 END) AS finished,
		       MAX(CASE WHEN g.kind = ? THEN 1 ELSE 0 END) AS aborted,
		       SUM(g.load_secs) AS total_load,
		       SUM(g.solve_secs) AS total_solve,
		       (SELECT COUNT(*) FROM hint_events h WHERE h.run_id = g.run_id) AS hints,
		       (SELECT COUNT(*) FROM flag_events f WHERE f.run_id = g.run_id AND f.correct = 0) AS wrong_flags,
		       MIN(g.created_at) AS started_at
		FROM game_events g
		GROUP BY g.run_id
		ORDER BY started_at DESC`,
		KindStart, KindAdvance, KindFinish, KindAbort)
	if err != nil {
		return nil, fmt.Errorf("query run summaries: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s          RunSummary
			load, slv  int64
			fin, abort int
			started    string
		)
		if err := rows.Scan(&s.RunID, &s.Levels, &fin, &abort, &load, &slv,
			&s.Hints, &s.WrongFlags, &started); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		s.Finished = fin == 1
		s.Aborted = abort == 1
		s.TotalLoad = time.Duration(load) * time.Second
		s.TotalSolve = time.Duration(slv) * time.Second
		// SQLite stores CURRENT_TIMESTAMP as UTC text; the aggregate
		// comes back as a plain string.
		if t, err := time.Parse("2006-01-02 15:04:05", started); err == nil {
			s.StartedAt = t.UTC()
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run summaries: %w", err)
	}
	return out, nil
}
