// Package snapshot persists a point-in-time dump of a run — engine state,
// taken hints, wrong flag guesses — as a YAML file, and reconstructs the
// engine side of it. The engine itself owns no file format; this package
// only reads its accessors.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/gauntlet/internal/flags"
	"github.com/abhisek/gauntlet/internal/game"
	"github.com/abhisek/gauntlet/internal/hints"
)

// Snapshot is the serialized form of a run. Durations are stored as whole
// seconds to keep the files hand-readable.
type Snapshot struct {
	SavedAt   time.Time `yaml:"saved_at"`
	RunID     string    `yaml:"run_id"`
	Lifecycle string    `yaml:"lifecycle"`

	Level  int    `yaml:"level"`
	Branch string `yaml:"branch,omitempty"`

	LevelLog     []string `yaml:"level_log,omitempty"`
	LoadTimes    []int64  `yaml:"load_times_secs,omitempty"`
	SolvingTimes []int64  `yaml:"solving_times_secs,omitempty"`

	GameStart  time.Time `yaml:"game_start,omitempty"`
	LevelStart time.Time `yaml:"level_start,omitempty"`
	GameEnd    time.Time `yaml:"game_end,omitempty"`

	HintsTaken map[string][]string `yaml:"hints_taken,omitempty"`
	TotalHints int                 `yaml:"total_hints"`

	WrongFlags map[int][]string `yaml:"wrong_flags,omitempty"`
}

// Capture builds a Snapshot from the live components.
func Capture(e *game.Engine, ledger *hints.Ledger, checker *flags.Checker) Snapshot {
	return Snapshot{
		SavedAt:      time.Now(),
		RunID:        e.RunID(),
		Lifecycle:    e.State().String(),
		Level:        e.Level(),
		Branch:       e.Branch(),
		LevelLog:     e.LevelLog(),
		LoadTimes:    toSeconds(e.LoadTimes()),
		SolvingTimes: toSeconds(e.SolvingTimes()),
		GameStart:    e.GameStart(),
		LevelStart:   e.LevelStart(),
		GameEnd:      e.GameEnd(),
		HintsTaken:   ledger.TakenAll(),
		TotalHints:   ledger.TotalTaken(),
		WrongFlags:   checker.AllWrongGuesses(),
	}
}

// Resumed converts the snapshot back into the engine's restore form.
func (s Snapshot) Resumed() game.Resumed {
	return game.Resumed{
		RunID:        s.RunID,
		Lifecycle:    parseLifecycle(s.Lifecycle),
		Level:        s.Level,
		Branch:       s.Branch,
		LevelLog:     s.LevelLog,
		LoadTimes:    toDurations(s.LoadTimes),
		SolvingTimes: toDurations(s.SolvingTimes),
		GameStart:    s.GameStart,
		LevelStart:   s.LevelStart,
		GameEnd:      s.GameEnd,
	}
}

// Save writes the snapshot to path, creating parent directories as needed.
func Save(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return s, nil
}

func toSeconds(ds []time.Duration) []int64 {
	if len(ds) == 0 {
		return nil
	}
	out := make([]int64, len(ds))
	for i, d := range ds {
		out[i] = int64(d / time.Second)
	}
	return out
}

func toDurations(secs []int64) []time.Duration {
	if len(secs) == 0 {
		return nil
	}
	out := make([]time.Duration, len(secs))
	for i, s := range secs {
		out[i] = time.Duration(s) * time.Second
	}
	return out
}

func parseLifecycle(s string) game.Lifecycle {
	switch s {
	case game.InProgress.String():
		return game.InProgress
	case game.Finished.String():
		return game.Finished
	default:
		return game.NotStarted
	}
}
