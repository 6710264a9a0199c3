package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gauntlet/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show past runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		summaries, err := st.EventRepo().RunSummaries(cmd.Context())
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		fmt.Printf("%-36s %-19s %7s %8s %6s %6s %7s\n",
			"RUN", "STARTED", "LEVELS", "OUTCOME", "SOLVE", "HINTS", "MISSES")
		for _, s := range summaries {
			outcome := "open"
			switch {
			case s.Finished:
				outcome = "done"
			case s.Aborted:
				outcome = "aborted"
			}
			fmt.Printf("%-36s %-19s %7d %8s %6s %6d %7d\n",
				s.RunID, s.StartedAt.Format("2006-01-02 15:04:05"),
				s.Levels, outcome, s.TotalSolve, s.Hints, s.WrongFlags)
		}
		return nil
	},
}
