package cmd

import (
	"github.com/abhisek/gauntlet/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gauntlet",
	Short: "Adaptive security training game",
	Long:  "Gauntlet — terminal companion for VM-based security exercises: it provisions each level, adapts the path to the learner, hands out hints, and checks flags.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GAUNTLET_DB env var)")
	rootCmd.PersistentFlags().StringP("scenario", "s", ".", "Directory holding the scenario files and the Vagrantfile")
	rootCmd.PersistentFlags().String("snapshot", "", "Path of the saved-run file (defaults to the data directory)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then GAUNTLET_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
