package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved run (and optionally the run history)",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}

		snapPath, _ := cmd.Flags().GetString("snapshot")
		if snapPath == "" {
			snapPath = filepath.Join(filepath.Dir(dbPath), "run.yml")
		}

		if err := removeIfExists(snapPath, "saved run"); err != nil {
			return err
		}

		if all, _ := cmd.Flags().GetBool("all"); all {
			if err := removeIfExists(dbPath, "run history"); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Also delete the run history database")
}

func removeIfExists(path, what string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s to delete.\n", what)
			return nil
		}
		return err
	}
	fmt.Printf("Deleted %s (%s).\n", what, path)
	return nil
}
