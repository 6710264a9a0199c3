package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gauntlet/internal/preflight"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that vagrant and VirtualBox are usable",
	RunE: func(cmd *cobra.Command, args []string) error {
		results := preflight.Check(cmd.Context())
		failed := false
		for _, r := range results {
			mark := "ok"
			if !r.OK {
				mark = "FAIL"
				failed = true
			}
			fmt.Printf("%-12s %-5s %s\n", r.Tool, mark, r.Detail)
		}
		if failed {
			return fmt.Errorf("environment check failed")
		}
		return nil
	},
}
