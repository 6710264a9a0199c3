package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gauntlet/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the scenario files",
	RunE: func(cmd *cobra.Command, args []string) error {
		scenarioDir, _ := cmd.Flags().GetString("scenario")
		bundle, err := config.Load(scenarioDir)
		if err != nil {
			return err
		}
		fmt.Printf("scenario ok: %d levels, %d flags, %d tools\n",
			bundle.Graph.MaxLevel(), len(bundle.Flags), len(bundle.Tools))
		return nil
	},
}
