package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/gauntlet/internal/app"
	"github.com/abhisek/gauntlet/internal/config"
	"github.com/abhisek/gauntlet/internal/logging"
	"github.com/abhisek/gauntlet/internal/provision"
	"github.com/abhisek/gauntlet/internal/store"
)

// runApp loads the scenario, opens the store, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	scenarioDir, _ := cmd.Flags().GetString("scenario")
	bundle, err := config.Load(scenarioDir)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	snapPath, _ := cmd.Flags().GetString("snapshot")
	if snapPath == "" {
		snapPath = filepath.Join(filepath.Dir(dbPath), "run.yml")
	}

	// Vagrant output cannot share the terminal with the TUI; it goes to
	// a log file next to the Vagrantfile.
	logPath := filepath.Join(scenarioDir, "vagrant.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open vagrant log: %w", err)
	}
	defer logFile.Close()

	logger := logging.NewFile(logFile, slog.LevelInfo)
	prov := provision.NewVagrant(scenarioDir, logFile, logger)

	return app.Run(app.Options{
		Bundle:       bundle,
		Provisioner:  prov,
		Events:       st.EventRepo(),
		SnapshotPath: snapPath,
	})
}
