package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"studyflow/internal/cache"
	"studyflow/internal/config"
	syncengine "studyflow/internal/sync"
)

const maxLogFiles = 10

var verbose bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync cycle against the cloud backend",
	Long: `Run one full sync cycle:

  1. Ensures the account exists on the server
  2. Probes the cloud snapshot
  3. Downloads it (cloud wins) or uploads the local cache (cloud empty)

A failed sync leaves the local cache untouched; rerun to try again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}

		var logOut io.Writer = os.Stderr
		if cfg.LogDir != "" {
			logFile, err := config.SetupLogFile(cfg.LogDir, maxLogFiles)
			if err != nil {
				return err
			}
			defer logFile.Close()
			logOut = io.MultiWriter(os.Stderr, logFile)
		}
		logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel}))

		store, err := cache.Open(cfg.CachePath, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		client := syncengine.NewClient(cfg.ServerURL, cfg.tokenSource(), logger)
		coordinator := syncengine.NewCoordinator(client, store, logger)

		state := coordinator.Sync(cmd.Context())
		if state != syncengine.StateDone {
			return fmt.Errorf("sync ended in state %s", state)
		}

		fmt.Println("Sync complete")
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
