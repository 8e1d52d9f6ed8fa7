package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"studyflow/internal/cache"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local cache contents",
	Long:  `Display a summary of the local cache: location, size, and counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		info, err := os.Stat(cfg.CachePath)
		if os.IsNotExist(err) {
			fmt.Println("Local cache not initialized")
			fmt.Println("Run 'studyflow-sync sync' to create it")
			return nil
		}
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		store, err := cache.Open(cfg.CachePath, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		decks := store.Decks()
		cards := 0
		for _, d := range decks {
			cards += len(d.Cards)
		}

		fmt.Printf("Cache:    %s (%d bytes)\n", cfg.CachePath, info.Size())
		fmt.Printf("Folders:  %d\n", len(store.Folders()))
		fmt.Printf("Decks:    %d\n", len(decks))
		fmt.Printf("Cards:    %d\n", cards)
		fmt.Printf("Sessions: %d\n", len(store.StudySessions()))
		return nil
	},
}
