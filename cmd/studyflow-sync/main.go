// studyflow-sync is the device-side sync agent: it runs one
// probe/download/upload cycle against the local cache, the same cycle
// the app runs on every load.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "studyflow-sync",
	Short: "StudyFlow device sync agent",
	Long: `Synchronize the local StudyFlow cache with the cloud backend.

The sync direction is decided by the server's data: if the cloud holds
any folders or decks it wins and overwrites the local cache; only an
empty cloud account receives the local data.`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to config file")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
