package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/history"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
)

var (
	historyLimit int
	historyJSON  bool
	historyFile  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently pushed reloads",
	Long: `Show reload events recorded by a server running with --history,
newest first.`,
	Example: `  turbo-reload history
  turbo-reload history --limit 50 --json`,
	RunE: func(_ *cobra.Command, _ []string) error {
		dbPath := historyFile
		if dbPath == "" {
			workdir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			dbPath = filepath.Join(workdir, defaultHistoryFile)
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("no reload history at %s (run the server with --history first)", dbPath)
		}

		db := history.New(dbPath, true)
		if err := db.Init(); err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close history database: %v", err)
			}
		}()

		entries, err := db.Recent(historyLimit)
		if err != nil {
			return err
		}

		if historyJSON {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(entries) == 0 {
			log.Info("No reload events recorded yet")
			return nil
		}

		log.Info("Last %d reload events:", len(entries))
		for _, e := range entries {
			when := e.Timestamp.Local().Format("2006-01-02 15:04:05")
			if e.Event != "" {
				log.InfoH2("%s  %s (%s)", when, e.Kind, e.Event)
			} else {
				log.InfoH2("%s  %s %s", when, e.Kind, e.Path)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of events to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print events as JSON")
	historyCmd.Flags().StringVar(&historyFile, "file", "", "History database path (default <cwd>/"+defaultHistoryFile+")")

	rootCmd.AddCommand(historyCmd)
}
