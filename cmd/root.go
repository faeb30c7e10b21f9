// Package cmd provides the command-line interface for turbo-reload
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "turbo-reload",
	Short: "Live-reload dev server for file-watched frontends",
	Long: `turbo-reload - development server with watch-triggered browser reloads

Watches a set of glob patterns and tells connected browser clients to
reload whenever a matching file is added or changed. With turbo mode the
page is refreshed in place through the Hotwire Turbo runtime instead of a
full reload.`,
	Example: `  # Serve the current directory, reload on template changes
  turbo-reload serve "templates/**/*.html"

  # Reload in place through Turbo, after a 200ms delay
  turbo-reload serve --turbo --delay 200 "app/views/**/*.erb"

  # Run the watcher in the background
  turbo-reload watch start "assets/**/*.css"

  # Inspect what it pushed recently
  turbo-reload history`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
