package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/scaffold"
)

var (
	initAddr  string
	initTurbo bool
)

var initCmd = &cobra.Command{
	Use:   "init [patterns...]",
	Short: "Generate a starter project in the current directory",
	Long: `Generate turbo-reload.yaml and a minimal page to serve.

Existing files are never overwritten.`,
	Example: `  turbo-reload init "templates/**/*.html" "assets/*.css"
  turbo-reload init --turbo "app/views/**/*.erb"`,
	RunE: func(_ *cobra.Command, args []string) error {
		workdir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		patterns := args
		if len(patterns) == 0 {
			patterns = []string{"templates/**/*.html", "assets/*.css"}
		}

		info := scaffold.Info{Patterns: patterns, Addr: initAddr, Turbo: initTurbo}
		if errs := scaffold.Project(workdir, info); len(errs) > 0 {
			for _, e := range errs {
				log.Error("%v", e)
			}
			return fmt.Errorf("project generation finished with %d error(s)", len(errs))
		}

		log.Info("Project initialized in %s", workdir)
		log.InfoH2("Config: %s", filepath.Join(workdir, ConfigFileName))
		log.InfoH2("Run 'turbo-reload serve' to start")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initAddr, "addr", ":5173", "Listen address written to the generated config")
	initCmd.Flags().BoolVar(&initTurbo, "turbo", false, "Enable turbo mode in the generated config")

	rootCmd.AddCommand(initCmd)
}
