package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/history"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/reload"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/server"
)

var (
	serveAddr       string
	serveRoot       string
	serveConfigFile string
	serveAlways     bool
	serveDelay      int
	serveLog        bool
	serveTurbo      bool
	serveHistory    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [patterns...]",
	Short: "Run the dev server with watch-triggered reloads",
	Long: `Run the development server in the foreground.

Patterns come from the command line or from turbo-reload.yaml in the
project root. Flags override file values.`,
	Example: `  # Reload on any template or stylesheet change
  turbo-reload serve "templates/**/*.html" "assets/*.css"

  # Name the changed path instead of reloading everything
  turbo-reload serve --always=false "assets/*.css"

  # Refresh through the Turbo runtime
  turbo-reload serve --turbo "app/views/**/*.erb"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, cleanup, err := buildServer(cmd, args)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx)
	},
}

// buildServer assembles the dev server from flags, the config file, and
// positional pattern arguments. The returned cleanup closes the history
// database.
func buildServer(cmd *cobra.Command, args []string) (*server.Server, func(), error) {
	workdir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	root := workdir
	if serveRoot != "" {
		if filepath.IsAbs(serveRoot) {
			root = filepath.Clean(serveRoot)
		} else {
			root = filepath.Join(workdir, serveRoot)
		}
	}

	configPath := serveConfigFile
	if configPath == "" {
		configPath = filepath.Join(root, ConfigFileName)
	}
	fc, err := loadFileConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = fc.Patterns
	}
	if len(patterns) == 0 {
		return nil, nil, fmt.Errorf("no patterns given (pass them as arguments or set patterns in %s)", ConfigFileName)
	}

	opts := fc.Options
	if cmd.Flags().Changed("always") {
		opts.Always = &serveAlways
	}
	if cmd.Flags().Changed("delay") {
		opts.Delay = &serveDelay
	}
	if cmd.Flags().Changed("log") {
		opts.Log = &serveLog
	}
	if cmd.Flags().Changed("turbo") {
		opts.Turbo = &serveTurbo
	}

	addr := serveAddr
	if addr == "" {
		addr = fc.Addr
	}
	if addr == "" {
		addr = ":5173"
	}

	historyEnabled := serveHistory
	if !cmd.Flags().Changed("history") && fc.History != nil {
		historyEnabled = *fc.History
	}

	cfg := server.Config{
		Root: root,
		Addr: addr,
		// The test-runner flag is resolved once here, not deep in the
		// transform path.
		TestEnv: os.Getenv("VITEST") != "",
	}

	cleanup := func() {}
	if historyEnabled {
		db := history.New(filepath.Join(root, defaultHistoryFile), true)
		if err := db.Init(); err != nil {
			return nil, nil, err
		}
		cfg.History = db
		cleanup = func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close history database: %v", err)
			}
		}
	}

	plugin := reload.NewPlugin(patterns, opts, root)
	return server.New(cfg, plugin), cleanup, nil
}

// addServeFlags registers the dev-server flag set shared by serve and
// watch start.
func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :5173)")
	cmd.Flags().StringVar(&serveRoot, "root", "", "Project root (default current directory)")
	cmd.Flags().StringVar(&serveConfigFile, "config", "", "Config file path (default <root>/"+ConfigFileName+")")
	cmd.Flags().BoolVar(&serveAlways, "always", true, "Report '*' instead of the changed path in reload messages")
	cmd.Flags().IntVar(&serveDelay, "delay", 0, "Delay in milliseconds before sending the reload")
	cmd.Flags().BoolVar(&serveLog, "log", true, "Log a status line per triggered reload")
	cmd.Flags().BoolVar(&serveTurbo, "turbo", false, "Send turbo-refresh events instead of full reloads")
	cmd.Flags().BoolVar(&serveHistory, "history", false, "Record pushed reloads in a local SQLite database")
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
