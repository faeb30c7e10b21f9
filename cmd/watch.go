package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/daemon"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
)

var (
	watchForeground bool
	watchPidFile    string
	watchLogFile    string
	watchStatusJSON bool
	watchLogLines   int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage the background reload watcher",
	Long: `Manage the reload watcher as a background daemon.

The daemon runs the same dev server as 'serve' but detached from the
terminal, with its pid and log files under .turbo-reload/ in the project
root.`,
}

var watchStartCmd = &cobra.Command{
	Use:   "start [patterns...]",
	Short: "Start the reload watcher",
	Example: `  # Watch templates in the background
  turbo-reload watch start "templates/**/*.html"

  # Stay in the foreground (useful under a process supervisor)
  turbo-reload watch start --foreground "assets/*.css"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchForeground {
			return runWatcher(cmd, args)
		}

		pidFile, logFile, err := watchRuntimeFiles()
		if err != nil {
			return err
		}
		if status := daemon.GetStatus(pidFile); status.Running {
			return fmt.Errorf("watcher is already running (PID %d)", status.PID)
		}
		return daemon.Run(pidFile, logFile, func() error {
			return runWatcher(cmd, args)
		})
	},
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the reload watcher",
	RunE: func(_ *cobra.Command, _ []string) error {
		pidFile, _, err := watchRuntimeFiles()
		if err != nil {
			return err
		}
		return daemon.Stop(pidFile)
	},
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the reload watcher is running",
	RunE: func(_ *cobra.Command, _ []string) error {
		pidFile, logFile, err := watchRuntimeFiles()
		if err != nil {
			return err
		}

		status := daemon.GetStatus(pidFile)
		if watchStatusJSON {
			data, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if status.Running {
			log.Info("Watcher is running (PID: %d)", status.PID)
			daemon.ShowRecentLogs(logFile, 5)
		} else {
			log.Info("Watcher is not running: %s", status.Message)
		}
		return nil
	},
}

var watchLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Follow the reload watcher log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, logFile, err := watchRuntimeFiles()
		if err != nil {
			return err
		}

		if follow, _ := cmd.Flags().GetBool("follow"); follow {
			return daemon.FollowLogs(logFile)
		}
		daemon.ShowRecentLogs(logFile, watchLogLines)
		return nil
	},
}

// runWatcher is the daemon work function: the same server loop as serve.
func runWatcher(cmd *cobra.Command, args []string) error {
	srv, cleanup, err := buildServer(cmd, args)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// watchRuntimeFiles resolves the pid and log file locations, honoring
// flag overrides, and makes sure their directory exists.
func watchRuntimeFiles() (pidFile, logFile string, err error) {
	workdir, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get working directory: %w", err)
	}

	pidFile = watchPidFile
	if pidFile == "" {
		pidFile = filepath.Join(workdir, defaultPidFile)
	}
	logFile = watchLogFile
	if logFile == "" {
		logFile = filepath.Join(workdir, defaultLogFile)
	}

	for _, f := range []string{pidFile, logFile} {
		if err := os.MkdirAll(filepath.Dir(f), 0750); err != nil {
			return "", "", fmt.Errorf("failed to create runtime directory: %w", err)
		}
	}
	return pidFile, logFile, nil
}

func init() {
	addServeFlags(watchStartCmd)
	watchStartCmd.Flags().BoolVar(&watchForeground, "foreground", false, "Run in the foreground instead of daemonizing")

	watchCmd.PersistentFlags().StringVar(&watchPidFile, "pid-file", "", "PID file path (default <cwd>/"+defaultPidFile+")")
	watchCmd.PersistentFlags().StringVar(&watchLogFile, "log-file", "", "Log file path (default <cwd>/"+defaultLogFile+")")

	watchStatusCmd.Flags().BoolVar(&watchStatusJSON, "json", false, "Print status as JSON")

	watchLogsCmd.Flags().BoolP("follow", "f", false, "Keep following the log")
	watchLogsCmd.Flags().IntVar(&watchLogLines, "lines", 20, "Number of recent lines to show")

	watchCmd.AddCommand(watchStartCmd)
	watchCmd.AddCommand(watchStopCmd)
	watchCmd.AddCommand(watchStatusCmd)
	watchCmd.AddCommand(watchLogsCmd)
	rootCmd.AddCommand(watchCmd)
}
