package daemon

import (
	"fmt"
	"os"

	godaemon "github.com/sevlyar/go-daemon"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
)

// Run forks the current process into the background and calls work in the
// child. The parent returns nil immediately after a successful fork; the
// child writes its pid file, runs work, and never returns to the caller.
func Run(pidFile, logFile string, work func() error) error {
	ctx := &godaemon.Context{
		PidFileName: pidFile,
		PidFilePerm: 0644,
		LogFileName: logFile,
		LogFilePerm: 0640,
		WorkDir:     "./",
		Umask:       027,
	}

	if godaemon.WasReborn() {
		pid := os.Getpid()
		log.Info("Reload watcher daemon started (PID: %d)", pid)
		log.Info("PID file: %s", pidFile)
		log.Info("Log file: %s", logFile)

		if err := WritePIDFile(pidFile, pid); err != nil {
			log.Error("Failed to write PID file: %v", err)
			return err
		}
		return work()
	}

	child, err := ctx.Reborn()
	if err != nil {
		return fmt.Errorf("failed to fork daemon: %w", err)
	}
	if child != nil {
		log.Info("Reload watcher daemon started")
		log.Info("PID: %d (saved to %s)", child.Pid, pidFile)
		log.Info("Logs: %s", logFile)
		return nil
	}

	return fmt.Errorf("unexpected daemon state")
}
