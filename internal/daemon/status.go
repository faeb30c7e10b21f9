package daemon

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
)

// Status describes the daemon process behind a pid file.
type Status struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	PIDFile string `json:"pid_file"`
	Message string `json:"message"`
}

// GetStatus inspects the pid file and the process it names. A stale pid
// file is cleaned up on the way.
func GetStatus(pidFile string) Status {
	status := Status{PIDFile: pidFile}

	pid, err := ReadPIDFromFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			status.Message = "stopped (PID file not found)"
		} else {
			status.Message = err.Error()
		}
		return status
	}
	status.PID = pid

	process, err := os.FindProcess(pid)
	if err != nil {
		status.Message = fmt.Sprintf("failed to find process: %v", err)
		return status
	}

	// Signal 0 checks existence without touching the process
	if err := process.Signal(syscall.Signal(0)); err != nil {
		if removeErr := os.Remove(pidFile); removeErr != nil && !os.IsNotExist(removeErr) {
			status.Message = fmt.Sprintf("not running, failed to clean stale PID file: %v", removeErr)
		} else {
			status.Message = "not running (cleaned up stale PID file)"
		}
		return status
	}

	status.Running = true
	status.Message = "daemon is running"
	return status
}

// Stop terminates the daemon process: SIGTERM first, SIGKILL when it does
// not exit within the grace window, then pid file cleanup.
func Stop(pidFile string) error {
	pid, err := ReadPIDFromFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("daemon is not running (PID file not found)")
		}
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM to process %d: %w", pid, err)
	}

	time.Sleep(2 * time.Second)

	if err := process.Signal(syscall.Signal(0)); err == nil {
		log.Info("Process still running, sending SIGKILL...")
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process %d: %w", pid, err)
		}
	}

	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}

	log.Info("Reload watcher daemon stopped")
	return nil
}
