// Package daemon provides background process management for the reload
// watcher: pid files, status checks, and log following.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WritePIDFile writes the PID to the specified file, creating the
// directory when needed.
func WritePIDFile(pidFile string, pid int) error {
	dir := filepath.Dir(pidFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create PID file directory: %w", err)
	}

	pidStr := fmt.Sprintf("%d\n", pid)
	if err := os.WriteFile(pidFile, []byte(pidStr), 0600); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// ReadPIDFromFile reads a PID integer from the given pid file. Returns
// os.ErrNotExist when the file does not exist, or a formatted error for
// empty or invalid content.
func ReadPIDFromFile(pidFile string) (int, error) {
	//nolint:gosec // G304: PID file path is constructed by application
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	if pidStr == "" {
		return 0, fmt.Errorf("PID file is empty")
	}
	var pid int
	if _, err := fmt.Sscanf(pidStr, "%d", &pid); err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	return pid, nil
}
