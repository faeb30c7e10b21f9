package daemon

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tail "github.com/hpcloud/tail"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
)

// ShowRecentLogs prints the last few lines of the daemon log when the
// file exists.
func ShowRecentLogs(logFile string, lines int) {
	data, err := os.ReadFile(logFile) //nolint:gosec // G304: log path comes from configuration
	if err != nil {
		return
	}

	all := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(all) > lines {
		all = all[len(all)-lines:]
	}

	log.Info("Recent activity (last %d lines):", len(all))
	for _, line := range all {
		if strings.TrimSpace(line) != "" {
			log.InfoH2("%s", strings.TrimSpace(line))
		}
	}
}

// FollowLogs follows the daemon log file until interrupted, surviving
// rotations.
func FollowLogs(logFile string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	t, err := tail.TailFile(logFile, tail.Config{
		ReOpen:    true,
		Follow:    true,
		MustExist: false,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		return fmt.Errorf("failed to tail log file: %w", err)
	}
	defer t.Cleanup()

	ShowRecentLogs(logFile, 5)
	fmt.Println()

	for {
		select {
		case <-sigChan:
			fmt.Println()
			log.Info("Log following stopped")
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return fmt.Errorf("log tail channel closed")
			}
			if line == nil || strings.TrimSpace(line.Text) == "" {
				continue
			}
			fmt.Println(line.Text)
		}
	}
}
