package watcher

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// shouldProcessEvent decides whether a raw fsnotify event is worth
// delivering. Only Create and Write map to add/change; editor temporary
// files are dropped because they cause reload loops.
func shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}

	filename := filepath.Base(event.Name)

	// Vim/Emacs swap and backup files
	if strings.HasSuffix(filename, ".swp") ||
		strings.HasSuffix(filename, ".swx") ||
		strings.HasSuffix(filename, ".tmp") ||
		strings.HasSuffix(filename, "~") {
		return false
	}
	if strings.HasPrefix(filename, ".#") {
		return false
	}

	// VSCode scratch files
	if strings.Contains(event.Name, ".vscode") {
		return false
	}

	return true
}

// shouldIgnoreDir skips hidden directories when walking watch targets.
func shouldIgnoreDir(path string) bool {
	dirName := filepath.Base(path)
	return strings.HasPrefix(dirName, ".") && dirName != "." && dirName != ".."
}
