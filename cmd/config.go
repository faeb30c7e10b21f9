package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/reload"
)

// ConfigFileName is the project-local configuration file.
const ConfigFileName = "turbo-reload.yaml"

// Default locations under the project root, mirroring where the watcher
// keeps its runtime files.
const (
	defaultPidFile     = ".turbo-reload/watcher.pid"
	defaultLogFile     = ".turbo-reload/watcher.log"
	defaultHistoryFile = ".turbo-reload/history.db"
)

// fileConfig is the on-disk configuration surface. Patterns accept a
// single string or a list; unrecognized keys are ignored.
type fileConfig struct {
	Patterns reload.PatternList `yaml:"patterns"`
	Options  reload.Options     `yaml:",inline"`
	Addr     string             `yaml:"addr"`
	History  *bool              `yaml:"history"`
}

// loadFileConfig reads path. A missing file is not an error; the zero
// config is returned so flags and defaults take over.
func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path comes from the CLI
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
