// Package reload decides when connected browser clients should reload.
//
// It binds a set of glob patterns to the dev server's file watcher and, on
// every add or change event for a matching path, pushes either a full-page
// reload or a turbo-refresh event to the messaging channel.
package reload

import (
	"path/filepath"
	"time"
)

// Config is the resolved reload configuration. Immutable after construction.
type Config struct {
	// Always makes the full-reload message claim all paths changed ("*")
	// instead of naming the triggering path.
	Always bool
	// Delay is the wait between detecting a change and sending the reload
	// instruction. Zero means send on the next tick.
	Delay time.Duration
	// Log emits one status line per triggered reload.
	Log bool
	// Root is the absolute base path patterns are resolved against.
	Root string
	// Turbo sends a custom "turbo-refresh" event instead of a full-page
	// reload and enables the runtime bundle transform.
	Turbo bool
}

// Options is the configuration surface as the host passes it in. Nil fields
// take their defaults: always=true, delay=0, log=true, turbo=false.
type Options struct {
	Always *bool  `yaml:"always"`
	Delay  *int   `yaml:"delay"` // milliseconds
	Log    *bool  `yaml:"log"`
	Root   string `yaml:"root"`
	Turbo  *bool  `yaml:"turbo"`
}

// Resolve applies defaults and resolves Root against workdir. The working
// directory is passed explicitly so behavior stays deterministic under test.
func (o Options) Resolve(workdir string) Config {
	cfg := Config{
		Always: true,
		Log:    true,
		Root:   workdir,
	}

	if o.Always != nil {
		cfg.Always = *o.Always
	}
	if o.Delay != nil {
		cfg.Delay = time.Duration(*o.Delay) * time.Millisecond
	}
	if o.Log != nil {
		cfg.Log = *o.Log
	}
	if o.Turbo != nil {
		cfg.Turbo = *o.Turbo
	}

	if o.Root != "" {
		if filepath.IsAbs(o.Root) {
			cfg.Root = filepath.Clean(o.Root)
		} else {
			cfg.Root = filepath.Join(workdir, o.Root)
		}
	}

	return cfg
}

// NormalizePatterns resolves every pattern against root into an absolute,
// separator-normalized glob. Order is preserved and duplicates are kept;
// matching is a boolean OR over the set, so neither affects semantics.
func NormalizePatterns(patterns []string, root string) []string {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if !isAbsPattern(p) {
			p = filepath.ToSlash(filepath.Join(root, filepath.FromSlash(p)))
		}
		normalized = append(normalized, p)
	}
	return normalized
}

// isAbsPattern reports whether a slash-form pattern is already absolute.
// filepath.IsAbs cannot be used directly because the pattern may contain
// wildcard characters that Clean would otherwise touch on Windows.
func isAbsPattern(p string) bool {
	return filepath.IsAbs(filepath.FromSlash(p))
}
