package reload

import (
	"path/filepath"
	"time"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
)

// Watcher is the file-watching capability the orchestrator consumes. Add
// registers extra watch targets beyond the server's default project scope;
// Subscribe delivers the absolute path of every add and change event.
type Watcher interface {
	Add(patterns []string) error
	Subscribe(fn func(path string))
}

// Sender is the client-messaging channel capability.
type Sender interface {
	Send(msg Message)
}

// Scheduler runs fn after d. The default uses real timers; tests substitute
// a controllable fake so no wall-clock waits are needed.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
}

// Logger is the status-line sink.
type Logger interface {
	Info(opts log.Options, format string, elem ...any)
}

type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

type stdLogger struct{}

func (stdLogger) Info(opts log.Options, format string, elem ...any) {
	log.InfoWith(opts, format, elem...)
}

// Deps are the orchestrator's collaborators. Watcher and Sender are
// required; Scheduler and Logger default to real timers and internal/log.
type Deps struct {
	Watcher   Watcher
	Sender    Sender
	Scheduler Scheduler
	Logger    Logger
}

// Orchestrator wires watcher events to client reload instructions. All of
// its state is captured at construction; event handling is stateless, so
// rapid repeated changes produce one message each with no coalescing.
type Orchestrator struct {
	config    Config
	patterns  []string
	matcher   *Matcher
	watcher   Watcher
	sender    Sender
	scheduler Scheduler
	logger    Logger
}

// New normalizes patterns against cfg.Root and compiles the matching
// predicate. Malformed globs surface here as the compiler's error.
func New(patterns []string, cfg Config, deps Deps) (*Orchestrator, error) {
	normalized := NormalizePatterns(patterns, cfg.Root)

	matcher, err := NewMatcher(normalized)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:    cfg,
		patterns:  normalized,
		matcher:   matcher,
		watcher:   deps.Watcher,
		sender:    deps.Sender,
		scheduler: deps.Scheduler,
		logger:    deps.Logger,
	}
	if o.scheduler == nil {
		o.scheduler = timerScheduler{}
	}
	if o.logger == nil {
		o.logger = stdLogger{}
	}
	return o, nil
}

// Patterns returns the normalized pattern set.
func (o *Orchestrator) Patterns() []string {
	return o.patterns
}

// Config returns the resolved configuration.
func (o *Orchestrator) Config() Config {
	return o.config
}

// Setup registers the pattern set with the watcher and subscribes the
// per-event handler. Invoked once when the dev server starts.
func (o *Orchestrator) Setup() error {
	if err := o.watcher.Add(o.patterns); err != nil {
		return err
	}
	o.watcher.Subscribe(o.CheckReload)
	return nil
}

// CheckReload handles one add/change event. Non-matching paths are silently
// ignored. A match schedules the client message after the configured delay
// and, when logging is on, emits the status line immediately.
func (o *Orchestrator) CheckReload(path string) {
	if !o.matcher.Match(path) {
		return
	}

	msg := o.messageFor(path)
	o.scheduler.Schedule(o.config.Delay, func() {
		o.sender.Send(msg)
	})

	if o.config.Log {
		rel, err := filepath.Rel(o.config.Root, path)
		if err != nil {
			rel = path
		}
		o.logger.Info(log.Options{Clear: true, Timestamp: true}, "full reload %s", filepath.ToSlash(rel))
	}
}

func (o *Orchestrator) messageFor(path string) Message {
	if o.config.Turbo {
		return CustomMessage(TurboRefreshEvent)
	}
	if o.config.Always {
		return FullReloadMessage(AllPaths)
	}
	return FullReloadMessage(path)
}
