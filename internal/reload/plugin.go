package reload

// WatchOptions is the slice of server configuration the merge hook may
// patch before the watcher is built.
type WatchOptions struct {
	// DisableGlobbing makes the watcher treat registered paths literally.
	// The plugin forces it off so its glob patterns are honored even when
	// they fall outside the server's default project-tracking scope.
	DisableGlobbing bool
}

// ServerConfig is the host configuration passed through every plugin's
// merge hook at startup.
type ServerConfig struct {
	Watch WatchOptions
}

// Host is the running dev server surface handed to ConfigureServer.
type Host interface {
	Root() string
	Watcher() Watcher
	Channel() Sender
}

// Plugin is the server extension contract: a configuration-merge hook, a
// per-module transform hook, and a server-start hook.
type Plugin interface {
	Name() string
	Config(cfg *ServerConfig)
	Transform(id, code string, ctx TransformContext) (string, bool)
	ConfigureServer(host Host) error
}

// plugin adapts the orchestrator to the Plugin contract. The orchestrator
// itself is built lazily in ConfigureServer, once the host root is known.
type plugin struct {
	patterns []string
	opts     Options
	workdir  string
	deps     Deps // optional overrides, used by tests

	orch *Orchestrator
}

// NewPlugin builds the reload plugin for a pattern set. The working
// directory is the default root when neither opts.Root nor the host root
// names one.
func NewPlugin(patterns []string, opts Options, workdir string) Plugin {
	return &plugin{patterns: patterns, opts: opts, workdir: workdir}
}

func (p *plugin) Name() string { return "turbo-reload" }

// Config forces glob tracking on so the watcher honors registered patterns.
func (p *plugin) Config(cfg *ServerConfig) {
	cfg.Watch.DisableGlobbing = false
}

// Transform delegates to the orchestrator's runtime transform. Before
// ConfigureServer runs there is nothing to transform.
func (p *plugin) Transform(id, code string, ctx TransformContext) (string, bool) {
	if p.orch == nil {
		return code, false
	}
	return p.orch.TransformRuntime(id, code, ctx)
}

// ConfigureServer runs the setup phase: resolve configuration, bind the
// matcher, register patterns with the host watcher, and subscribe the
// event handler.
func (p *plugin) ConfigureServer(host Host) error {
	workdir := p.workdir
	if workdir == "" {
		workdir = host.Root()
	}

	cfg := p.opts.Resolve(workdir)

	deps := p.deps
	if deps.Watcher == nil {
		deps.Watcher = host.Watcher()
	}
	if deps.Sender == nil {
		deps.Sender = host.Channel()
	}

	orch, err := New(p.patterns, cfg, deps)
	if err != nil {
		return err
	}
	p.orch = orch

	return orch.Setup()
}
