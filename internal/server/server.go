// Package server hosts the development HTTP server: static project files,
// the reload websocket channel, and the plugin lifecycle hooks.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/history"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/reload"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/watcher"
)

// Config holds server settings. TestEnv mirrors the test-runner flag and
// is populated by the caller instead of read from the environment here.
type Config struct {
	Root    string
	Addr    string
	TestEnv bool

	// History, when non-nil, records every pushed reload message.
	History *history.DB
}

// Server wires the watcher, the hub, and the registered plugins together.
type Server struct {
	cfg     Config
	hub     *Hub
	watch   *watcher.Watcher
	plugins []reload.Plugin
}

// New creates a server for the given plugins. Run performs all setup.
func New(cfg Config, plugins ...reload.Plugin) *Server {
	return &Server{
		cfg:     cfg,
		hub:     NewHub(),
		plugins: plugins,
	}
}

// setup runs the plugin lifecycle: configuration merge, watcher creation,
// and per-plugin server configuration.
func (s *Server) setup() error {
	// Globbing is off until a plugin asks for it.
	sc := reload.ServerConfig{Watch: reload.WatchOptions{DisableGlobbing: true}}
	for _, p := range s.plugins {
		p.Config(&sc)
	}

	w, err := watcher.New(watcher.Options{DisableGlobbing: sc.Watch.DisableGlobbing})
	if err != nil {
		return err
	}
	s.watch = w

	host := &pluginHost{
		root:    s.cfg.Root,
		watcher: watcherAdapter{w},
		channel: s.channel(),
	}
	for _, p := range s.plugins {
		if err := p.ConfigureServer(host); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
	}

	return nil
}

// channel returns the messaging channel handed to plugins, wrapping the
// hub with history recording when enabled.
func (s *Server) channel() reload.Sender {
	if s.cfg.History != nil {
		return recordingSender{next: s.hub, db: s.cfg.History}
	}
	return s.hub
}

// Run sets up plugins, starts the watcher, and serves HTTP until ctx is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.setup(); err != nil {
		return err
	}
	s.watch.Start()
	defer func() {
		if err := s.watch.Close(); err != nil {
			log.Error("Failed to close watcher: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Dev server listening on %s (root: %s)", s.cfg.Addr, s.cfg.Root)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// handler builds the HTTP routes: the reload socket, the client script,
// and the transformed static file tree.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(ClientScriptPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		_, _ = w.Write([]byte(clientScript))
	})
	mux.HandleFunc(SocketPath, s.hub.HandleWebSocket)
	mux.HandleFunc("/", s.serveFile)
	return mux
}

// serveFile serves project files, injecting the client script into HTML
// documents and running JS modules through the plugin transform hooks.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" {
		rel = "index.html"
	}

	path := filepath.Join(s.cfg.Root, filepath.FromSlash(rel))
	if !strings.HasPrefix(path, filepath.Clean(s.cfg.Root)+string(filepath.Separator)) &&
		path != filepath.Clean(s.cfg.Root) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is confined to the server root above
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	switch filepath.Ext(path) {
	case ".html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(injectClientScript(data))
	case ".js", ".mjs":
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		_, _ = w.Write([]byte(s.transform(path, string(data))))
	case ".css":
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write(data)
	default:
		http.ServeFile(w, r, path)
	}
}

// transform runs module content through every plugin's transform hook in
// registration order.
func (s *Server) transform(id, code string) string {
	ctx := reload.TransformContext{TestEnv: s.cfg.TestEnv}
	for _, p := range s.plugins {
		if out, changed := p.Transform(id, code, ctx); changed {
			code = out
		}
	}
	return code
}

// injectClientScript appends the reload listener tag to an HTML document,
// before </body> when one exists.
func injectClientScript(doc []byte) []byte {
	tag := `<script src="` + ClientScriptPath + `"></script>`

	html := string(doc)
	if i := strings.LastIndex(html, "</body>"); i >= 0 {
		return []byte(html[:i] + tag + html[i:])
	}
	return append(doc, []byte(tag)...)
}

// pluginHost is the Host surface handed to ConfigureServer.
type pluginHost struct {
	root    string
	watcher reload.Watcher
	channel reload.Sender
}

func (h *pluginHost) Root() string            { return h.root }
func (h *pluginHost) Watcher() reload.Watcher { return h.watcher }
func (h *pluginHost) Channel() reload.Sender  { return h.channel }

// watcherAdapter narrows the concrete watcher to the path-only contract
// the orchestrator consumes.
type watcherAdapter struct {
	w *watcher.Watcher
}

func (a watcherAdapter) Add(patterns []string) error {
	return a.w.Add(patterns)
}

func (a watcherAdapter) Subscribe(fn func(path string)) {
	a.w.Subscribe(func(e watcher.Event) { fn(e.Path) })
}

// recordingSender tees pushed messages into the reload history database.
type recordingSender struct {
	next reload.Sender
	db   *history.DB
}

func (r recordingSender) Send(msg reload.Message) {
	r.db.RecordReload(msg)
	r.next.Send(msg)
}
