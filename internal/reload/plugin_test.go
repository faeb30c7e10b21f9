package reload

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeHost struct {
	root    string
	watcher *fakeWatcher
	sender  *fakeSender
}

func (h *fakeHost) Root() string     { return h.root }
func (h *fakeHost) Watcher() Watcher { return h.watcher }
func (h *fakeHost) Channel() Sender  { return h.sender }

func TestPluginConfigForcesGlobTracking(t *testing.T) {
	p := NewPlugin([]string{"assets/*.css"}, Options{}, "/proj")

	cfg := ServerConfig{Watch: WatchOptions{DisableGlobbing: true}}
	p.Config(&cfg)

	if cfg.Watch.DisableGlobbing {
		t.Error("Config() left glob tracking disabled")
	}
}

func TestPluginConfigureServer(t *testing.T) {
	host := &fakeHost{root: "/proj", watcher: &fakeWatcher{}, sender: &fakeSender{}}
	p := NewPlugin([]string{"assets/*.css"}, Options{}, "")

	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("ConfigureServer() failed: %v", err)
	}

	want := [][]string{{"/proj/assets/*.css"}}
	if diff := cmp.Diff(want, host.watcher.added); diff != "" {
		t.Errorf("watcher registrations mismatch (-want +got):\n%s", diff)
	}

	if host.watcher.handler == nil {
		t.Error("ConfigureServer() did not subscribe the event handler")
	}
}

func TestPluginConfigureServerBadPattern(t *testing.T) {
	host := &fakeHost{root: "/proj", watcher: &fakeWatcher{}, sender: &fakeSender{}}
	p := NewPlugin([]string{"[unclosed"}, Options{}, "")

	if err := p.ConfigureServer(host); err == nil {
		t.Error("ConfigureServer() accepted a malformed glob")
	}
}

func TestPluginTransformBeforeConfigure(t *testing.T) {
	p := NewPlugin([]string{"assets/*.css"}, Options{Turbo: boolPtr(true)}, "/proj")

	got, changed := p.Transform(runtimeID, "body", TransformContext{})
	if changed || got != "body" {
		t.Error("Transform() modified content before ConfigureServer ran")
	}
}

func TestPluginTransformAfterConfigure(t *testing.T) {
	host := &fakeHost{root: "/proj", watcher: &fakeWatcher{}, sender: &fakeSender{}}
	p := NewPlugin([]string{"assets/*.css"}, Options{Turbo: boolPtr(true)}, "")

	if err := p.ConfigureServer(host); err != nil {
		t.Fatalf("ConfigureServer() failed: %v", err)
	}

	_, changed := p.Transform(runtimeID, "body", TransformContext{})
	if !changed {
		t.Error("Transform() did not append to the runtime bundle")
	}
}

func TestPluginName(t *testing.T) {
	p := NewPlugin(nil, Options{}, "/proj")
	if got := p.Name(); got != "turbo-reload" {
		t.Errorf("Name() = %q", got)
	}
}
