package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/reload"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T, cfg Config, plugins ...reload.Plugin) *httptest.Server {
	t.Helper()

	s := New(cfg, plugins...)
	if err := s.setup(); err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.watch.Close() })

	srv := httptest.NewServer(s.handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url) //nolint:gosec // G107: test URL from httptest
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestServeClientScript(t *testing.T) {
	srv := newTestServer(t, Config{Root: t.TempDir()})

	code, body := get(t, srv.URL+ClientScriptPath)
	if code != http.StatusOK {
		t.Fatalf("GET client script = %d", code)
	}
	if !strings.Contains(body, "full-reload") || !strings.Contains(body, "WebSocket") {
		t.Errorf("client script missing reload handling:\n%s", body)
	}
}

func TestServeHTMLInjectsClientScript(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<html><body><h1>hi</h1></body></html>")

	srv := newTestServer(t, Config{Root: root})

	code, body := get(t, srv.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("GET / = %d", code)
	}
	if !strings.Contains(body, ClientScriptPath) {
		t.Errorf("served HTML missing client script tag:\n%s", body)
	}
	if !strings.Contains(body, "<h1>hi</h1>") {
		t.Errorf("served HTML lost its content:\n%s", body)
	}
	if strings.Index(body, ClientScriptPath) > strings.Index(body, "</body>") {
		t.Error("script tag injected after </body>")
	}
}

func TestServeMissingFile(t *testing.T) {
	srv := newTestServer(t, Config{Root: t.TempDir()})

	code, _ := get(t, srv.URL+"/nope.html")
	if code != http.StatusNotFound {
		t.Errorf("GET missing file = %d, want 404", code)
	}
}

func TestServeJSRunsTransformHooks(t *testing.T) {
	root := t.TempDir()
	runtime := filepath.Join(root, "node_modules", "@hotwired", "turbo", "dist", "turbo.es2017-esm.js")
	writeFile(t, runtime, "export class Session {}\n")
	writeFile(t, filepath.Join(root, "main.js"), "console.log(1)\n")

	turbo := true
	p := reload.NewPlugin([]string{"assets/*.css"}, reload.Options{Turbo: &turbo}, root)
	srv := newTestServer(t, Config{Root: root}, p)

	code, body := get(t, srv.URL+"/node_modules/@hotwired/turbo/dist/turbo.es2017-esm.js")
	if code != http.StatusOK {
		t.Fatalf("GET runtime = %d", code)
	}
	if !strings.Contains(body, reload.TurboRefreshEvent) {
		t.Errorf("runtime bundle not transformed:\n%s", body)
	}
	if !strings.HasPrefix(body, "export class Session {}") {
		t.Errorf("transform did not append, it replaced:\n%s", body)
	}

	code, body = get(t, srv.URL+"/main.js")
	if code != http.StatusOK {
		t.Fatalf("GET main.js = %d", code)
	}
	if strings.Contains(body, reload.TurboRefreshEvent) {
		t.Error("unrelated module was transformed")
	}
}

func TestServeFileOutsideRootForbidden(t *testing.T) {
	root := t.TempDir()
	srv := newTestServer(t, Config{Root: root})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/../escape.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	// Keep the raw path; the default client would clean it.
	req.URL.Path = "/../escape.txt"

	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		t.Error("path traversal served a file outside root")
	}
}

func TestSetupHonorsConfigHook(t *testing.T) {
	// A plugin with glob patterns must see globbing enabled; the spy
	// records the merged configuration it was given.
	spy := &configSpy{}
	s := New(Config{Root: t.TempDir()}, spy)
	if err := s.setup(); err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.watch.Close() })

	if !spy.sawConfig {
		t.Error("Config hook was not invoked")
	}
	if !spy.sawConfigure {
		t.Error("ConfigureServer hook was not invoked")
	}
}

type configSpy struct {
	sawConfig    bool
	sawConfigure bool
}

func (c *configSpy) Name() string { return "config-spy" }

func (c *configSpy) Config(cfg *reload.ServerConfig) {
	c.sawConfig = true
	cfg.Watch.DisableGlobbing = false
}

func (c *configSpy) Transform(_ string, code string, _ reload.TransformContext) (string, bool) {
	return code, false
}

func (c *configSpy) ConfigureServer(_ reload.Host) error {
	c.sawConfigure = true
	return nil
}
