package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProjectRendersStarterFiles(t *testing.T) {
	dest := t.TempDir()

	errs := Project(dest, Info{
		Patterns: []string{"templates/**/*.html", "assets/*.css"},
		Addr:     ":5173",
		Turbo:    true,
	})
	if len(errs) > 0 {
		t.Fatalf("Project() returned errors: %v", errs)
	}

	data, err := os.ReadFile(filepath.Join(dest, "turbo-reload.yaml"))
	if err != nil {
		t.Fatalf("config not generated: %v", err)
	}
	cfg := string(data)
	for _, want := range []string{`- "templates/**/*.html"`, `- "assets/*.css"`, `addr: ":5173"`, "turbo: true"} {
		if !strings.Contains(cfg, want) {
			t.Errorf("generated config missing %q:\n%s", want, cfg)
		}
	}

	for _, f := range []string{"index.html", filepath.Join("assets", "app.css")} {
		if _, err := os.Stat(filepath.Join(dest, f)); err != nil {
			t.Errorf("starter file %s not generated: %v", f, err)
		}
	}
}

func TestProjectNeverOverwrites(t *testing.T) {
	dest := t.TempDir()
	existing := filepath.Join(dest, "turbo-reload.yaml")
	if err := os.WriteFile(existing, []byte("patterns: \"keep/me\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	errs := Project(dest, Info{Patterns: []string{"assets/*.css"}, Addr: ":5173"})
	if len(errs) == 0 {
		t.Fatal("Project() over an existing config reported no error")
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "keep/me") {
		t.Errorf("existing config was overwritten:\n%s", data)
	}
}
