//nolint:errcheck,gosec // Test file with acceptable error handling patterns
package log

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn and returns everything it printed to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestSetDebugMode(t *testing.T) {
	originalDebugMode := debugMode
	defer func() { debugMode = originalDebugMode }()

	tests := []struct {
		name    string
		enabled bool
	}{
		{name: "enable debug", enabled: true},
		{name: "disable debug", enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDebugMode(tt.enabled)
			if debugMode != tt.enabled {
				t.Errorf("SetDebugMode(%v) did not set debugMode correctly", tt.enabled)
			}
		})
	}
}

func TestDebugRespectsMode(t *testing.T) {
	originalDebugMode := debugMode
	defer func() { debugMode = originalDebugMode }()

	SetDebugMode(false)
	out := captureStdout(t, func() { Debug("hidden %s", "message") })
	if out != "" {
		t.Errorf("Debug() printed %q with debug mode disabled", out)
	}

	SetDebugMode(true)
	out = captureStdout(t, func() { Debug("shown %s", "message") })
	if !strings.Contains(out, "shown message") {
		t.Errorf("Debug() output %q missing message", out)
	}
}

func TestInfoWith(t *testing.T) {
	tests := []struct {
		name          string
		opts          Options
		wantClear     bool
		wantTimestamp bool
	}{
		{name: "plain", opts: Options{}},
		{name: "clear only", opts: Options{Clear: true}, wantClear: true},
		{name: "timestamp only", opts: Options{Timestamp: true}, wantTimestamp: true},
		{name: "clear and timestamp", opts: Options{Clear: true, Timestamp: true}, wantClear: true, wantTimestamp: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t, func() { InfoWith(tt.opts, "full reload %s", "assets/app.css") })

			if !strings.Contains(out, "full reload assets/app.css") {
				t.Errorf("InfoWith() output %q missing message", out)
			}
			if got := strings.Contains(out, "\x1b[2J"); got != tt.wantClear {
				t.Errorf("InfoWith() clear sequence present = %v, want %v", got, tt.wantClear)
			}
			// A timestamp line contains two colons from HH:MM:SS before the message.
			if got := strings.Count(strings.Split(out, "full reload")[0], ":") >= 2; got != tt.wantTimestamp {
				t.Errorf("InfoWith() timestamp present = %v, want %v", got, tt.wantTimestamp)
			}
		})
	}
}

func TestInfoVariants(t *testing.T) {
	out := captureStdout(t, func() {
		Info("top %d", 1)
		InfoH2("mid %d", 2)
		InfoH3("low %d", 3)
	})

	for _, want := range []string{"top 1", "mid 2", "low 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
