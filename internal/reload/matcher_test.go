package reload

import "testing"

func TestMatcherMatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{
			name:     "css in watched directory",
			patterns: []string{"/proj/assets/*.css"},
			path:     "/proj/assets/app.css",
			want:     true,
		},
		{
			name:     "css outside watched directory",
			patterns: []string{"/proj/assets/*.css"},
			path:     "/proj/other/file.css",
			want:     false,
		},
		{
			name:     "double star matches zero directories",
			patterns: []string{"/app/templates/**/*.html"},
			path:     "/app/templates/index.html",
			want:     true,
		},
		{
			name:     "double star matches nested directories",
			patterns: []string{"/app/templates/**/*.html"},
			path:     "/app/templates/admin/users/list.html",
			want:     true,
		},
		{
			name:     "double star still bounded by suffix",
			patterns: []string{"/app/templates/**/*.html"},
			path:     "/app/src/main.js",
			want:     false,
		},
		{
			name:     "single star does not cross separators",
			patterns: []string{"/proj/assets/*.css"},
			path:     "/proj/assets/vendor/lib.css",
			want:     false,
		},
		{
			name:     "boolean OR over multiple patterns",
			patterns: []string{"/proj/assets/*.css", "/proj/src/**/*.js"},
			path:     "/proj/src/app/main.js",
			want:     true,
		},
		{
			name:     "empty pattern set matches nothing",
			patterns: nil,
			path:     "/proj/anything",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.patterns)
			if err != nil {
				t.Fatalf("NewMatcher(%v) failed: %v", tt.patterns, err)
			}
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewMatcherInvalidPattern(t *testing.T) {
	if _, err := NewMatcher([]string{"/proj/[unclosed"}); err == nil {
		t.Error("NewMatcher() accepted a malformed glob")
	}
}

func TestExpandDoubleStar(t *testing.T) {
	got := expandDoubleStar("/a/**/b/**/c")
	want := map[string]bool{
		"/a/**/b/**/c": true,
		"/a/b/**/c":    true,
		"/a/**/b/c":    true,
		"/a/b/c":       true,
	}
	if len(got) != len(want) {
		t.Fatalf("expandDoubleStar() = %v, want %d variants", got, len(want))
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}
}
