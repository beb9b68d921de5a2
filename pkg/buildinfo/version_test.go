package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02T03:04:05Z"

	if got, want := Template(), "{{.Name}} v1.2.3 (abc123, built 2026-01-02T03:04:05Z)\n"; got != want {
		t.Errorf("Template() = %q, want %q", got, want)
	}
	if got := String(); !strings.Contains(got, "commit: abc123") {
		t.Errorf("String() = %q", got)
	}
}
