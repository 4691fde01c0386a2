package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func restore(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFill(t *testing.T) {
	restore(t)
	Version, Commit, Date = "dev", "none", "unknown"

	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	if Version != "v0.3.0" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("fill() = %s %s %s", Version, Commit, Date)
	}
}

func TestFillKeepsLdflags(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.0.0", "deadbeef", "today"

	fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	if Version != "v1.0.0" || Commit != "deadbeef" {
		t.Errorf("stamped values overwritten: %s %s", Version, Commit)
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version ") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); !strings.Contains(got, "commit: ") {
		t.Errorf("String() = %q", got)
	}
}

func TestCacheScope(t *testing.T) {
	resolve()
	restore(t)

	Version = "v2.0.0"
	if got := CacheScope(); got != "v2.0.0:" {
		t.Errorf("CacheScope() = %q", got)
	}
	Version, Commit = "dev", "abc"
	if got := CacheScope(); got != "dev:abc:" {
		t.Errorf("CacheScope() = %q", got)
	}
}
