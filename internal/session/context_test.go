package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	return &Context{
		Cwd:    t.TempDir(),
		Env:    map[string]string{"HOME": "/home/tester"},
		Stderr: &bytes.Buffer{},
		Stdout: &bytes.Buffer{},
	}
}

func TestChangeDir(t *testing.T) {
	ctx := testContext(t)
	start := ctx.Cwd

	sub := filepath.Join(start, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}

	ctx.ChangeDir("sub")
	if ctx.Cwd != sub {
		t.Errorf("Expected cwd %q, got %q", sub, ctx.Cwd)
	}
	if ctx.Env["PWD"] != sub {
		t.Errorf("Expected PWD %q, got %q", sub, ctx.Env["PWD"])
	}
	if ctx.Env["OLDPWD"] != start {
		t.Errorf("Expected OLDPWD %q, got %q", start, ctx.Env["OLDPWD"])
	}
}

func TestChangeDir_Dash(t *testing.T) {
	ctx := testContext(t)
	start := ctx.Cwd
	previous := t.TempDir()
	ctx.Env["OLDPWD"] = previous

	var stdout bytes.Buffer
	ctx.Stdout = &stdout

	ctx.ChangeDir("-")
	if ctx.Cwd != previous {
		t.Errorf("Expected cwd %q, got %q", previous, ctx.Cwd)
	}
	if !strings.Contains(stdout.String(), previous) {
		t.Errorf("Expected previous directory printed, got %q", stdout.String())
	}
	if ctx.Env["OLDPWD"] != start {
		t.Errorf("Expected OLDPWD updated to %q, got %q", start, ctx.Env["OLDPWD"])
	}
}

func TestChangeDir_DashWithoutOldpwd(t *testing.T) {
	ctx := testContext(t)
	start := ctx.Cwd

	var stderr bytes.Buffer
	ctx.Stderr = &stderr

	ctx.ChangeDir("-")
	if ctx.Cwd != start {
		t.Errorf("Expected cwd unchanged, got %q", ctx.Cwd)
	}
	if !strings.Contains(stderr.String(), "OLDPWD not set") {
		t.Errorf("Expected OLDPWD diagnostic, got %q", stderr.String())
	}
}

func TestChangeDir_Missing(t *testing.T) {
	ctx := testContext(t)
	start := ctx.Cwd

	var stderr bytes.Buffer
	ctx.Stderr = &stderr

	ctx.ChangeDir("definitely-not-here")
	if ctx.Cwd != start {
		t.Errorf("Expected cwd unchanged on failure, got %q", ctx.Cwd)
	}
	if !strings.Contains(stderr.String(), "no such directory") {
		t.Errorf("Expected diagnostic, got %q", stderr.String())
	}
}

func TestChangeDir_Home(t *testing.T) {
	ctx := testContext(t)
	home := t.TempDir()
	ctx.Env["HOME"] = home

	ctx.ChangeDir("")
	resolved, _ := filepath.EvalSymlinks(home)
	if ctx.Cwd != resolved {
		t.Errorf("Expected cwd %q, got %q", resolved, ctx.Cwd)
	}
}

func TestExport(t *testing.T) {
	ctx := testContext(t)

	ctx.Export("FOO=bar")
	if ctx.Env["FOO"] != "bar" {
		t.Errorf("Expected FOO=bar, got %q", ctx.Env["FOO"])
	}

	ctx.Export(`MSG="hello world"`)
	if ctx.Env["MSG"] != "hello world" {
		t.Errorf("Expected quotes stripped, got %q", ctx.Env["MSG"])
	}

	ctx.Export("RAW='single'")
	if ctx.Env["RAW"] != "single" {
		t.Errorf("Expected single quotes stripped, got %q", ctx.Env["RAW"])
	}

	ctx.Export("EMPTY=")
	if value, ok := ctx.Env["EMPTY"]; !ok || value != "" {
		t.Errorf("Expected EMPTY set to empty string, got %q ok=%v", value, ok)
	}
}

func TestExport_WithoutAssignment(t *testing.T) {
	ctx := testContext(t)
	var stderr bytes.Buffer
	ctx.Stderr = &stderr

	ctx.Export("ALREADY_SET")
	if _, ok := ctx.Env["ALREADY_SET"]; ok {
		t.Error("Expected no variable created without assignment")
	}
	if stderr.Len() == 0 {
		t.Error("Expected a notice on stderr")
	}
}

func TestUnset(t *testing.T) {
	ctx := testContext(t)
	ctx.Env["DOOMED"] = "x"

	ctx.Unset("DOOMED")
	if _, ok := ctx.Env["DOOMED"]; ok {
		t.Error("Expected DOOMED removed")
	}
}

func TestEnviron_SortedPairs(t *testing.T) {
	ctx := testContext(t)
	ctx.Env = map[string]string{"B": "2", "A": "1"}

	got := ctx.Environ()
	want := []string{"A=1", "B=2"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExpandTilde(t *testing.T) {
	ctx := testContext(t)
	ctx.Env["HOME"] = "/home/tester"

	if got := ctx.ExpandTilde("~"); got != "/home/tester" {
		t.Errorf("Expected home for ~, got %q", got)
	}
	if got := ctx.ExpandTilde("~/bin"); got != "/home/tester/bin" {
		t.Errorf("Expected joined path, got %q", got)
	}
	if got := ctx.ExpandTilde("/abs"); got != "/abs" {
		t.Errorf("Expected absolute path unchanged, got %q", got)
	}
	if got := ctx.ExpandTilde("~user/x"); got != "~user/x" {
		t.Errorf("Expected ~user form unchanged, got %q", got)
	}
}

func TestImportEnviron(t *testing.T) {
	ctx := testContext(t)

	ctx.ImportEnviron("PATH=/usr/bin\x00LANG=C.UTF-8\x00\x00=weird")
	if ctx.Env["PATH"] != "/usr/bin" {
		t.Errorf("Expected PATH imported, got %q", ctx.Env["PATH"])
	}
	if ctx.Env["LANG"] != "C.UTF-8" {
		t.Errorf("Expected LANG imported, got %q", ctx.Env["LANG"])
	}
	if _, ok := ctx.Env[""]; ok {
		t.Error("Expected empty key skipped")
	}
}
