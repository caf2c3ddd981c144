// Package testutil provides testing utilities for taskmill tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// SetupProject creates a temporary project directory with a minimal
// manifest. Returns the project root. The directory is cleaned up
// automatically when the test completes.
func SetupProject(t *testing.T, name string) string {
	t.Helper()

	dir := t.TempDir()
	WriteManifest(t, dir, "name = \""+name+"\"\n")
	return dir
}

// SetupProjectWithTasks creates a project directory with a manifest and
// the given TOML task units. Keys of the units map are command names,
// values are unit file bodies.
func SetupProjectWithTasks(t *testing.T, name string, units map[string]string) string {
	t.Helper()

	dir := SetupProject(t, name)
	for command, body := range units {
		WriteTaskUnit(t, dir, command, body)
	}
	return dir
}

// SetupUmbrella creates an umbrella project with one sub-project per
// app name under apps/. Each sub-project gets its own minimal manifest.
// Returns the umbrella root.
func SetupUmbrella(t *testing.T, name string, apps ...string) string {
	t.Helper()

	dir := t.TempDir()
	WriteManifest(t, dir, "name = \""+name+"\"\n\n[umbrella]\napps = [\"apps/*\"]\n")
	for _, app := range apps {
		appDir := filepath.Join(dir, "apps", app)
		if err := os.MkdirAll(appDir, 0755); err != nil {
			t.Fatalf("failed to create app %s: %v", app, err)
		}
		WriteManifest(t, appDir, "name = \""+app+"\"\n")
	}
	return dir
}

// WriteManifest writes a project.toml with the given body at root.
func WriteManifest(t *testing.T, root, body string) string {
	t.Helper()

	path := filepath.Join(root, "project.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

// WriteTaskUnit writes a TOML task unit for command under tasks/ at root.
func WriteTaskUnit(t *testing.T, root, command, body string) string {
	t.Helper()

	return WriteFile(t, root, filepath.Join("tasks", "task_"+command+".toml"), body)
}

// WriteLuaTask writes a Lua task unit for command under tasks/ at root.
func WriteLuaTask(t *testing.T, root, command, body string) string {
	t.Helper()

	return WriteFile(t, root, filepath.Join("tasks", "task_"+command+".lua"), body)
}

// WriteFile writes content to path relative to root, creating parent
// directories as needed. Returns the absolute path of the written file.
func WriteFile(t *testing.T, root, path, content string) string {
	t.Helper()

	full := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return full
}

// MarkerUnit returns a TOML unit body whose run appends a line to the
// named marker file in the project root. Useful for asserting that a
// task actually executed, and how many times.
func MarkerUnit(summary, marker string) string {
	return "summary = \"" + summary + "\"\n" +
		"run = [\"sh\", \"-c\", \"echo ran >> " + marker + "\"]\n"
}

// ReadFile reads the file at path relative to root and returns its
// content as a string.
func ReadFile(t *testing.T, root, path string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return string(data)
}

// FileExists reports whether path exists relative to root.
func FileExists(t *testing.T, root, path string) bool {
	t.Helper()

	_, err := os.Stat(filepath.Join(root, path))
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatalf("failed to stat %s: %v", path, err)
	return false
}

// CountLines returns the number of newline-terminated lines in s.
// Marker files written by MarkerUnit grow one line per execution.
func CountLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}

// SkipIfNoSh skips the test if no POSIX shell is available. Task units
// that exec commands need one.
func SkipIfNoSh(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH, skipping test")
	}
}
