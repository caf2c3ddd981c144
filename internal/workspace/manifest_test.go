package workspace

import (
	"testing"

	"github.com/millworks/taskmill/internal/errors"
	"github.com/millworks/taskmill/internal/testutil"
)

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteManifest(t, dir, `
name = "web"

[env]
MIX_ENV = "dev"

[vars]
team = "platform"

[tasks]
paths = ["tasks", "ci/tasks"]

[aliases]
ship = ["build", "test --cover"]

[umbrella]
apps = ["apps/*"]
`)

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Name != "web" {
		t.Errorf("Name = %q, want %q", m.Name, "web")
	}
	if m.Env["MIX_ENV"] != "dev" {
		t.Errorf("Env = %v, want MIX_ENV=dev", m.Env)
	}
	if m.Vars["team"] != "platform" {
		t.Errorf("Vars = %v, want team=platform", m.Vars)
	}
	if len(m.Tasks.Paths) != 2 || m.Tasks.Paths[1] != "ci/tasks" {
		t.Errorf("Tasks.Paths = %v, want [tasks ci/tasks]", m.Tasks.Paths)
	}
	steps := m.Aliases["ship"]
	if len(steps) != 2 || steps[0] != "build" || steps[1] != "test --cover" {
		t.Errorf("Aliases[ship] = %v, want [build, test --cover]", steps)
	}
	if !m.IsUmbrella() {
		t.Error("IsUmbrella = false with apps declared")
	}
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	if !errors.Is(err, errors.ErrManifestInvalid) {
		t.Errorf("error = %v, want ErrManifestInvalid", err)
	}
}

func TestReadManifestParseFailure(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteManifest(t, dir, "name = \"web\"\n[broken\n")

	_, err := ReadManifest(dir)
	if !errors.Is(err, errors.ErrManifestInvalid) {
		t.Fatalf("error = %v, want ErrManifestInvalid", err)
	}
	var merr *errors.ManifestError
	if !errors.As(err, &merr) {
		t.Fatalf("error type = %T, want *ManifestError", err)
	}
	if merr.Path == "" {
		t.Error("ManifestError.Path is empty")
	}
}

func TestReadManifestRequiresName(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteManifest(t, dir, "[vars]\nteam = \"x\"\n")

	if _, err := ReadManifest(dir); !errors.Is(err, errors.ErrManifestInvalid) {
		t.Errorf("error = %v, want ErrManifestInvalid", err)
	}
}

func TestReadManifestRejectsEmptyAlias(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteManifest(t, dir, "name = \"web\"\n\n[aliases]\nship = []\n")

	if _, err := ReadManifest(dir); !errors.Is(err, errors.ErrManifestInvalid) {
		t.Errorf("error = %v, want ErrManifestInvalid", err)
	}
}

func TestHasManifest(t *testing.T) {
	dir := t.TempDir()
	if HasManifest(dir) {
		t.Error("HasManifest = true for empty dir")
	}
	testutil.WriteManifest(t, dir, "name = \"web\"\n")
	if !HasManifest(dir) {
		t.Error("HasManifest = false with project.toml present")
	}
}
