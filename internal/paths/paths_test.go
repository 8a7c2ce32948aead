package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDataDir(t *testing.T) {
	dir := DataDir()
	if dir == "" {
		t.Error("DataDir returned empty string")
	}
	// Dev mode ends with .thinkplay, production contains thinkplay.
	if !strings.Contains(dir, "thinkplay") {
		t.Errorf("DataDir should contain 'thinkplay': got %s", dir)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !strings.HasSuffix(dir, "thinkplay") {
		t.Errorf("ConfigDir should end with 'thinkplay': got %s", dir)
	}
}

func TestConfigDirHonoursXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG variables are not used on Windows")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if got, want := ConfigDir(), filepath.Join(xdg, "thinkplay"); got != want {
		t.Errorf("ConfigDir = %s, want %s", got, want)
	}
}

func TestFiles(t *testing.T) {
	if !strings.HasSuffix(ConfigFile(), "config.yaml") {
		t.Errorf("ConfigFile should end with config.yaml: got %s", ConfigFile())
	}
	if !strings.HasSuffix(DatabasePath(), "thinkplay.db") {
		t.Errorf("DatabasePath should end with thinkplay.db: got %s", DatabasePath())
	}
	if !strings.HasSuffix(LogFile(), "thinkplay.log") {
		t.Errorf("LogFile should end with thinkplay.log: got %s", LogFile())
	}
	if !strings.HasSuffix(DatasetsDir(), filepath.Join("thinkplay", "datasets")) {
		t.Errorf("DatasetsDir should end with thinkplay/datasets: got %s", DatasetsDir())
	}
}

func TestFindDevRootFrom(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "internal", "paths")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	gomod := "module github.com/alexcabrera/thinkplay\n\ngo 1.25\n"
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte(gomod), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := findDevRootFrom(nested); got != root {
		t.Errorf("findDevRootFrom = %q, want %q", got, root)
	}
}

func TestFindDevRootFromOtherModule(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/other\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := findDevRootFrom(root); got != "" {
		t.Errorf("expected no dev root for another module, got %q", got)
	}
	if got := findDevRootFrom(""); got != "" {
		t.Errorf("expected no dev root for empty start, got %q", got)
	}
}

func TestResolveDataset(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG variables are not used on Windows")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, "thinkplay", "datasets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "kyoto.yaml")
	if err := os.WriteFile(file, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := ResolveDataset(file); got != file {
		t.Errorf("existing path: got %q", got)
	}
	if got := ResolveDataset("kyoto"); got != file {
		t.Errorf("bare name: got %q, want %q", got, file)
	}
	if got := ResolveDataset("missing"); got != "" {
		t.Errorf("missing dataset: got %q", got)
	}
	if got := ResolveDataset(""); got != "" {
		t.Errorf("empty name: got %q", got)
	}

	found := false
	for _, p := range ListDatasets() {
		if p == file {
			found = true
		}
		if strings.HasSuffix(p, ".txt") {
			t.Errorf("ListDatasets returned non-yaml file %s", p)
		}
	}
	if !found {
		t.Errorf("ListDatasets did not include %s", file)
	}
}
