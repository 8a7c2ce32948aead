// Package paths provides directory paths for thinkplay.
//
// Lookup order for datasets (first found wins):
//  1. the argument itself, when it names an existing file
//  2. ./.config/thinkplay/datasets (local project)
//  3. ~/.config/thinkplay/datasets (user)
//
// Writes go to the user directories, or to ./.config/thinkplay and
// ./.local/share/thinkplay when local dev mode is on.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const appName = "thinkplay"

const moduleLine = "module github.com/alexcabrera/thinkplay"

var (
	devRoot     string
	devRootOnce sync.Once

	localDevMode     bool
	localDevModeOnce sync.Once
)

// IsDevMode returns true if thinkplay is running from a source checkout.
// In dev mode the database and log live in {repo}/.thinkplay/.
func IsDevMode() bool {
	return getDevRoot() != ""
}

// DevRoot returns the repository root in dev mode, or "".
func DevRoot() string {
	return getDevRoot()
}

// getDevRoot walks up from the executable, then from the working
// directory, looking for this module's go.mod.
func getDevRoot() string {
	devRootOnce.Do(func() {
		if root := findDevRootFrom(executableDir()); root != "" {
			devRoot = root
			return
		}
		if wd, err := os.Getwd(); err == nil {
			devRoot = findDevRootFrom(wd)
		}
	})
	return devRoot
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

func findDevRootFrom(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		if data, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
			content := string(data)
			if strings.HasPrefix(content, moduleLine) || strings.Contains(content, "\n"+moduleLine) {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// SetLocalDevMode switches config and data to ./.config/thinkplay and
// ./.local/share/thinkplay. Call it before any other function here.
func SetLocalDevMode() {
	localDevModeOnce.Do(func() {
		localDevMode = true
	})
}

// IsLocalDevMode reports whether SetLocalDevMode was called.
func IsLocalDevMode() bool {
	return localDevMode
}

func windowsAppDir() string {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		home, _ := os.UserHomeDir()
		localAppData = filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(localAppData, appName)
}

// DataDir returns the data directory.
//
// Local dev mode: ./.local/share/thinkplay
// Dev mode: {repo}/.thinkplay
// Unix: $XDG_DATA_HOME/thinkplay or ~/.local/share/thinkplay
// Windows: %LOCALAPPDATA%\thinkplay
func DataDir() string {
	if localDevMode {
		wd, _ := os.Getwd()
		return filepath.Join(wd, ".local", "share", appName)
	}
	if root := getDevRoot(); root != "" {
		return filepath.Join(root, "."+appName)
	}
	if runtime.GOOS == "windows" {
		return windowsAppDir()
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigDir returns the config directory. It ignores dev mode so a
// checkout shares the user's config.
//
// Local dev mode: ./.config/thinkplay
// Unix: $XDG_CONFIG_HOME/thinkplay or ~/.config/thinkplay
// Windows: %LOCALAPPDATA%\thinkplay
func ConfigDir() string {
	if localDevMode {
		wd, _ := os.Getwd()
		return filepath.Join(wd, ".config", appName)
	}
	if runtime.GOOS == "windows" {
		return windowsAppDir()
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigFile returns the path of config.yaml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DatabasePath returns the preferences database path.
func DatabasePath() string {
	return filepath.Join(DataDir(), appName+".db")
}

// LogFile returns the debug log path.
func LogFile() string {
	return filepath.Join(DataDir(), appName+".log")
}

// DatasetsDir returns the user dataset directory.
func DatasetsDir() string {
	return filepath.Join(ConfigDir(), "datasets")
}

// LocalDatasetsDir returns ./.config/thinkplay/datasets, or "" when the
// working directory is unknown.
func LocalDatasetsDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(wd, ".config", appName, "datasets")
}

// ResolveDataset turns a dataset argument into a file path. A name without
// extension is tried as name.yaml in the local and then the user dataset
// directory. It returns "" if nothing matches.
func ResolveDataset(name string) string {
	if name == "" {
		return ""
	}
	if isFile(name) {
		return name
	}
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".yaml", name+".yml")
	}
	for _, dir := range []string{LocalDatasetsDir(), DatasetsDir()} {
		if dir == "" {
			continue
		}
		for _, c := range candidates {
			if p := filepath.Join(dir, c); isFile(p) {
				return p
			}
		}
	}
	return ""
}

// ListDatasets returns the dataset files found in the local and user
// dataset directories, local first.
func ListDatasets() []string {
	var out []string
	for _, dir := range []string{LocalDatasetsDir(), DatasetsDir()} {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
