package builtin

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexcabrera/thinkplay/internal/paths"
)

// Version is the current version of the bundled datasets.
// Bump this when bundled content changes to trigger reinstallation.
const Version = "1"

const versionFileName = ".builtin-version"

// InstallDir returns the directory the datasets are installed to.
func InstallDir() string {
	return paths.DatasetsDir()
}

// VersionFile returns the path of the version marker inside dir.
func VersionFile(dir string) string {
	return filepath.Join(dir, versionFileName)
}

// Install extracts the bundled datasets into dir. It only reinstalls when
// the version has changed or the marker is missing.
func Install(dir string) error {
	if !needsInstall(VersionFile(dir)) {
		return nil
	}
	return ForceInstall(dir)
}

// ForceInstall extracts the bundled datasets regardless of version,
// overwriting local edits.
func ForceInstall(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datasets dir: %w", err)
	}

	err := fs.WalkDir(datasetsFS, "datasets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := datasetsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", path, err)
		}
		dest := filepath.Join(dir, d.Name())
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("extract datasets: %w", err)
	}

	if err := os.WriteFile(VersionFile(dir), []byte(Version), 0o644); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	return nil
}

// needsInstall checks if installation is required
func needsInstall(versionFile string) bool {
	data, err := os.ReadFile(versionFile)
	if err != nil {
		return true
	}
	return string(data) != Version
}

// CheckModified returns the installed bundled datasets in dir whose content
// differs from the embedded copy. Deleted files are reported with a
// " (deleted)" suffix. Datasets the user added are ignored.
func CheckModified(dir string) ([]string, error) {
	if _, err := os.Stat(VersionFile(dir)); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := datasetsFS.ReadDir("datasets")
	if err != nil {
		return nil, err
	}

	var modified []string
	for _, entry := range entries {
		embedded, err := datasetsFS.ReadFile(filepath.ToSlash(filepath.Join("datasets", entry.Name())))
		if err != nil {
			continue
		}
		installed, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		switch {
		case os.IsNotExist(err):
			modified = append(modified, entry.Name()+" (deleted)")
		case err != nil:
			return nil, fmt.Errorf("read installed %s: %w", entry.Name(), err)
		case !bytes.Equal(embedded, installed):
			modified = append(modified, entry.Name())
		}
	}
	return modified, nil
}

// Uninstall removes the installed bundled datasets and the version marker
// from dir, leaving user datasets in place.
func Uninstall(dir string) error {
	entries, err := datasetsFS.ReadDir("datasets")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if err := os.Remove(VersionFile(dir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
