// Package filex resolves where the client keeps its files on disk.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) with owner-only permissions and
// returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// EnsureParent makes sure the directory that will hold path exists.
func EnsureParent(path string) error {
	_, err := EnsureDir(filepath.Dir(path))
	return err
}

// DefaultDataDir is ~/.daybook, falling back to ./.daybook when the home
// directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".daybook"
	}
	return filepath.Join(home, ".daybook")
}
