package config

import (
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from dir looking for a .git directory and
// returns the directory containing it.
func FindProjectRoot(dir string) (string, bool) {
	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// searchPaths returns the directories scanned for the config file: the
// project root of the working directory, then the home directory.
func searchPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		if root, ok := FindProjectRoot(cwd); ok {
			paths = append(paths, root)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}
