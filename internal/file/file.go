package file

import "os"

// Exists returns true if a file exists at the given path.
func Exists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}
