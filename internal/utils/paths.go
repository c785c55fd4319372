package utils

import (
	"path/filepath"
	"strings"
)

// ResolveLocation resolves a corpus location relative to baseDir. Empty
// locations, "-" (stdin), URLs and absolute paths are returned unchanged.
func ResolveLocation(location, baseDir string) string {
	switch {
	case location == "", location == "-", baseDir == "":
		return location
	case strings.Contains(location, "://"):
		return location
	case filepath.IsAbs(location):
		return location
	}
	return filepath.Join(baseDir, location)
}
