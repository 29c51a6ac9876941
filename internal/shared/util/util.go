package util

import (
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// NormalizePatternPath converts s to a slash-separated, cleaned path so glob
// patterns see the same form on every platform. "." becomes "".
func NormalizePatternPath(s string) string {
	clean := path.Clean(strings.TrimSpace(strings.ReplaceAll(s, "\\", "/")))
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}

// WriteFileWithDirs creates missing parent directories and writes data to path.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, perm)
}

func GetHeapAllocMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc >> 20
}
