package util

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DumpExtension is the file extension of syntax tree dumps.
const DumpExtension = ".json"

// PathFilter decides which directories and files take part in analysis.
// Directory patterns match base names; file patterns match either the base
// name or the slash-separated path.
type PathFilter struct {
	dirs       []glob.Glob
	files      []glob.Glob
	extensions map[string]bool
}

func NewPathFilter(excludeDirs, excludeFiles []string) (*PathFilter, error) {
	f := &PathFilter{extensions: map[string]bool{DumpExtension: true}}
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		f.dirs = append(f.dirs, g)
	}
	for _, p := range excludeFiles {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		f.files = append(f.files, g)
	}
	return f, nil
}

// SetExtensions replaces the accepted file extensions.
func (f *PathFilter) SetExtensions(extensions ...string) {
	filter := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		filter[normalized] = true
	}
	f.extensions = filter
}

func (f *PathFilter) ExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range f.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (f *PathFilter) ExcludeFile(path string) bool {
	base := filepath.Base(path)
	if len(f.extensions) > 0 && !f.extensions[strings.ToLower(filepath.Ext(base))] {
		return true
	}
	norm := NormalizePatternPath(path)
	for _, g := range f.files {
		if g.Match(base) || g.Match(norm) {
			return true
		}
	}
	return false
}
