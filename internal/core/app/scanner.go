package app

import (
	"astral/internal/core/errors"
	"astral/internal/engine/ast"
	"astral/internal/engine/rules"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// StdinPath makes the CLI read a single dump from standard input.
const StdinPath = "-"

// InitialScan decodes every dump found under paths. Explicitly named files
// are always loaded; files found by walking directories honour the exclude
// patterns. The first malformed dump aborts the scan.
func (a *App) InitialScan(paths []string) error {
	files, err := a.ScanPaths(paths)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := a.ProcessFile(path); err != nil {
			return err
		}
	}

	a.mu.Lock()
	a.roots = append([]string(nil), paths...)
	a.mu.Unlock()
	slog.Debug("initial scan finished", "roots", len(paths), "units", len(files))
	return nil
}

// ScanPaths expands directories into the sorted list of dump files they
// contain.
func (a *App) ScanPaths(paths []string) ([]string, error) {
	a.mu.RLock()
	filter := a.filter
	a.mu.RUnlock()

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		if root == StdinPath {
			add(root)
			continue
		}
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "input path not found"), errors.CtxPath, root)
			}
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "stat input path"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && filter.ExcludeDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if filter.ExcludeFile(path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "walk input directory"), errors.CtxPath, root)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ProcessFile decodes the dump at path and replaces its cached unit.
func (a *App) ProcessFile(path string) error {
	tree, err := decodeDump(path)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.units[path] = rules.Unit{Path: displayPath(path), Tree: tree}
	a.mu.Unlock()
	return nil
}

func (a *App) removeFile(path string) {
	a.mu.Lock()
	delete(a.units, path)
	a.mu.Unlock()
}

func decodeDump(path string) (*ast.Tree, error) {
	if path == StdinPath {
		return decodeReader(os.Stdin)
	}
	return ast.DecodeFile(path)
}

func decodeReader(r io.Reader) (*ast.Tree, error) {
	tree, err := ast.Decode(r)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, "<stdin>")
	}
	return tree, nil
}

func displayPath(path string) string {
	if path == StdinPath {
		return ""
	}
	return filepath.ToSlash(path)
}
