package app

import (
	"astral/internal/core/config"
	"astral/internal/core/errors"
	"astral/internal/engine/rules"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nullableArrayDump is a class with one `private ?array $items;` property on
// the given line.
func nullableArrayDump(line int) string {
	return fmt.Sprintf(`{"kind":"File","edges":[{"role":"stmts","node":{"kind":"Class","edges":[
		{"role":"name","node":{"kind":"Identifier","value":"SomeClass"}},
		{"role":"stmts","node":{"kind":"PropertyDeclaration","flags":["private"],"line":%d,"edges":[
			{"role":"type","node":{"kind":"NullableType","edges":[{"role":"type","node":{"kind":"Identifier","value":"array"}}]}},
			{"role":"props","node":{"kind":"PropertyItem","edges":[{"role":"name","node":{"kind":"Identifier","value":"items"}}]}}
		]}}
	]}}]}`, line)
}

const cleanDump = `{"kind":"File","edges":[{"role":"stmts","node":{"kind":"Class","edges":[{"role":"name","node":{"kind":"Identifier","value":"Clean"}}]}}]}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Analysis.Workers = 2
	if mutate != nil {
		mutate(cfg)
	}
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_Analyze(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "b.json"), nullableArrayDump(9))
	writeFile(t, filepath.Join(dir, "src", "a.json"), nullableArrayDump(4))
	writeFile(t, filepath.Join(dir, "src", "clean.json"), cleanDump)
	writeFile(t, filepath.Join(dir, "src", "notes.txt"), "not a dump")
	writeFile(t, filepath.Join(dir, "vendor", "c.json"), nullableArrayDump(1))
	writeFile(t, filepath.Join(dir, "src", "skip.generated.json"), nullableArrayDump(1))

	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Exclude.Dirs = []string{"vendor"}
		cfg.Exclude.Files = []string{"*.generated.json"}
	})

	res, err := a.Analyze(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Evaluated)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "src", "a.json")), res.Diagnostics[0].Path)
	assert.Equal(t, 4, res.Diagnostics[0].Line)
	assert.Equal(t, 9, res.Diagnostics[1].Line)
	assert.Equal(t, res, a.LastResult())
	assert.Equal(t, 3, a.UnitCount())
}

func TestApp_ExplicitFileIgnoresExcludes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.generated.json")
	writeFile(t, path, nullableArrayDump(2))

	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Exclude.Files = []string{"*.generated.json"}
	})
	res, err := a.Analyze(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 1)
}

func TestApp_AnalyzeErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.json"), `{"kind":"Nope"}`)

	a := newTestApp(t, nil)

	_, err := a.Analyze(context.Background(), []string{filepath.Join(dir, "missing")})
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	_, err = a.Analyze(context.Background(), []string{dir})
	assert.True(t, errors.IsCode(err, errors.CodeMalformedTree))
}

func TestApp_DisabledRules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), nullableArrayDump(1))

	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Rules.Disabled = []string{rules.NoNullableArrayPropertyID}
	})
	res, err := a.Analyze(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 3, a.RuleSet().Len())
}

func TestApp_ReconfigureKeepsPreviousOnError(t *testing.T) {
	a := newTestApp(t, nil)
	before := a.RuleSet().Len()

	bad := config.DefaultConfig()
	bad.Rules.Enabled = []string{"does-not-exist"}
	require.Error(t, a.Reconfigure(bad))
	assert.Equal(t, before, a.RuleSet().Len())

	good := config.DefaultConfig()
	good.Rules.Enabled = []string{"require-*"}
	require.NoError(t, a.Reconfigure(good))
	assert.Equal(t, 2, a.RuleSet().Len())
}

func TestApp_HandleChanges(t *testing.T) {
	dir := t.TempDir()
	a1 := filepath.Join(dir, "a.json")
	b1 := filepath.Join(dir, "b.json")
	writeFile(t, a1, nullableArrayDump(1))
	writeFile(t, b1, cleanDump)

	a := newTestApp(t, nil)
	_, err := a.Analyze(context.Background(), []string{dir})
	require.NoError(t, err)

	updates := make(chan Update, 1)
	a.SetUpdateHandler(func(u Update) { updates <- u })

	require.NoError(t, os.Remove(a1))
	writeFile(t, b1, nullableArrayDump(7))
	a.HandleChanges([]string{a1, b1})

	u := <-updates
	assert.Equal(t, []string{a1, b1}, u.Changed)
	require.Len(t, u.Result.Diagnostics, 1)
	assert.Equal(t, 7, u.Result.Diagnostics[0].Line)
	assert.Equal(t, 1, a.UnitCount())

	// A half-written dump drops the unit instead of keeping stale results.
	writeFile(t, b1, `{"kind":`)
	a.HandleChanges([]string{b1})
	u = <-updates
	assert.Empty(t, u.Result.Diagnostics)
	assert.Zero(t, a.UnitCount())
}

func TestApp_Watch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), cleanDump)

	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Watch.Debounce = 20 * time.Millisecond
		cfg.Watch.MaxRate = 100
	})
	_, err := a.Analyze(context.Background(), []string{dir})
	require.NoError(t, err)

	updates := make(chan Update, 4)
	a.SetUpdateHandler(func(u Update) { updates <- u })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.StartWatcher(ctx))

	writeFile(t, filepath.Join(dir, "new.json"), nullableArrayDump(5))

	// The create and the write of the new file may land in separate batches.
	deadline := time.After(5 * time.Second)
	for found := false; !found; {
		select {
		case u := <-updates:
			if len(u.Result.Diagnostics) == 1 {
				assert.Equal(t, 5, u.Result.Diagnostics[0].Line)
				found = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for watch update")
		}
	}
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func TestHealthService(t *testing.T) {
	a := newTestApp(t, nil)
	hs := NewHealthService(a)

	status := hs.Check(context.Background())
	assert.Equal(t, "up", status.Status)
	assert.Equal(t, "ok (5 enabled)", status.Components["rules"])
	assert.Equal(t, "off", status.Components["watcher"])

	cfg := config.DefaultConfig()
	cfg.Rules.Disabled = []string{"*"}
	require.NoError(t, a.Reconfigure(cfg))
	assert.Equal(t, "degraded", hs.Check(context.Background()).Status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "down", hs.Check(ctx).Status)
}
