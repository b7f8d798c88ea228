package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apdltools/apdl2py"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadAndApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".apdl2py.yml")
	writeFile(t, path, `
loglevel: INFO
exec_file: /ansys_inc/v241/ansys/bin/ansys241
auto_exit: false
print_com: false
clear_at_start: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	opts := cfg.Apply(apdl2py.DefaultOptions())
	require.Equal(t, "INFO", opts.LogLevel)
	require.Equal(t, "/ansys_inc/v241/ansys/bin/ansys241", opts.ExecFile)
	require.False(t, opts.AutoExit)
	require.False(t, opts.PrintCom)
	require.True(t, opts.ClearAtStart)

	// Fields the config leaves unset keep their defaults.
	require.True(t, opts.AddImports)
	require.True(t, opts.Header)
	require.True(t, opts.MacrosAsFunctions)
}

func TestLoadNormalizesLineEnding(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"unix", "\n"},
		{"windows", "\r\n"},
		{"\"\\n\"", "\n"},
	}

	for _, tt := range tests {
		dir := t.TempDir()
		path := filepath.Join(dir, ".apdl2py.yml")
		writeFile(t, path, "line_ending: "+tt.value+"\n")

		cfg, err := Load(path)
		require.NoError(t, err)

		opts := cfg.Apply(apdl2py.DefaultOptions())
		require.Equal(t, tt.want, opts.LineEnding)
	}
}

func TestLoadRejectsUnknownLineEnding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".apdl2py.yml")
	writeFile(t, path, "line_ending: mac\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), `invalid line ending "mac"`)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".apdl2py.yml")
	writeFile(t, path, "loglevel: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestDiscoverFindsNearestConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	mid := filepath.Join(root, "models")
	leaf := filepath.Join(mid, "plate")
	require.NoError(t, os.MkdirAll(leaf, 0755))

	want := filepath.Join(mid, ".apdl2py.yml")
	writeFile(t, want, "loglevel: INFO\n")

	got, err := Discover(leaf)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDiscoverPrefersHiddenName(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".apdl2py.yml")
	plain := filepath.Join(dir, "apdl2py.yml")
	writeFile(t, hidden, "loglevel: INFO\n")
	writeFile(t, plain, "loglevel: DEBUG\n")

	got, err := Discover(dir)
	require.NoError(t, err)
	require.Equal(t, hidden, got)
}

func TestDiscoverStopsAtVCSRoot(t *testing.T) {
	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".apdl2py.yml"), "loglevel: INFO\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))

	leaf := filepath.Join(repo, "models")
	require.NoError(t, os.MkdirAll(leaf, 0755))

	got, err := Discover(leaf)
	require.NoError(t, err)
	require.Empty(t, got)
}
