package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := rootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionString(t *testing.T) {
	s := versionString()
	assert.Contains(t, s, "srcdocs")
	assert.Contains(t, s, version)
	assert.Contains(t, s, commit)
	assert.Contains(t, s, date)
}

func TestVersionStringDefaults(t *testing.T) {
	s := versionString()
	assert.Contains(t, s, "dev")
	assert.Contains(t, s, "none")
	assert.Contains(t, s, "unknown")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, versionString()+"\n", stdout)
}

func TestRootCmdDefaultFlags(t *testing.T) {
	cmd := rootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, "srcdocs [source...]", cmd.Use)

	dest, _ := cmd.PersistentFlags().GetString("dest")
	assert.Equal(t, ".", dest)

	verbose, _ := cmd.PersistentFlags().GetBool("verbose")
	assert.False(t, verbose)

	configPath, _ := cmd.PersistentFlags().GetString("config")
	assert.Empty(t, configPath)
}

func TestRootCmdGeneratesDocumentation(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "a.go"), "/**\n * @file guide.md\n * @order 2\n * second\n */\n")
	writeFile(t, filepath.Join(src, "b.sh"), "# @file guide.md\n# first\n")

	stdout, _, err := execute(t, "-d", dest, src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Successfully generated documentation.")

	data, err := os.ReadFile(filepath.Join(dest, "guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestRootCmdUsesConfigInDest(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, ".srcdocs.toml"), `
[header]
version = "0.2.1"

[[template.foreach]]
tags = ["name"]
file = "{{name}}.md"
output = "# {{name}}\n{{__body__}}"
`)
	writeFile(t, filepath.Join(src, "a.go"), "/**\n * @name Widget\n * makes widgets\n */\n")

	_, _, err := execute(t, "--dest", dest, src)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "Widget.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Widget\nmakes widgets\n", string(data))
}

func TestRootCmdMissingDest(t *testing.T) {
	_, _, err := execute(t, "-d", filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.Error(t, err)
}

func TestRootCmdBadConfig(t *testing.T) {
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, ".srcdocs.toml"), "[header]\nversion = \"9.0.0\"\n")

	_, _, err := execute(t, "-d", dest, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestRootCmdVerboseLogsSkippedFiles(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "notes.txt"), "plain text\n")

	_, stderr, err := execute(t, "-v", "-d", t.TempDir(), src)
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipping file without a matching extension")
}
