package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/srcdocs/internal/comment"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, Version, cfg.Header.Version)
	assert.Empty(t, cfg.Template.Foreach)
	assert.Empty(t, cfg.Template.All)
	require.NoError(t, cfg.Validate())

	table, err := cfg.SyntaxTable()
	require.NoError(t, err)
	assert.Equal(t, comment.DefaultTable().Len(), table.Len())
}

func TestLoadFromFile(t *testing.T) {
	tomlContent := `
[header]
version = "0.2.0"

[[template.foreach]]
tags = ["kind=api", "name"]
file = "{{name}}.md"
order = "{{order}}"
output = "### {{name}}\n{{__body__}}"

[[template.foreach]]
tags = ["kind=guide"]
file = "guide.md"
order = 3
output = "{{__body__}}"

[[template.all]]
tags = ["kind=api"]
file = "index.md"
order = -1.5
output = "{{#items}}- {{name}}\n{{/items}}"

[[comment]]
extension = "*.foo"
each_line = '^\s*%\s?(.*)$'
order = -1
`
	cfg, err := Load(writeConfig(t, "srcdocs.toml", tomlContent))
	require.NoError(t, err)

	require.Len(t, cfg.Template.Foreach, 2)
	first := cfg.Template.Foreach[0]
	assert.Equal(t, []string{"kind=api", "name"}, first.Tags)
	assert.Equal(t, "{{name}}.md", first.File)
	assert.Equal(t, OrderValue{Expr: "{{order}}", IsExpr: true}, first.Order)
	assert.Equal(t, "### {{name}}\n{{__body__}}", first.Output)
	assert.Equal(t, OrderValue{Number: 3}, cfg.Template.Foreach[1].Order)

	require.Len(t, cfg.Template.All, 1)
	assert.Equal(t, -1.5, cfg.Template.All[0].Order)

	require.Len(t, cfg.Comment, 1)
	assert.Equal(t, `^\s*%\s?(.*)$`, cfg.Comment[0].EachLine)

	table, err := cfg.SyntaxTable()
	require.NoError(t, err)
	s, ok := table.Lookup("x.foo")
	require.True(t, ok)
	assert.Equal(t, "*.foo", s.Extension)
	_, ok = table.Lookup("main.go")
	assert.True(t, ok, "built-in syntaxes are kept")
}

func TestLoadYAML(t *testing.T) {
	yamlContent := `
header:
  version: "0.2.1"
template:
  foreach:
    - tags: [name]
      file: "{{name}}.md"
      order: 2
      output: "{{__body__}}"
    - tags: [name]
      file: "all.md"
      order: "{{order}}"
      output: "{{name}}"
comment:
  - extension: "*.tex"
    each_line: '^\s*%\s?(.*)$'
`
	cfg, err := Load(writeConfig(t, "srcdocs.yaml", yamlContent))
	require.NoError(t, err)
	require.Len(t, cfg.Template.Foreach, 2)
	assert.Equal(t, OrderValue{Number: 2}, cfg.Template.Foreach[0].Order)
	assert.Equal(t, OrderValue{Expr: "{{order}}", IsExpr: true}, cfg.Template.Foreach[1].Order)
	require.Len(t, cfg.Comment, 1)
	assert.Equal(t, "*.tex", cfg.Comment[0].Extension)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/srcdocs.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadInvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "bad.toml", "[invalid toml..."))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoadUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "x.toml", "[header]\nversion = \"0.2.0\"\nextra = 1\n"))
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "header.extra")

	_, err = Load(writeConfig(t, "x.yaml", "header:\n  version: \"0.2.0\"\nbogus: true\n"))
	require.Error(t, err)
}

func TestLoadRequiresHeaderVersion(t *testing.T) {
	_, err := Load(writeConfig(t, "x.toml", "[[comment]]\nextension = \"*.x\"\neach_line = '^#(.*)'\n"))
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "header.version")
}

func TestLoadRejectsIncompatibleVersion(t *testing.T) {
	_, err := Load(writeConfig(t, "x.toml", "[header]\nversion = \"0.3.0\"\n"))
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "incompatible")

	_, err = Load(writeConfig(t, "y.toml", "[header]\nversion = \"banana\"\n"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadRejectsStartWithoutStop(t *testing.T) {
	content := `
[header]
version = "0.2.1"

[[comment]]
extension = "*.x"
start = '^/\*$'
`
	_, err := Load(writeConfig(t, "x.toml", content))
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, err, comment.ErrInvalidSyntax)
	assert.Contains(t, err.Error(), "comment[0]")
}

func TestLoadRejectsBadTemplate(t *testing.T) {
	content := `
[header]
version = "0.2.1"

[[template.foreach]]
tags = ["x"]
file = "{{#x}}.md"
output = "body"
`
	_, err := Load(writeConfig(t, "x.toml", content))
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "template.foreach[0]")
}

func TestLoadRejectsBadOrderType(t *testing.T) {
	content := `
[header]
version = "0.2.1"

[[template.foreach]]
tags = ["x"]
file = "a.md"
order = true
output = "body"
`
	_, err := Load(writeConfig(t, "x.toml", content))
	require.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	cfg, path, err := Resolve(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolveFindsFileInDest(t *testing.T) {
	dest := t.TempDir()
	content := "[header]\nversion = \"0.2.1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dest, ".srcdocs.toml"), []byte(content), 0644))

	_, path, err := Resolve(dest, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, ".srcdocs.toml"), path)
}

func TestResolveFindsYAMLInDest(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, ".srcdocs.yaml"), []byte("header:\n  version: 0.2.1\n"), 0644))

	_, path, err := Resolve(dest, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, ".srcdocs.yaml"), path)
}

func TestResolveExplicitMustExist(t *testing.T) {
	_, _, err := Resolve(t.TempDir(), "/nonexistent/srcdocs.toml")
	require.Error(t, err)
}
