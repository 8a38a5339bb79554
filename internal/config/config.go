package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Version is the configuration format version written by this build.
const Version = "0.2.1"

// VersionConstraint lists the configuration versions this build accepts.
const VersionConstraint = "~0.2"

// Config represents a srcdocs configuration file.
type Config struct {
	Header   Header          `toml:"header" yaml:"header"`
	Template TemplateConfig  `toml:"template" yaml:"template"`
	Comment  []CommentConfig `toml:"comment" yaml:"comment"`
}

// Header identifies the configuration format.
type Header struct {
	Version string `toml:"version" yaml:"version"`
}

// TemplateConfig holds the template rules. Per-fragment rules are applied
// before aggregate rules.
type TemplateConfig struct {
	Foreach []ForeachTemplate `toml:"foreach" yaml:"foreach"`
	All     []AllTemplate     `toml:"all" yaml:"all"`
}

// ForeachTemplate is rendered once for each fragment carrying Tags.
type ForeachTemplate struct {
	Tags   []string   `toml:"tags" yaml:"tags"`
	File   string     `toml:"file" yaml:"file"`
	Order  OrderValue `toml:"order" yaml:"order"`
	Output string     `toml:"output" yaml:"output"`
}

// AllTemplate is rendered once over every fragment carrying Tags.
type AllTemplate struct {
	Tags   []string `toml:"tags" yaml:"tags"`
	File   string   `toml:"file" yaml:"file"`
	Order  float64  `toml:"order" yaml:"order"`
	Output string   `toml:"output" yaml:"output"`
}

// CommentConfig describes the comment syntax for matching files.
type CommentConfig struct {
	Extension string  `toml:"extension" yaml:"extension"`
	Start     string  `toml:"start" yaml:"start"`
	EachLine  string  `toml:"each_line" yaml:"each_line"`
	Stop      string  `toml:"stop" yaml:"stop"`
	Order     float64 `toml:"order" yaml:"order"`
}

// OrderValue is either a number or a template string.
type OrderValue struct {
	Number float64
	Expr   string
	IsExpr bool
}

// UnmarshalTOML implements toml.Unmarshaler.
func (o *OrderValue) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*o = OrderValue{Number: float64(x)}
	case float64:
		*o = OrderValue{Number: x}
	case string:
		*o = OrderValue{Expr: x, IsExpr: true}
	default:
		return fmt.Errorf("order must be a number or a template string, got %T", v)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *OrderValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: order must be a number or a template string", node.Line)
	}
	if node.Tag == "!!int" || node.Tag == "!!float" {
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: order: %w", node.Line, err)
		}
		*o = OrderValue{Number: n}
		return nil
	}
	*o = OrderValue{Expr: node.Value, IsExpr: true}
	return nil
}

// DefaultConfig returns the configuration used when no file is present:
// the built-in comment syntaxes and no templates.
func DefaultConfig() *Config {
	return &Config{
		Header: Header{Version: Version},
	}
}
