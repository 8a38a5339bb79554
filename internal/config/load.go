package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/julianshen/srcdocs/internal/comment"
	"github.com/julianshen/srcdocs/internal/template"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// DefaultFileNames are looked up, in order, in the destination directory
// when no configuration file is given explicitly.
var DefaultFileNames = []string{".srcdocs.toml", ".srcdocs.yaml", ".srcdocs.yml"}

// Load reads and validates the configuration file at path. Files ending in
// .yaml or .yml are parsed as YAML, anything else as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: %s: unknown keys: %s", ErrInvalid, path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve finds the configuration for a run writing into dest. An explicit
// path must exist. Otherwise the DefaultFileNames are tried inside dest and
// DefaultConfig is returned when none is present. The returned path is
// empty when the defaults are used.
func Resolve(dest, explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	for _, name := range DefaultFileNames {
		path := filepath.Join(dest, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		cfg, err := Load(path)
		return cfg, path, err
	}
	return DefaultConfig(), "", nil
}

// Validate checks the header version, the comment syntaxes and the
// template rules.
func (c *Config) Validate() error {
	if err := validateVersion(c.Header.Version); err != nil {
		return err
	}
	if _, err := c.SyntaxTable(); err != nil {
		return err
	}
	if _, err := c.Engine(nil); err != nil {
		return err
	}
	return nil
}

func validateVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: header.version is required", ErrInvalid)
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: header.version %q: %v", ErrInvalid, v, err)
	}
	constraint, err := semver.NewConstraint(VersionConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: header.version %s is incompatible with %s", ErrInvalid, v, VersionConstraint)
	}
	return nil
}

// SyntaxTable compiles the configured comment syntaxes followed by the
// built-in ones.
func (c *Config) SyntaxTable() (*comment.Table, error) {
	syntaxes := make([]*comment.Syntax, 0, len(c.Comment))
	for i, cc := range c.Comment {
		s, err := comment.Compile(comment.Spec{
			Extension: cc.Extension,
			Start:     cc.Start,
			EachLine:  cc.EachLine,
			Stop:      cc.Stop,
			Order:     cc.Order,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: comment[%d]: %w", ErrInvalid, i, err)
		}
		syntaxes = append(syntaxes, s)
	}
	syntaxes = append(syntaxes, comment.DefaultSyntaxes()...)
	return comment.NewTable(syntaxes...), nil
}

// Engine compiles the template rules.
func (c *Config) Engine(logger *zap.Logger) (*template.Engine, error) {
	rules := make([]*template.Rule, 0, len(c.Template.Foreach))
	for i, t := range c.Template.Foreach {
		order := template.FixedOrder(t.Order.Number)
		if t.Order.IsExpr {
			var err error
			if order, err = template.ExprOrder(t.Order.Expr); err != nil {
				return nil, fmt.Errorf("%w: template.foreach[%d]: %w", ErrInvalid, i, err)
			}
		}
		r, err := template.NewRule(t.Tags, t.File, order, t.Output)
		if err != nil {
			return nil, fmt.Errorf("%w: template.foreach[%d]: %w", ErrInvalid, i, err)
		}
		rules = append(rules, r)
	}

	aggregates := make([]*template.AggregateRule, 0, len(c.Template.All))
	for i, t := range c.Template.All {
		r, err := template.NewAggregateRule(t.Tags, t.File, t.Order, t.Output)
		if err != nil {
			return nil, fmt.Errorf("%w: template.all[%d]: %w", ErrInvalid, i, err)
		}
		aggregates = append(aggregates, r)
	}

	return template.NewEngine(rules, aggregates, logger), nil
}
