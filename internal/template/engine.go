// Package template routes extracted fragments to output documents using
// mustache templates.
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"
	"go.uber.org/zap"

	"github.com/julianshen/srcdocs/internal/comment"
)

// ErrInvalidRule is returned when a rule cannot be compiled.
var ErrInvalidRule = errors.New("invalid template rule")

// ItemsKey is the variable holding the matched fragments in an aggregate
// rule's output template.
const ItemsKey = "items"

// Requirement is one entry of a rule's required-tag set. A bare name only
// requires the tag to be present; "name=value" also requires its value.
type Requirement struct {
	Tag      string
	Value    string
	HasValue bool
}

// ParseRequirement parses "name" or "name=value".
func ParseRequirement(s string) (Requirement, error) {
	name, value, hasValue := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return Requirement{}, fmt.Errorf("%w: empty tag in %q", ErrInvalidRule, s)
	}
	if name == comment.BodyKey {
		return Requirement{}, fmt.Errorf("%w: %w", ErrInvalidRule, comment.ErrReservedTag)
	}
	return Requirement{Tag: name, Value: strings.TrimSpace(value), HasValue: hasValue}, nil
}

func (r Requirement) matches(tags map[string]string) bool {
	v, ok := tags[r.Tag]
	if !ok {
		return false
	}
	return !r.HasValue || v == r.Value
}

func parseRequirements(tags []string) ([]Requirement, error) {
	reqs := make([]Requirement, 0, len(tags))
	for _, t := range tags {
		r, err := ParseRequirement(t)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

func matchesAll(reqs []Requirement, tags map[string]string) bool {
	for _, r := range reqs {
		if !r.matches(tags) {
			return false
		}
	}
	return true
}

// Rule is rendered once for every fragment that carries its required tags.
type Rule struct {
	Tags   []Requirement
	Order  Order
	file   *mustache.Template
	output *mustache.Template
}

// NewRule compiles a per-fragment rule.
func NewRule(tags []string, file string, order Order, output string) (*Rule, error) {
	reqs, err := parseRequirements(tags)
	if err != nil {
		return nil, err
	}
	fileTmpl, err := compile("file", file)
	if err != nil {
		return nil, err
	}
	outTmpl, err := compile("output", output)
	if err != nil {
		return nil, err
	}
	return &Rule{Tags: reqs, Order: order, file: fileTmpl, output: outTmpl}, nil
}

// AggregateRule is rendered once over all fragments that carry its
// required tags.
type AggregateRule struct {
	Tags   []Requirement
	File   string
	Order  float64
	output *mustache.Template
}

// NewAggregateRule compiles an aggregate rule. file and order are used as
// given.
func NewAggregateRule(tags []string, file string, order float64, output string) (*AggregateRule, error) {
	reqs, err := parseRequirements(tags)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidRule)
	}
	outTmpl, err := compile("output", output)
	if err != nil {
		return nil, err
	}
	return &AggregateRule{Tags: reqs, File: file, Order: order, output: outTmpl}, nil
}

func compile(field, src string) (*mustache.Template, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidRule, field)
	}
	tmpl, err := mustache.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRule, field, err)
	}
	return tmpl, nil
}

// Block is one rendered piece of an output document.
type Block struct {
	Order float64
	Body  string
}

// Result maps a destination path to its blocks in the order they were
// produced.
type Result map[string][]Block

func (r Result) add(path string, b Block) {
	r[path] = append(r[path], b)
}

// Engine applies rules to fragments.
type Engine struct {
	rules      []*Rule
	aggregates []*AggregateRule
	logger     *zap.Logger
}

// NewEngine returns an engine for the given rules. An engine without rules
// routes fragments by their own file tag only.
func NewEngine(rules []*Rule, aggregates []*AggregateRule, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{rules: rules, aggregates: aggregates, logger: logger}
}

// Apply renders every rule against frags. Per-fragment rules run first,
// then aggregate rules, then fragments with a file tag that no rule
// matched are routed to that file with their own order.
func (e *Engine) Apply(frags []comment.Fragment) (Result, error) {
	result := Result{}
	claimed := make([]bool, len(frags))

	for ri, rule := range e.rules {
		for fi := range frags {
			f := &frags[fi]
			if !matchesAll(rule.Tags, f.Tags) {
				continue
			}
			claimed[fi] = true
			if err := e.applyRule(rule, f, result); err != nil {
				return nil, fmt.Errorf("template.foreach[%d] (%s): %w", ri, f.Source, err)
			}
		}
	}

	for ai, agg := range e.aggregates {
		items := make([]map[string]string, 0)
		for fi := range frags {
			if !matchesAll(agg.Tags, frags[fi].Tags) {
				continue
			}
			claimed[fi] = true
			items = append(items, fragmentContext(&frags[fi]))
		}
		body, err := agg.output.Render(map[string]interface{}{ItemsKey: items})
		if err != nil {
			return nil, fmt.Errorf("template.all[%d]: rendering output: %w", ai, err)
		}
		result.add(agg.File, Block{Order: agg.Order, Body: body})
	}

	for fi := range frags {
		if claimed[fi] {
			continue
		}
		file, ok := frags[fi].Tags[comment.FileTag]
		if !ok {
			continue
		}
		result.add(file, Block{Order: frags[fi].Order, Body: frags[fi].Body})
	}

	return result, nil
}

func (e *Engine) applyRule(rule *Rule, f *comment.Fragment, result Result) error {
	ctx := fragmentContext(f)

	file, err := rule.file.Render(ctx)
	if err != nil {
		return fmt.Errorf("rendering file: %w", err)
	}
	order, err := rule.Order.Eval(ctx, e.logger.With(zap.String("source", f.Source), zap.String("file", file)))
	if err != nil {
		return err
	}
	body, err := rule.output.Render(ctx)
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}

	result.add(file, Block{Order: order, Body: body})
	return nil
}

// fragmentContext returns the template variables for f: every tag plus
// the body under __body__.
func fragmentContext(f *comment.Fragment) map[string]string {
	ctx := make(map[string]string, len(f.Tags)+1)
	for k, v := range f.Tags {
		ctx[k] = v
	}
	ctx[comment.BodyKey] = f.Body
	return ctx
}
