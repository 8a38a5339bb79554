package comment

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ErrInvalidSyntax is returned when a comment syntax descriptor cannot be
// compiled.
var ErrInvalidSyntax = errors.New("invalid comment syntax")

// Spec is the uncompiled form of a comment syntax descriptor, as it appears
// in configuration files.
type Spec struct {
	Extension string
	Start     string
	EachLine  string
	Stop      string
	Order     float64
}

// Syntax describes how documentation comments look in files whose name
// matches Extension. A Syntax is either delimited (Start and Stop are both
// set) or line based (neither is set and EachLine matches every comment
// line independently).
type Syntax struct {
	Extension string
	Order     float64
	Start     *regexp.Regexp
	EachLine  *regexp.Regexp
	Stop      *regexp.Regexp

	matcher glob.Glob
}

// Compile validates spec and returns the compiled descriptor.
func Compile(spec Spec) (*Syntax, error) {
	if strings.TrimSpace(spec.Extension) == "" {
		return nil, fmt.Errorf("%w: extension is required", ErrInvalidSyntax)
	}
	if (spec.Start == "") != (spec.Stop == "") {
		return nil, fmt.Errorf("%w: %s: start and stop must both be present, or they must both be absent", ErrInvalidSyntax, spec.Extension)
	}
	if spec.Start == "" && spec.EachLine == "" {
		return nil, fmt.Errorf("%w: %s: each_line is required when start and stop are absent", ErrInvalidSyntax, spec.Extension)
	}

	matcher, err := glob.Compile(strings.ToLower(spec.Extension), '/')
	if err != nil {
		return nil, fmt.Errorf("%w: extension %q: %v", ErrInvalidSyntax, spec.Extension, err)
	}

	s := &Syntax{
		Extension: spec.Extension,
		Order:     spec.Order,
		matcher:   matcher,
	}
	if s.Start, err = compileOptional(spec.Extension, "start", spec.Start); err != nil {
		return nil, err
	}
	if s.EachLine, err = compileOptional(spec.Extension, "each_line", spec.EachLine); err != nil {
		return nil, err
	}
	if s.Stop, err = compileOptional(spec.Extension, "stop", spec.Stop); err != nil {
		return nil, err
	}
	return s, nil
}

func compileOptional(ext, field, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %v", ErrInvalidSyntax, ext, field, err)
	}
	return re, nil
}

// Delimited reports whether comments are bracketed by start/stop lines.
func (s *Syntax) Delimited() bool {
	return s.Start != nil
}

// Matches reports whether the descriptor applies to file. Both the full
// slash-separated path and the bare file name are tried; matching ignores
// case.
func (s *Syntax) Matches(file string) bool {
	p := strings.ToLower(filepath.ToSlash(file))
	return s.matcher.Match(p) || s.matcher.Match(path.Base(p))
}

// Table is an ordered list of descriptors. The first descriptor that
// matches a file wins; Order breaks ties between overlapping patterns and
// insertion order breaks ties between equal orders.
type Table struct {
	entries []*Syntax
}

// NewTable builds a table from syntaxes, stably sorted by Order.
func NewTable(syntaxes ...*Syntax) *Table {
	entries := make([]*Syntax, len(syntaxes))
	copy(entries, syntaxes)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
	return &Table{entries: entries}
}

// Lookup returns the descriptor to use for file.
func (t *Table) Lookup(file string) (*Syntax, bool) {
	for _, s := range t.entries {
		if s.Matches(file) {
			return s, true
		}
	}
	return nil, false
}

// Len returns the number of descriptors in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

var defaultSpecs = []Spec{
	{
		Extension: "*.{c,cpp,java,h,hpp,c++,h++,cxx,hxx,groovy,v,js,cs,ts,jsx,tsx,go,zig,kt,kts,d,swift,php,css,scala,dart,m}",
		Start:     `^\s*/\*\*\s*$`,
		EachLine:  `^\s*\*\s?(.*)`,
		Stop:      `^\s*\*/+\s*`,
	},
	{
		Extension: "*.{rb,r,sh,pl,pm,jl,awk,nim,crystal,tcl}",
		EachLine:  `^\s*#\s?(.*)$`,
	},
	{
		Extension: "*.{asm,s,clj,el,lisp,scm,ss,rkt}",
		EachLine:  `^\s*;\s?(.*)$`,
		Order:     1,
	},
	{
		Extension: "*.{vb,vba}",
		EachLine:  `^\s*'\s?(.*)$`,
		Order:     1,
	},
	{
		Extension: "*.{f,for,f90,f95,fortran}",
		EachLine:  `^\s*!\s?(.*)$`,
		Order:     1,
	},
	{
		Extension: "*.{lua,hs,elm,sql}",
		EachLine:  `^\s*--\s?(.*)$`,
	},
	{
		Extension: "*.{py,pyi}",
		Start:     `^\s*"""\s*$`,
		Stop:      `^\s*"""\s*$`,
	},
	{
		Extension: "*.rs",
		EachLine:  `^\s*///\s?(.*)$`,
	},
	{
		Extension: "*.jl",
		Start:     `^\s*#=\s*$`,
		Stop:      `^\s*=#\s*$`,
	},
}

// defaultSyntaxes is compiled once and never mutated afterwards.
var defaultSyntaxes = mustCompileAll(defaultSpecs)

func mustCompileAll(specs []Spec) []*Syntax {
	out := make([]*Syntax, 0, len(specs))
	for _, spec := range specs {
		s, err := Compile(spec)
		if err != nil {
			panic(err)
		}
		out = append(out, s)
	}
	return out
}

// DefaultSyntaxes returns the built-in descriptors in priority order. The
// returned slice is a copy; the descriptors themselves are shared and must
// not be modified.
func DefaultSyntaxes() []*Syntax {
	out := make([]*Syntax, len(defaultSyntaxes))
	copy(out, defaultSyntaxes)
	return out
}

// DefaultTable returns a table holding only the built-in descriptors.
func DefaultTable() *Table {
	return NewTable(defaultSyntaxes...)
}
