package comment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// BodyKey is the template variable bound to a fragment's body. It may
	// not be used as a tag.
	BodyKey = "__body__"
	// FileTag names the destination of a fragment when no template claims it.
	FileTag = "file"
	// OrderTag holds a fragment's numeric sort key.
	OrderTag = "order"
)

// ErrReservedTag is returned when a comment uses the reserved __body__ tag.
// It is fatal for the whole run.
var ErrReservedTag = errors.New("the tag `" + BodyKey + "` is reserved")

var tagPattern = regexp.MustCompile(`.*@(\S+)\s+(.*)`)

// Fragment is one extracted comment block.
type Fragment struct {
	Tags   map[string]string
	Order  float64
	Body   string
	Source string
}

// Parser groups extractor events into fragments.
type Parser struct {
	events EventSource
	source string
	logger *zap.Logger
	err    error
}

// NewParser returns a parser reading events for the file named source.
// A nil logger discards diagnostics.
func NewParser(events EventSource, source string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{events: events, source: source, logger: logger}
}

// Next returns the next fragment that has at least one body line. Blocks
// made only of tags are skipped. It returns false when the events are
// exhausted or an error occurred; check Err afterwards.
func (p *Parser) Next() (Fragment, bool) {
	if p.err != nil {
		return Fragment{}, false
	}
	for {
		frag, hasBody, more, err := p.block()
		if err != nil {
			p.err = err
			return Fragment{}, false
		}
		if hasBody {
			return frag, true
		}
		if !more {
			return Fragment{}, false
		}
	}
}

// Err returns the error that stopped the parser, if any.
func (p *Parser) Err() error {
	return p.err
}

// block consumes events up to and including the next Last event. more is
// false when the event source ran dry before a Last event was seen.
func (p *Parser) block() (frag Fragment, hasBody, more bool, err error) {
	frag = Fragment{Tags: map[string]string{}, Source: p.source}
	var body strings.Builder

	for {
		ev, ok := p.events.Next()
		if !ok {
			frag.Body = body.String()
			return frag, hasBody, false, nil
		}
		if ev.Last {
			frag.Body = body.String()
			return frag, hasBody, true, nil
		}

		m := tagPattern.FindStringSubmatch(ev.Text)
		if m == nil {
			hasBody = true
			body.WriteString(ev.Text)
			body.WriteByte('\n')
			continue
		}

		tag, value := m[1], strings.TrimSpace(m[2])
		switch tag {
		case BodyKey:
			return Fragment{}, false, false, fmt.Errorf("%s: %w", p.source, ErrReservedTag)
		case OrderTag:
			frag.Order = ParseOrder(value, p.logger.With(zap.String("source", p.source)))
		}
		frag.Tags[tag] = value
	}
}

// ParseOrder parses an order value. Malformed values are logged and
// treated as 0.
func ParseOrder(value string, logger *zap.Logger) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		if logger != nil {
			logger.Warn("invalid @order value, using 0", zap.String("value", value), zap.Error(err))
		}
		return 0
	}
	return n
}

// ParseLines extracts every fragment from lines using syntax.
func ParseLines(lines LineSource, syntax *Syntax, source string, logger *zap.Logger) ([]Fragment, error) {
	p := NewParser(NewExtractor(lines, syntax), source, logger)
	var frags []Fragment
	for {
		frag, ok := p.Next()
		if !ok {
			break
		}
		frags = append(frags, frag)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return frags, nil
}
