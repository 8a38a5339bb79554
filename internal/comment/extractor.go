package comment

// LineSource yields the lines of one file. *bufio.Scanner satisfies it.
type LineSource interface {
	Scan() bool
	Text() string
}

// Lines adapts an in-memory slice to a LineSource.
func Lines(lines []string) LineSource {
	return &sliceSource{lines: lines, pos: -1}
}

type sliceSource struct {
	lines []string
	pos   int
}

func (s *sliceSource) Scan() bool {
	if s.pos+1 >= len(s.lines) {
		s.pos = len(s.lines)
		return false
	}
	s.pos++
	return true
}

func (s *sliceSource) Text() string {
	if s.pos < 0 || s.pos >= len(s.lines) {
		return ""
	}
	return s.lines[s.pos]
}

// Event is one unit of extractor output. An event with Last set closes the
// current comment block and carries no text.
type Event struct {
	Text string
	Last bool
}

// EventSource yields extractor events. *Extractor satisfies it.
type EventSource interface {
	Next() (Event, bool)
}

// Extractor turns the lines of a single file into comment events according
// to a Syntax. It holds one bit of state: whether the previous line left it
// inside a comment block.
type Extractor struct {
	lines  LineSource
	syntax *Syntax
	inside bool
}

// NewExtractor returns an extractor reading from lines.
func NewExtractor(lines LineSource, syntax *Syntax) *Extractor {
	return &Extractor{lines: lines, syntax: syntax}
}

// Next returns the next event, or false once the input is exhausted. Lines
// that produce no event are consumed without returning. A block that is
// still open at end of input is closed with a final Last event, so every
// block ends with exactly one Last event.
func (e *Extractor) Next() (Event, bool) {
	for {
		if !e.lines.Scan() {
			if e.inside {
				e.inside = false
				return Event{Last: true}, true
			}
			return Event{}, false
		}
		if ev, ok := e.step(e.lines.Text()); ok {
			return ev, true
		}
	}
}

func (e *Extractor) step(line string) (Event, bool) {
	if e.syntax.Delimited() {
		return e.stepDelimited(line)
	}
	return e.stepSingleLine(line)
}

func (e *Extractor) stepDelimited(line string) (Event, bool) {
	if !e.inside {
		if e.syntax.Start.MatchString(line) {
			e.inside = true
		}
		return Event{}, false
	}
	if e.syntax.Stop.MatchString(line) {
		e.inside = false
		return Event{Last: true}, true
	}
	if e.syntax.EachLine != nil {
		if text, ok := firstGroup(e.syntax.EachLine.FindStringSubmatchIndex(line), line); ok {
			return Event{Text: text}, true
		}
	}
	// Lines the each-line pattern does not recognize (blank lines, for
	// instance) still belong to the block.
	return Event{Text: line}, true
}

func (e *Extractor) stepSingleLine(line string) (Event, bool) {
	loc := e.syntax.EachLine.FindStringSubmatchIndex(line)
	if loc == nil {
		if e.inside {
			e.inside = false
			return Event{Last: true}, true
		}
		return Event{}, false
	}
	e.inside = true
	if text, ok := firstGroup(loc, line); ok {
		return Event{Text: text}, true
	}
	return Event{}, false
}

// firstGroup returns capture group 1 from a FindStringSubmatchIndex result.
func firstGroup(loc []int, line string) (string, bool) {
	if len(loc) < 4 || loc[2] < 0 {
		return "", false
	}
	return line[loc[2]:loc[3]], true
}
