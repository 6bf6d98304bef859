// Package conflict strips version-control conflict markers from text.
//
// Resolution runs in two passes over the lines of a file. The scan pass finds
// conflict sections: every start marker is paired with the nearest following
// separator, and the section extends to the nearest end marker after that.
// Separator-to-end runs are removed even when no start is open, as long as
// the text holds at least one start marker. Nesting is not tracked, so under
// the default ShortestMatch policy a nested or malformed conflict is collapsed
// mechanically and may not match what the author meant. The Strict policy reports those inputs as errors instead.
// The collapse pass rebuilds the text with each section replaced by the
// chosen side.
package conflict

import (
	"strings"
)

const (
	startToken  = "<<<<<<<"
	baseToken   = "|||||||"
	middleToken = "======="
	endToken    = ">>>>>>>"
)

type markerKind int

const (
	textLine markerKind = iota
	startMarker
	baseMarker
	middleMarker
	endMarker
	bareEndMarker
)

// span is a section located by the scan pass, in 0-based line indexes.
// A span without starts is a separator-to-end run with no open conflict.
type span struct {
	starts []int
	base   int
	middle int
	end    int
}

func (s span) first() int {
	if len(s.starts) == 0 {
		return s.middle
	}
	return s.starts[0]
}

// Resolve returns text with every conflict section replaced by the side
// picked in opts. Text without start markers is returned unchanged.
func Resolve(text string, opts Options) (Result, error) {
	if !HasMarkers(text) {
		return Result{Text: text}, nil
	}

	lines := splitLines(text)
	spans, unresolved, err := scan(lines, opts.Policy)
	if err != nil {
		return Result{Text: text}, err
	}

	out := collapse(lines, spans, opts.Choice)
	return Result{
		Text:       out,
		Sections:   sections(lines, spans),
		Unresolved: unresolved,
		Changed:    out != text,
	}, nil
}

// Parse reports the conflict sections in text without resolving them.
func Parse(text string, policy Policy) ([]Section, error) {
	lines := splitLines(text)
	spans, _, err := scan(lines, policy)
	if err != nil {
		return nil, err
	}
	return sections(lines, spans), nil
}

// HasMarkers reports whether text contains at least one start marker line.
func HasMarkers(text string) bool {
	for _, line := range splitLines(text) {
		if classify(line) == startMarker {
			return true
		}
	}
	return false
}

func scan(lines []string, policy Policy) ([]span, int, error) {
	strict := policy == Strict

	var spans []span
	var pending []int
	base := -1

	for i := 0; i < len(lines); i++ {
		switch classify(lines[i]) {
		case startMarker:
			if strict && len(pending) > 0 {
				return nil, 0, malformed(i, "start marker inside an open conflict")
			}
			pending = append(pending, i)

		case baseMarker:
			if len(pending) == 0 {
				if strict {
					return nil, 0, malformed(i, "base marker outside a conflict")
				}
				continue
			}
			if base >= 0 {
				if strict {
					return nil, 0, malformed(i, "second base marker in one conflict")
				}
				continue
			}
			base = i

		case middleMarker:
			if len(pending) == 0 {
				if strict {
					return nil, 0, malformed(i, "separator outside a conflict")
				}
				// Separator and end markers pair on their own, so the tail
				// of an outer conflict is dropped like any other.
				end, _ := nextEnd(lines, i+1, false)
				if end < 0 {
					continue
				}
				spans = append(spans, span{base: -1, middle: i, end: end})
				i = end
				continue
			}
			end, err := nextEnd(lines, i+1, strict)
			if err != nil {
				return nil, 0, err
			}
			if end < 0 {
				if strict {
					return nil, 0, malformed(pending[0], "conflict is never closed")
				}
				return spans, len(pending) + countStarts(lines[i+1:]), nil
			}
			spans = append(spans, span{starts: pending, base: base, middle: i, end: end})
			pending = nil
			base = -1
			i = end

		case endMarker:
			if strict {
				if len(pending) > 0 {
					return nil, 0, malformed(i, "end marker before separator")
				}
				return nil, 0, malformed(i, "end marker outside a conflict")
			}

		case bareEndMarker:
			if strict {
				return nil, 0, malformed(i, "end marker without a label")
			}
		}
	}

	if strict && len(pending) > 0 {
		return nil, 0, malformed(pending[0], "conflict is never closed")
	}
	return spans, len(pending), nil
}

// nextEnd finds the nearest end marker at or after from. In strict mode any
// other marker met on the way is an error.
func nextEnd(lines []string, from int, strict bool) (int, error) {
	for j := from; j < len(lines); j++ {
		kind := classify(lines[j])
		if kind == endMarker {
			return j, nil
		}
		if !strict || kind == textLine {
			continue
		}
		switch kind {
		case startMarker:
			return -1, malformed(j, "start marker inside an open conflict")
		case bareEndMarker:
			return -1, malformed(j, "end marker without a label")
		default:
			return -1, malformed(j, "unexpected marker after separator")
		}
	}
	return -1, nil
}

func collapse(lines []string, spans []span, choice ResolutionChoice) string {
	var b strings.Builder
	next := 0
	for _, s := range spans {
		for _, line := range lines[next:s.first()] {
			b.WriteString(line)
		}

		ours, _, theirs := sides(lines, s)
		switch choice {
		case ChooseTheirs:
			b.WriteString(theirs)
		case ChooseBoth:
			b.WriteString(ours)
			b.WriteString(theirs)
		default:
			b.WriteString(ours)
		}
		next = s.end + 1
	}
	for _, line := range lines[next:] {
		b.WriteString(line)
	}
	return b.String()
}

func sections(lines []string, spans []span) []Section {
	out := make([]Section, 0, len(spans))
	for _, s := range spans {
		if len(s.starts) == 0 {
			continue
		}
		ours, base, theirs := sides(lines, s)
		out = append(out, Section{
			StartLine:    s.starts[0] + 1,
			EndLine:      s.end + 1,
			OurLabel:     label(lines[s.starts[0]]),
			TheirLabel:   label(lines[s.end]),
			OurChanges:   ours,
			BaseContent:  base,
			TheirChanges: theirs,
		})
	}
	return out
}

// sides splits a span into its ours, base and theirs text. Extra start
// markers left pending inside the ours side are dropped. A span without
// starts has an empty ours side.
func sides(lines []string, s span) (string, string, string) {
	var ours strings.Builder
	if len(s.starts) > 0 {
		oursEnd := s.middle
		if s.base >= 0 {
			oursEnd = s.base
		}
		for _, line := range lines[s.starts[0]+1 : oursEnd] {
			if classify(line) == startMarker {
				continue
			}
			ours.WriteString(line)
		}
	}

	var base string
	if s.base >= 0 {
		base = strings.Join(lines[s.base+1:s.middle], "")
	}
	theirs := strings.Join(lines[s.middle+1:s.end], "")
	return ours.String(), base, theirs
}

func classify(line string) markerKind {
	l := trimEOL(line)
	switch {
	case isMarker(l, startToken):
		return startMarker
	case isMarker(l, baseToken):
		return baseMarker
	case l == middleToken:
		return middleMarker
	case l == endToken:
		return bareEndMarker
	case strings.HasPrefix(l, endToken+" "):
		if strings.TrimSpace(l[len(endToken):]) == "" {
			return bareEndMarker
		}
		return endMarker
	}
	return textLine
}

func isMarker(line, token string) bool {
	return line == token || strings.HasPrefix(line, token+" ")
}

func label(line string) string {
	l := trimEOL(line)
	if len(l) <= len(startToken) {
		return ""
	}
	return strings.TrimSpace(l[len(startToken):])
}

func countStarts(lines []string) int {
	n := 0
	for _, line := range lines {
		if classify(line) == startMarker {
			n++
		}
	}
	return n
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// splitLines keeps line terminators so the collapse pass can copy lines
// byte for byte.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func malformed(index int, reason string) error {
	return &MalformedError{Line: index + 1, Reason: reason}
}
