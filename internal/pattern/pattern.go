// Package pattern compiles and runs the route DSL's path capture grammar:
// literal fragments interleaved with two kinds of named capture, "(name)"
// (non-slash) and "(name..)" (lazy, may cross slashes).
//
// This is a purpose-built matcher, not a wrapper around regexp. The capture
// grammar is small enough that a hand-rolled scanner plus a short
// backtracking matcher is cheaper than pulling a general regex engine into
// the request hot path, and it keeps the non-greedy cross-slash semantics of
// "(name..)" explicit rather than encoded into a regex string.
package pattern

import "strings"

type segmentKind int

const (
	segLiteral segmentKind = iota
	segCapture
	segCaptureGreedy
)

type segment struct {
	kind segmentKind
	lit  string
	name string
}

// Matcher is a compiled path pattern, anchored at the start of a request
// path and, when exact, at the end too.
type Matcher struct {
	segments    []segment
	exact       bool
	hasPatterns bool
	raw         string
}

// Compile scans path for capture tokens and builds a Matcher. exact
// controls whether a successful match must also consume the entire input.
func Compile(path string, exact bool) *Matcher {
	segs, hasPatterns := scan(path)
	return &Matcher{segments: segs, exact: exact, hasPatterns: hasPatterns, raw: path}
}

// HasPatterns reports whether the compiled path contained any capture.
func (m *Matcher) HasPatterns() bool { return m.hasPatterns }

// Raw returns the original, uncompiled path text.
func (m *Matcher) Raw() string { return m.raw }

// LiteralLen is the sum of the literal fragment lengths, used as the
// length-based tie-breaker in the match-order key.
func (m *Matcher) LiteralLen() int {
	n := 0
	for _, s := range m.segments {
		if s.kind == segLiteral {
			n += len(s.lit)
		}
	}
	return n
}

// Match attempts to match path against the compiled pattern. On success it
// returns the named captures and the unmatched tail (always empty when the
// matcher is exact).
func (m *Matcher) Match(path string) (captures map[string]string, tail string, ok bool) {
	end, caps, matched := m.matchFrom(0, path, 0)
	if !matched {
		return nil, "", false
	}
	return caps, path[end:], true
}

func (m *Matcher) matchFrom(idx int, s string, pos int) (int, map[string]string, bool) {
	if idx == len(m.segments) {
		if m.exact && pos != len(s) {
			return 0, nil, false
		}
		return pos, map[string]string{}, true
	}

	seg := m.segments[idx]
	switch seg.kind {
	case segLiteral:
		if !strings.HasPrefix(s[pos:], seg.lit) {
			return 0, nil, false
		}
		return m.matchFrom(idx+1, s, pos+len(seg.lit))

	case segCapture:
		limit := nextSlash(s, pos)
		for l := limit - pos; l >= 1; l-- {
			if end, caps, ok := m.matchFrom(idx+1, s, pos+l); ok {
				caps[seg.name] = s[pos : pos+l]
				return end, caps, true
			}
		}
		return 0, nil, false

	case segCaptureGreedy:
		for l := 1; pos+l <= len(s); l++ {
			if end, caps, ok := m.matchFrom(idx+1, s, pos+l); ok {
				caps[seg.name] = s[pos : pos+l]
				return end, caps, true
			}
		}
		return 0, nil, false
	}
	return 0, nil, false
}

func nextSlash(s string, from int) int {
	if i := strings.IndexByte(s[from:], '/'); i >= 0 {
		return from + i
	}
	return len(s)
}

func scan(path string) ([]segment, bool) {
	var segs []segment
	hasPatterns := false
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{kind: segLiteral, lit: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(path) {
		c := path[i]
		if c != '(' {
			lit.WriteByte(c)
			i++
			continue
		}

		j := i + 1
		start := j
		if j >= len(path) || !isNameStart(path[j]) {
			lit.WriteByte(c)
			i++
			continue
		}
		j++
		for j < len(path) && isNameChar(path[j]) {
			j++
		}
		name := path[start:j]

		greedy := false
		if j+1 < len(path) && path[j] == '.' && path[j+1] == '.' {
			greedy = true
			j += 2
		}

		if j >= len(path) || path[j] != ')' {
			lit.WriteByte(c)
			i++
			continue
		}

		flush()
		kind := segCapture
		if greedy {
			kind = segCaptureGreedy
		}
		segs = append(segs, segment{kind: kind, name: name})
		hasPatterns = true
		i = j + 1
	}
	flush()
	return segs, hasPatterns
}

func isNameStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '_' || c == '-'
}
