// Package source implements SourceLocation (C2): parsing a SRC string,
// compiling its path into a pattern.Matcher, and exposing the listen
// socket, protocol and match-order key the Matcher (C5) sorts by.
package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weavehq/weave/internal/netresolve"
	"github.com/weavehq/weave/internal/pattern"
	"github.com/weavehq/weave/internal/resolved"
	"github.com/weavehq/weave/internal/urlsplit"
	"github.com/weavehq/weave/internal/werr"
)

// Location is an immutable, parsed SOURCE.
type Location struct {
	Raw      string
	Exact    bool
	Protocol urlsplit.Protocol // always HTTP or TCP
	Host     string
	Port     int
	RawPath  string
	Matcher  *pattern.Matcher
}

// Parse builds a Location from a SRC string. HTTP is the default protocol;
// TCP requires an explicit port, a literal "/" path and no captures.
func Parse(input string) (*Location, error) {
	raw := input
	exact := false
	s := input
	if strings.HasPrefix(s, "=") {
		exact = true
		s = s[1:]
	}

	r, err := urlsplit.Split(s)
	if err != nil {
		return nil, fmt.Errorf("parsing source %q: %w", raw, err)
	}

	proto := r.Protocol
	switch proto {
	case urlsplit.None:
		proto = urlsplit.HTTP
	case urlsplit.HTTP, urlsplit.TCP:
		// already a valid source protocol
	default:
		msg := fmt.Sprintf("parsing source %q: protocol %q is not valid for a source (must be http or tcp)", raw, proto)
		return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
	}

	port := r.Port
	if proto == urlsplit.HTTP && !r.HasPort {
		port = 80
	}
	if proto == urlsplit.TCP && !r.HasPort {
		msg := fmt.Sprintf("parsing source %q: a tcp source requires an explicit port", raw)
		return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
	}

	m := pattern.Compile(r.Path, exact)

	if proto == urlsplit.TCP && (r.Path != "/" || m.HasPatterns()) {
		msg := fmt.Sprintf("parsing source %q: a tcp source's path must be exactly \"/\" with no patterns", raw)
		return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
	}

	return &Location{
		Raw:      raw,
		Exact:    exact,
		Protocol: proto,
		Host:     r.Host,
		Port:     port,
		RawPath:  r.Path,
		Matcher:  m,
	}, nil
}

// HasPatterns reports whether the compiled path contains a capture.
func (l *Location) HasPatterns() bool { return l.Matcher.HasPatterns() }

// SortKey is the match-order key used by the Matcher (C5): exact routes
// first, then non-patterned before patterned, then longer literal paths
// first. Equal keys preserve declaration order via a stable sort.
type SortKey struct {
	Exact     bool
	Patterned bool
	PathLen   int
}

func (l *Location) SortKey() SortKey {
	return SortKey{Exact: l.Exact, Patterned: l.Matcher.HasPatterns(), PathLen: l.Matcher.LiteralLen()}
}

// Less reports whether a sorts before b under the match-order key. It is a
// strict, non-reflexive "less" so that sort.SliceStable leaves equal keys in
// their original relative order.
func Less(a, b SortKey) bool {
	if a.Exact != b.Exact {
		return a.Exact
	}
	if a.Patterned != b.Patterned {
		return !a.Patterned
	}
	if a.PathLen != b.PathLen {
		return a.PathLen > b.PathLen
	}
	return false
}

// Match applies the compiled path matcher to a request's path. Source-side
// query strings are not consulted here: a route's own path pattern never
// depends on the request's query, only on the path. The request's query is
// carried through into Matches so the destination-side merge rule (C3) can
// use it — this is the documented "query strings currently discarded during
// matching" behaviour.
func (l *Location) Match(reqPath, reqQuery string) (resolved.Matches, bool) {
	caps, tail, ok := l.Matcher.Match(reqPath)
	if !ok {
		return resolved.Matches{}, false
	}
	return resolved.Matches{Captures: caps, Tail: tail, Query: reqQuery}, true
}

// ListenAddr resolves the source's host+port to a "host:port" address
// suitable for net.Listen: IP literals and "localhost" are kept as given,
// other domain names are resolved to their first IP. Domain name resolution
// may block; a failure here is a startup parse error.
func (l *Location) ListenAddr() (string, error) {
	addr, err := netresolve.HostPort(l.Host, l.Port)
	if err != nil {
		msg := fmt.Sprintf("resolving source %q: could not resolve host %q", l.Raw, l.Host)
		return "", werr.New(werr.KindNameResolution, msg, fmt.Errorf("parsing source %q: %w", l.Raw, err))
	}
	return addr, nil
}
