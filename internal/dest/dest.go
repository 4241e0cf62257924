// Package dest implements DestinationLocation (C3): parsing a DEST string
// against its already-parsed SOURCE, and resolving a match's captures and
// tail into a concrete resolved.Target.
package dest

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/weavehq/weave/internal/netresolve"
	"github.com/weavehq/weave/internal/resolved"
	"github.com/weavehq/weave/internal/source"
	"github.com/weavehq/weave/internal/urlsplit"
	"github.com/weavehq/weave/internal/util"
	"github.com/weavehq/weave/internal/werr"
)

// Shape discriminates the DestinationLocation sum type.
type Shape int

const (
	ShapeUrl Shape = iota
	ShapeSocket
	ShapeStatusCode
	ShapeFilePath
)

// Location is an immutable, parsed DEST, resolved against its paired
// SOURCE's protocol.
type Location struct {
	Raw      string
	Shape    Shape
	HostBits string // "scheme://host:port", for ShapeUrl
	Path     string // template, for ShapeUrl and ShapeFilePath
	Query    string // template, for ShapeUrl
	Socket   string // resolved "host:port", for ShapeSocket
	Status   int    // for ShapeStatusCode
}

// Parse builds a Location from a DEST string given the already-parsed SRC.
func Parse(input string, src *source.Location) (*Location, error) {
	raw := input

	if strings.HasPrefix(input, ".") || strings.HasPrefix(input, "/") || strings.HasPrefix(input, string(os.PathSeparator)) {
		return &Location{Raw: raw, Shape: ShapeFilePath, Path: input}, nil
	}

	if src.Protocol == urlsplit.HTTP {
		if input == "nothing" {
			return &Location{Raw: raw, Shape: ShapeStatusCode, Status: 404}, nil
		}
		if strings.HasPrefix(input, "statuscode://") {
			digits := strings.TrimPrefix(input, "statuscode://")
			n, err := strconv.Atoi(digits)
			if err != nil || n < 100 || n > 599 {
				msg := fmt.Sprintf("parsing destination %q: %q is not a valid HTTP status code", raw, digits)
				return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
			}
			return &Location{Raw: raw, Shape: ShapeStatusCode, Status: n}, nil
		}
	}

	r, err := urlsplit.Split(input)
	if err != nil {
		return nil, fmt.Errorf("parsing destination %q: %w", raw, err)
	}

	switch src.Protocol {
	case urlsplit.HTTP:
		proto := r.Protocol
		if proto == urlsplit.None {
			proto = urlsplit.HTTP
		}
		if proto != urlsplit.HTTP && proto != urlsplit.HTTPS {
			msg := fmt.Sprintf("parsing destination %q: protocol %q is not valid for an http source (must be http or https)", raw, proto)
			return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
		}
		port := r.Port
		if !r.HasPort {
			port = 80
			if proto == urlsplit.HTTPS {
				port = 443
			}
		}
		hostBits := fmt.Sprintf("%s://%s:%d", proto, r.Host, port)
		return &Location{Raw: raw, Shape: ShapeUrl, HostBits: hostBits, Path: r.Path, Query: r.Query}, nil

	case urlsplit.TCP:
		if r.Protocol != urlsplit.None && r.Protocol != urlsplit.TCP {
			msg := fmt.Sprintf("parsing destination %q: a tcp source requires a tcp destination", raw)
			return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
		}
		if r.Path != "/" || r.Query != "" {
			msg := fmt.Sprintf("parsing destination %q: a tcp destination must have no path or query", raw)
			return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
		}
		port := r.Port
		if !r.HasPort {
			port = src.Port
		}
		host := util.DefaultString(r.Host, "localhost")
		addr, err := netresolve.HostPort(host, port)
		if err != nil {
			msg := fmt.Sprintf("resolving destination %q: could not resolve host %q", raw, host)
			return nil, werr.New(werr.KindNameResolution, msg, fmt.Errorf("parsing destination %q: %w", raw, err))
		}
		return &Location{Raw: raw, Shape: ShapeSocket, Socket: addr}, nil
	}

	msg := fmt.Sprintf("parsing destination %q: unsupported source protocol %q", raw, src.Protocol)
	return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
}

// Resolve expands a match's captures and tail into a concrete resolved.Target.
func (d *Location) Resolve(m resolved.Matches) resolved.Target {
	switch d.Shape {
	case ShapeStatusCode:
		return resolved.Respond(d.Status)

	case ShapeSocket:
		return resolved.ForwardSocket(d.Socket)

	case ShapeFilePath:
		base := substitute(d.Path, m.Captures)
		return resolved.ServeFile(applyTail(base, m.Tail))

	case ShapeUrl:
		path := appendTail(substitute(d.Path, m.Captures), m.Tail)
		query := mergeQuery(substitute(d.Query, m.Captures), m.Query)
		u := d.HostBits + path
		if query != "" {
			u += "?" + query
		}
		return resolved.ForwardUrl(u)
	}

	return resolved.Target{}
}

// substitute replaces "(name)" and "(name..)" occurrences in tmpl with
// captures[name]; placeholders naming an unknown capture are left intact.
func substitute(tmpl string, captures map[string]string) string {
	var b strings.Builder
	i := 0
	for i < len(tmpl) {
		c := tmpl[i]
		if c != '(' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		start := j
		if j >= len(tmpl) || !isNameStart(tmpl[j]) {
			b.WriteByte(c)
			i++
			continue
		}
		j++
		for j < len(tmpl) && isNameChar(tmpl[j]) {
			j++
		}
		name := tmpl[start:j]
		if j+1 < len(tmpl) && tmpl[j] == '.' && tmpl[j+1] == '.' {
			j += 2
		}
		if j >= len(tmpl) || tmpl[j] != ')' {
			b.WriteByte(c)
			i++
			continue
		}
		token := tmpl[i : j+1]
		if v, ok := captures[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(token)
		}
		i = j + 1
	}
	return b.String()
}

func isNameStart(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }
func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

// appendTail joins a resolved URL path template with the request's
// unmatched tail, reconciling the boundary "/" so the result never contains
// "//" and never drops a separator.
func appendTail(path, tail string) string {
	if tail == "" {
		return path
	}
	if strings.HasSuffix(path, "/") {
		return path + strings.TrimPrefix(tail, "/")
	}
	if !strings.HasPrefix(tail, "/") {
		return path + "/" + tail
	}
	return path + tail
}

// applyTail walks the request tail's "/"-delimited components onto base:
// empty and "." components are skipped, ".." pops a component appended
// earlier in this same walk (never one from base, which is trusted
// configuration and stored verbatim), everything else is pushed.
func applyTail(base, tail string) string {
	var stack []string
	appended := 0
	for _, comp := range strings.Split(tail, "/") {
		switch comp {
		case "", ".":
			continue
		case "..":
			if appended > 0 {
				stack = stack[:len(stack)-1]
				appended--
			}
		default:
			stack = append(stack, comp)
			appended++
		}
	}
	if len(stack) == 0 {
		return base
	}
	joined := strings.Join(stack, "/")
	if strings.HasSuffix(base, "/") {
		return base + joined
	}
	return base + "/" + joined
}

type queryPair struct{ key, value string }

// mergeQuery implements the template-wins-on-conflict rule: every pair from
// tmpl is kept, and request pairs whose key isn't already present are
// appended in their original order.
func mergeQuery(tmpl, req string) string {
	pairs := parseQuery(tmpl)
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		seen[p.key] = true
	}
	for _, p := range parseQuery(req) {
		if !seen[p.key] {
			pairs = append(pairs, p)
			seen[p.key] = true
		}
	}
	return serializeQuery(pairs)
}

func parseQuery(q string) []queryPair {
	if q == "" {
		return nil
	}
	parts := strings.Split(q, "&")
	out := make([]queryPair, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if i := strings.IndexByte(part, '='); i >= 0 {
			out = append(out, queryPair{part[:i], part[i+1:]})
		} else {
			out = append(out, queryPair{part, ""})
		}
	}
	return out
}

func serializeQuery(pairs []queryPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			parts = append(parts, p.key)
		} else {
			parts = append(parts, p.key+"="+p.value)
		}
	}
	return strings.Join(parts, "&")
}
