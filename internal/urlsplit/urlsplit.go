// Package urlsplit decomposes a URL-like fragment from the route DSL into
// its protocol, host, port, path and query parts. It performs no pattern
// compilation and no name resolution — it is pure string surgery, shared by
// both SOURCE and DEST parsing.
package urlsplit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weavehq/weave/internal/util"
	"github.com/weavehq/weave/internal/werr"
)

// Protocol is the scheme recognised by the splitter. An empty Protocol means
// the input didn't state one.
type Protocol string

const (
	None  Protocol = ""
	HTTP  Protocol = "http"
	HTTPS Protocol = "https"
	TCP   Protocol = "tcp"
)

// Result is the decomposed form of a URL-like fragment.
type Result struct {
	Protocol Protocol // None if the input didn't specify a scheme
	Host     string
	Port     int
	HasPort  bool
	Path     string
	Query    string
}

// Split applies the six normalisation rules: strip an optional protocol
// prefix, split authority from path+query, parse the authority into
// host/port, default an empty host to "localhost", prepend "/" to a
// path+query that lacks one, and split path from query on the first "?".
func Split(s string) (Result, error) {
	s = strings.TrimSpace(s)

	proto := None
	rest := s
	if i := strings.Index(s, "://"); i >= 0 {
		p, err := parseProtocol(s[:i])
		if err != nil {
			return Result{}, err
		}
		proto = p
		rest = s[i+3:]
	}

	authority, pathQuery := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority, pathQuery = rest[:i], rest[i:]
	}

	host, port, hasPort, err := splitAuthority(authority)
	if err != nil {
		return Result{}, err
	}
	host = util.DefaultString(host, "localhost")

	if !strings.HasPrefix(pathQuery, "/") {
		pathQuery = "/" + pathQuery
	}
	path, query := pathQuery, ""
	if i := strings.IndexByte(pathQuery, '?'); i >= 0 {
		path, query = pathQuery[:i], pathQuery[i+1:]
	}

	return Result{Protocol: proto, Host: host, Port: port, HasPort: hasPort, Path: path, Query: query}, nil
}

func parseProtocol(s string) (Protocol, error) {
	switch s {
	case "http":
		return HTTP, nil
	case "https":
		return HTTPS, nil
	case "tcp":
		return TCP, nil
	default:
		cause := fmt.Errorf("unknown protocol %q", s)
		return None, werr.New(werr.KindParseSyntax, cause.Error(), cause)
	}
}

// splitAuthority implements AUTH's three shapes: "host:port", ":port" (bare
// colon, empty host), and a bare port number meaning host=localhost. Bracketed
// IPv6 literals ("[::1]:8080") are recognised so SRC/DEST can name an IPv6
// listen or destination address explicitly.
func splitAuthority(a string) (host string, port int, hasPort bool, err error) {
	if a == "" {
		return "", 0, false, nil
	}
	if strings.HasPrefix(a, "[") {
		end := strings.IndexByte(a, ']')
		if end < 0 {
			return a, 0, false, nil
		}
		host = a[1:end]
		remainder := a[end+1:]
		if strings.HasPrefix(remainder, ":") {
			if n, convErr := strconv.Atoi(remainder[1:]); convErr == nil && util.ValidatePort(n) == nil {
				return host, n, true, nil
			}
		}
		return host, 0, false, nil
	}
	if i := strings.LastIndex(a, ":"); i >= 0 {
		h, p := a[:i], a[i+1:]
		if n, convErr := strconv.Atoi(p); convErr == nil && util.ValidatePort(n) == nil {
			return h, n, true, nil
		}
	}
	if n, convErr := strconv.Atoi(a); convErr == nil && util.ValidatePort(n) == nil {
		return "localhost", n, true, nil
	}
	return a, 0, false, nil
}
