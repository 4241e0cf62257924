// Package routeargs implements the route DSL's argument grammar (C4):
// "<SRC> to <DEST> [and <SRC> to <DEST> ...] | nothing [and ...]", consuming
// a command line's leading route tokens and returning whatever trailing
// tokens remain for the CLI layer.
package routeargs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weavehq/weave/internal/dest"
	"github.com/weavehq/weave/internal/rules"
	"github.com/weavehq/weave/internal/source"
	"github.com/weavehq/weave/internal/werr"
)

// Parse consumes routes from the front of args and returns them along with
// the unconsumed tail — either a flag token (starting with "-") or nil once
// the route grammar is exhausted.
func Parse(args []string) ([]rules.Route, []string, error) {
	var routes []rules.Route
	i := 0
	for {
		if i >= len(args) {
			return routes, nil, nil
		}
		tok := args[i]
		if strings.HasPrefix(tok, "-") {
			return routes, args[i:], nil
		}

		isBareNothing := tok == "nothing" && (i+1 >= len(args) || args[i+1] == "and")
		if isBareNothing {
			i++
		} else {
			if i+2 >= len(args) {
				msg := fmt.Sprintf("expected '<SRC> to <DEST>' starting at %q", tok)
				return nil, nil, werr.New(werr.KindParseSyntax, msg, errors.New(msg))
			}
			srcTok, toTok, destTok := args[i], args[i+1], args[i+2]
			if toTok != "to" {
				msg := fmt.Sprintf("expected the word \"to\" after %q, found %q", srcTok, toTok)
				return nil, nil, werr.New(werr.KindParseSyntax, msg, errors.New(msg))
			}
			src, err := source.Parse(srcTok)
			if err != nil {
				return nil, nil, err
			}
			d, err := dest.Parse(destTok, src)
			if err != nil {
				return nil, nil, err
			}
			routes = append(routes, rules.Route{Source: src, Dest: d})
			i += 3
		}

		if i >= len(args) {
			return routes, nil, nil
		}
		if strings.HasPrefix(args[i], "-") {
			return routes, args[i:], nil
		}
		if args[i] != "and" {
			msg := fmt.Sprintf("expected \"and\" or end of routes, found %q", args[i])
			return nil, nil, werr.New(werr.KindParseSyntax, msg, errors.New(msg))
		}
		i++
		if i >= len(args) {
			msg := "'and' not followed by a subsequent route"
			return nil, nil, werr.New(werr.KindParseSyntax, msg, errors.New(msg))
		}
	}
}
