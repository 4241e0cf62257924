// Package dispatch implements the Dispatcher (C6): one listening socket per
// distinct resolved address, HTTP routes grouped and matched by the path
// matcher, TCP routes forwarded byte-for-byte to a single fixed upstream.
//
// Listeners run independently under an errgroup.Group (not
// errgroup.WithContext): a failure on one listener must not cancel its
// siblings, only be reported once every listener has returned.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/weavehq/weave/internal/matcher"
	"github.com/weavehq/weave/internal/rules"
	"github.com/weavehq/weave/internal/werr"
)

// group is every rule that resolves to the same listen address, partitioned
// by protocol. A single address may host many HTTP rules (disambiguated by
// path) but at most one TCP rule (TCP forwards by address alone).
type group struct {
	addr string
	http []rules.Route
	tcp  *rules.Route
}

// Dispatcher owns one listener per distinct resolved address.
type Dispatcher struct {
	groups []*group
	log    *slog.Logger
	client *http.Client
}

// New validates a rule set and builds a Dispatcher. It resolves every
// route's listen address up front, so a bad hostname or a conflicting bind
// surfaces before any socket is opened.
func New(routeSet []rules.Route, log *slog.Logger) (*Dispatcher, error) {
	groups, err := buildGroups(routeSet)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{groups: groups, log: log, client: &http.Client{}}, nil
}

func buildGroups(routeSet []rules.Route) ([]*group, error) {
	byAddr := make(map[string]*group)
	var order []string

	for i := range routeSet {
		r := routeSet[i]
		addr, err := r.Source.ListenAddr()
		if err != nil {
			return nil, err
		}
		g, ok := byAddr[addr]
		if !ok {
			g = &group{addr: addr}
			byAddr[addr] = g
			order = append(order, addr)
		}
		switch r.Source.Protocol {
		case "tcp":
			if g.tcp != nil {
				msg := fmt.Sprintf("listen address %s: more than one tcp route bound to the same address", addr)
				return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
			}
			if len(g.http) > 0 {
				msg := fmt.Sprintf("listen address %s: tcp and http routes cannot share the same address", addr)
				return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
			}
			rr := r
			g.tcp = &rr
		default:
			if g.tcp != nil {
				msg := fmt.Sprintf("listen address %s: tcp and http routes cannot share the same address", addr)
				return nil, werr.New(werr.KindParseSemantics, msg, errors.New(msg))
			}
			g.http = append(g.http, r)
		}
	}

	groups := make([]*group, 0, len(order))
	for _, addr := range order {
		groups = append(groups, byAddr[addr])
	}
	return groups, nil
}

// Run starts every listener and blocks until all of them have returned. A
// listener that fails with a non-shutdown error stops on its own while the
// others keep serving; once ctx is cancelled and every listener has stopped,
// Run returns the first such error, or nil.
func (d *Dispatcher) Run(ctx context.Context) error {
	var g errgroup.Group
	for _, grp := range d.groups {
		grp := grp
		g.Go(func() error {
			if grp.tcp != nil {
				return d.runTCP(ctx, grp)
			}
			return d.runHTTP(ctx, grp)
		})
	}
	return g.Wait()
}

func newMatcherFor(grp *group) *matcher.Matcher {
	return matcher.New(grp.http)
}
