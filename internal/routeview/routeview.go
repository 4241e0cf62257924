// Package routeview renders a parsed rule set for the "weave routes"
// introspection command, grouped and ordered exactly as the Dispatcher
// would match them, in text, YAML or JSON.
package routeview

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/weavehq/weave/internal/matcher"
	"github.com/weavehq/weave/internal/rules"
)

// Entry is one rule, annotated with the listen address its source resolves
// to and flattened for display.
type Entry struct {
	Listen   string `json:"listen" yaml:"listen"`
	Exact    bool   `json:"exact" yaml:"exact"`
	Protocol string `json:"protocol" yaml:"protocol"`
	Source   string `json:"source" yaml:"source"`
	Dest     string `json:"dest" yaml:"dest"`
}

// Build groups routeSet by listen address, sorts each group into the same
// match-priority order the Dispatcher uses, and flattens the result in
// address order.
func Build(routeSet []rules.Route) ([]Entry, error) {
	byAddr := make(map[string][]rules.Route)
	var addrs []string

	for _, r := range routeSet {
		addr, err := r.Source.ListenAddr()
		if err != nil {
			return nil, err
		}
		if _, ok := byAddr[addr]; !ok {
			addrs = append(addrs, addr)
		}
		byAddr[addr] = append(byAddr[addr], r)
	}
	sort.Strings(addrs)

	var entries []Entry
	for _, addr := range addrs {
		sorted := matcher.New(byAddr[addr]).Routes()
		for _, r := range sorted {
			entries = append(entries, Entry{
				Listen:   addr,
				Exact:    r.Source.Exact,
				Protocol: string(r.Source.Protocol),
				Source:   r.Source.Raw,
				Dest:     r.Dest.Raw,
			})
		}
	}
	return entries, nil
}

// RenderText renders entries as a fixed-width table.
func RenderText(entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-22s %-5s %-6s %-28s %s\n", "LISTEN", "EXACT", "PROTO", "SOURCE", "DEST")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-22s %-5v %-6s %-28s %s\n", e.Listen, e.Exact, e.Protocol, e.Source, e.Dest)
	}
	return b.String()
}

// RenderYAML renders entries as a YAML document.
func RenderYAML(entries []Entry) (string, error) {
	out, err := yaml.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RenderJSON renders entries as an indented JSON array.
func RenderJSON(entries []Entry) (string, error) {
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}
