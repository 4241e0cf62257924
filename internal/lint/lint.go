// Package lint checks a parsed rule set for configuration mistakes that are
// legal to parse but wrong to run: two rules trying to own the same TCP
// listen address, or an address mixing TCP and HTTP rules.
package lint

import (
	"fmt"

	"github.com/weavehq/weave/internal/rules"
)

// Severity ranks how a lint Issue should be handled: a High issue is
// refused at startup, a Low issue is surfaced but not fatal.
type Severity string

const (
	SeverityLow  Severity = "low"
	SeverityHigh Severity = "high"
)

// Issue describes one problem found in a rule set.
type Issue struct {
	Severity Severity
	Check    string
	Target   string
	Message  string
}

// Check inspects routeSet and returns every Issue found. A routeSet with no
// issues returns a nil slice.
func Check(routeSet []rules.Route) ([]Issue, error) {
	type addrRoutes struct {
		tcp  int
		http int
	}
	byAddr := make(map[string]*addrRoutes)
	var order []string

	for _, r := range routeSet {
		addr, err := r.Source.ListenAddr()
		if err != nil {
			return nil, err
		}
		ar, ok := byAddr[addr]
		if !ok {
			ar = &addrRoutes{}
			byAddr[addr] = ar
			order = append(order, addr)
		}
		if r.Source.Protocol == "tcp" {
			ar.tcp++
		} else {
			ar.http++
		}
	}

	var issues []Issue
	for _, addr := range order {
		ar := byAddr[addr]
		if ar.tcp > 1 {
			issues = append(issues, Issue{
				Severity: SeverityHigh,
				Check:    "duplicate-tcp-bind",
				Target:   addr,
				Message:  fmt.Sprintf("%d tcp routes are bound to %s; only one tcp rule may own a listen address", ar.tcp, addr),
			})
		}
		if ar.tcp > 0 && ar.http > 0 {
			issues = append(issues, Issue{
				Severity: SeverityHigh,
				Check:    "mixed-protocol-bind",
				Target:   addr,
				Message:  fmt.Sprintf("%s has both tcp and http routes bound to it; a listen address can only serve one protocol", addr),
			})
		}
	}
	return issues, nil
}

// Validate returns an error describing the first High-severity Issue found,
// or nil if the rule set is clean.
func Validate(routeSet []rules.Route) error {
	issues, err := Check(routeSet)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		if issue.Severity == SeverityHigh {
			return fmt.Errorf("%s: %s", issue.Check, issue.Message)
		}
	}
	return nil
}
