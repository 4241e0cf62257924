package matcher

import (
	"testing"

	"github.com/weavehq/weave/internal/dest"
	"github.com/weavehq/weave/internal/resolved"
	"github.com/weavehq/weave/internal/rules"
	"github.com/weavehq/weave/internal/source"
)

func mustFullRoute(t *testing.T, src, dst string) rules.Route {
	t.Helper()
	s, err := source.Parse(src)
	if err != nil {
		t.Fatalf("parsing source %q: %v", src, err)
	}
	d, err := dest.Parse(dst, s)
	if err != nil {
		t.Fatalf("parsing dest %q: %v", dst, err)
	}
	return rules.Route{Source: s, Dest: d}
}

func TestResolvePrefersExactOverPrefix(t *testing.T) {
	exact := mustFullRoute(t, "=8080/foo", "9090/exact")
	prefix := mustFullRoute(t, "8080/foo", "9090/prefix")
	m := New([]rules.Route{prefix, exact})

	target, ok := m.Resolve("/foo", "")
	if !ok {
		t.Fatal("expected a match")
	}
	if target.Kind != resolved.KindForwardUrl || target.URL != "http://localhost:9090/exact" {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestResolveNoMatch(t *testing.T) {
	r := mustFullRoute(t, "=8080/foo", "9090/exact")
	m := New([]rules.Route{r})
	_, ok := m.Resolve("/bar", "")
	if ok {
		t.Fatal("expected no match")
	}
}

func TestResolveLongerLiteralWinsOverShorter(t *testing.T) {
	short := mustFullRoute(t, "8080/a", "9090/short")
	long := mustFullRoute(t, "8080/aaaa", "9090/long")
	m := New([]rules.Route{short, long})

	target, ok := m.Resolve("/aaaa", "")
	if !ok || target.URL != "http://localhost:9090/long" {
		t.Fatalf("target=%+v ok=%v", target, ok)
	}
}

func TestRoutesReturnsSortedOrder(t *testing.T) {
	prefix := mustFullRoute(t, "8080/foo", "9090/prefix")
	exact := mustFullRoute(t, "=8080/foo", "9090/exact")
	m := New([]rules.Route{prefix, exact})
	got := m.Routes()
	if len(got) != 2 || !got[0].Source.Exact || got[1].Source.Exact {
		t.Fatalf("expected exact route first, got %+v", got)
	}
}
