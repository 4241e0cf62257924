package routeview

import (
	"strings"
	"testing"

	"github.com/weavehq/weave/internal/dest"
	"github.com/weavehq/weave/internal/rules"
	"github.com/weavehq/weave/internal/source"
)

func mustRoute(t *testing.T, src, dst string) rules.Route {
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

func TestBuildOrdersByAddressThenMatchPriority(t *testing.T) {
	routeSet := []rules.Route{
		mustRoute(t, "127.0.0.1:8081/foo", "9090/a"),
		mustRoute(t, "127.0.0.1:8080/foo", "9090/b"),
		mustRoute(t, "=127.0.0.1:8080/foo", "9090/c"),
	}
	entries, err := Build(routeSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Listen != "127.0.0.1:8080" || !entries[0].Exact {
		t.Fatalf("expected the exact 8080 route first, got %+v", entries[0])
	}
	if entries[2].Listen != "127.0.0.1:8081" {
		t.Fatalf("expected 8081 last, got %+v", entries[2])
	}
}

func TestRenderTextIncludesHeader(t *testing.T) {
	entries, _ := Build([]rules.Route{mustRoute(t, "127.0.0.1:8080/foo", "9090/a")})
	out := RenderText(entries)
	if !strings.Contains(out, "LISTEN") || !strings.Contains(out, "127.0.0.1:8080") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRenderJSONIsValidArray(t *testing.T) {
	entries, _ := Build([]rules.Route{mustRoute(t, "127.0.0.1:8080/foo", "9090/a")})
	out, err := RenderJSON(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "[") {
		t.Fatalf("expected a JSON array, got %q", out)
	}
}

func TestRenderYAMLIncludesListenKey(t *testing.T) {
	entries, _ := Build([]rules.Route{mustRoute(t, "127.0.0.1:8080/foo", "9090/a")})
	out, err := RenderYAML(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "listen: 127.0.0.1:8080") {
		t.Fatalf("unexpected output: %q", out)
	}
}
