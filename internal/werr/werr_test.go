package werr

import (
	"errors"
	"testing"
)

func TestUserMessageUsesUserSafeText(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:9090: connection refused")
	err := New(KindUpstreamDial, "upstream is unreachable", cause)
	if got := UserMessage(err); got != "upstream is unreachable" {
		t.Fatalf("got %q", got)
	}
}

func TestUserMessageFallsBackToPlainError(t *testing.T) {
	err := errors.New("boom")
	if got := UserMessage(err); got != "boom" {
		t.Fatalf("got %q", got)
	}
}

func TestDebugMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(KindUpstreamDial, "upstream is unreachable", cause)
	got := DebugMessage(err)
	if got != "upstream-dial: connection refused" {
		t.Fatalf("got %q", got)
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(KindUpstreamDial, "x", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}
