package weavelog

import "testing"

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel(""); got.String() != "INFO" {
		t.Fatalf("got %v, want info", got)
	}
}

func TestParseLevelDebug(t *testing.T) {
	if got := parseLevel("debug"); got.String() != "DEBUG" {
		t.Fatalf("got %v, want debug", got)
	}
}

func TestParseLevelCaseInsensitive(t *testing.T) {
	if got := parseLevel("ERROR"); got.String() != "ERROR" {
		t.Fatalf("got %v, want error", got)
	}
}

func TestNewReturnsNonNilLogger(t *testing.T) {
	if New(true) == nil {
		t.Fatal("expected a non-nil logger")
	}
}
