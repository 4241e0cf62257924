// Package rules defines the parsed Route pair that every downstream
// component — the matcher, dispatcher, linter and route viewer — operates
// on.
package rules

import (
	"github.com/weavehq/weave/internal/dest"
	"github.com/weavehq/weave/internal/source"
)

// Route pairs a parsed SOURCE with the DESTINATION it forwards matches to.
type Route struct {
	Source *source.Location
	Dest   *dest.Location
}
