// Package werr classifies errors that cross a trust boundary: the message a
// client or operator sees (UserMessage) is deliberately narrower than the
// one logged for debugging (DebugMessage), so an upstream dial failure
// doesn't leak an internal address into a response body.
package werr

import "errors"

// Kind names the stage of the route lifecycle an error occurred in.
type Kind string

const (
	KindParseSyntax    Kind = "parse-syntax"
	KindParseSemantics Kind = "parse-semantics"
	KindNameResolution Kind = "name-resolution"
	KindListenBind     Kind = "listen-bind"
	KindUpstreamDial   Kind = "upstream-dial"
	KindUpstreamProto  Kind = "upstream-protocol"
	KindFileNotFound   Kind = "file-not-found"
	KindInternalIO     Kind = "internal-io"
)

// ClassifiedError pairs a Kind and a user-safe message with the underlying
// cause, which is preserved for logging via Unwrap but never shown to a
// client directly.
type ClassifiedError struct {
	Kind     Kind
	UserSafe string
	Cause    error
}

// New builds a ClassifiedError.
func New(kind Kind, userSafe string, cause error) *ClassifiedError {
	return &ClassifiedError{Kind: kind, UserSafe: userSafe, Cause: cause}
}

func (e *ClassifiedError) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Cause.Error()
	}
	return string(e.Kind) + ": " + e.UserSafe
}

func (e *ClassifiedError) Unwrap() error { return e.Cause }

// UserMessage returns the message safe to show outside the process: a
// ClassifiedError's UserSafe text, or the error's own text if it isn't one.
func UserMessage(err error) string {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.UserSafe
	}
	return err.Error()
}

// DebugMessage returns the full error text, cause chain included, for logs.
func DebugMessage(err error) string {
	return err.Error()
}
