// Package resolved holds the two small value types that flow out of the
// matching and resolution stages: Matches, produced by a successful
// SourceLocation match, and Target, the sum type a DestinationLocation
// resolves a Matches into for the Dispatcher to act on.
package resolved

// Matches is the transient result of a successful SourceLocation match: the
// named captures, the unmatched path tail, and the request's original query
// string (source-side query strings are discarded during matching itself;
// this is the request query that the destination merge rule consumes).
type Matches struct {
	Captures map[string]string
	Tail     string
	Query    string
}

// Kind discriminates the Target sum type.
type Kind int

const (
	KindForwardUrl Kind = iota
	KindForwardSocket
	KindServeFile
	KindRespond
)

// Target is what the Dispatcher is told to do for a request: forward it to
// an upstream URL, stream it to a TCP socket, serve a file from disk, or
// respond with a fixed status code. Only the field matching Kind is
// meaningful.
type Target struct {
	Kind   Kind
	URL    string
	Socket string
	Path   string
	Status int
}

func ForwardUrl(u string) Target    { return Target{Kind: KindForwardUrl, URL: u} }
func ForwardSocket(a string) Target { return Target{Kind: KindForwardSocket, Socket: a} }
func ServeFile(p string) Target     { return Target{Kind: KindServeFile, Path: p} }
func Respond(status int) Target     { return Target{Kind: KindRespond, Status: status} }
