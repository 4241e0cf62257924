// Command weave routes HTTP and TCP traffic according to SRC to DEST rules
// given on the command line.
package main

import (
	"fmt"
	"os"

	"github.com/weavehq/weave/internal/cli"
	"github.com/weavehq/weave/internal/routeargs"
	"github.com/weavehq/weave/internal/weavelog"
	"github.com/weavehq/weave/internal/werr"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	args := os.Args[1:]

	introspect := false
	if len(args) > 0 && args[0] == "routes" {
		introspect = true
		args = args[1:]
	}

	routeSet, tail, err := routeargs.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Weave: %s\n", werr.UserMessage(err))
		os.Exit(1)
	}
	if len(routeSet) == 0 {
		fmt.Fprintln(os.Stderr, "Weave: no routes supplied")
		os.Exit(1)
	}

	logger := weavelog.New(false)
	root := cli.NewRootCommand(routeSet, introspect, logger, version)
	root.SetArgs(tail)

	if err := root.Execute(); err != nil {
		logger.Debug("fatal error", "error", werr.DebugMessage(err))
		fmt.Fprintf(os.Stderr, "Weave: %s\n", werr.UserMessage(err))
		os.Exit(1)
	}
}
