// Package cli builds the cobra command tree weave runs after its route DSL
// prefix has already been consumed by routeargs.Parse.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weavehq/weave/internal/dispatch"
	"github.com/weavehq/weave/internal/lint"
	"github.com/weavehq/weave/internal/routeview"
	"github.com/weavehq/weave/internal/rules"
	"github.com/weavehq/weave/internal/weavelog"
	"github.com/weavehq/weave/internal/werr"
)

// NewRootCommand builds the command that either starts the Dispatcher or,
// when introspect is set, prints routeSet instead of serving them. version
// is reported by the conventional --version flag cobra derives from
// root.Version.
func NewRootCommand(routeSet []rules.Route, introspect bool, logger *slog.Logger, version string) *cobra.Command {
	var verbose bool
	var lintOnly bool
	var format string

	root := &cobra.Command{
		Use:           "weave",
		Short:         "weave routes HTTP and TCP traffic according to SRC to DEST rules",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger = weavelog.New(true)
			}
			if introspect {
				if lintOnly {
					return printLint(cmd.OutOrStdout(), routeSet)
				}
				return printRoutes(cmd.OutOrStdout(), routeSet, format)
			}

			if err := lint.Validate(routeSet); err != nil {
				return werr.New(werr.KindParseSemantics, "route configuration rejected: "+err.Error(), err)
			}

			d, err := dispatch.New(routeSet, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return d.Run(ctx)
		},
	}

	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging regardless of WEAVE_LOG")
	root.Flags().StringVar(&format, "format", "text", "route introspection output format: text, yaml, or json (only used with \"weave routes\")")
	root.Flags().BoolVar(&lintOnly, "lint", false, "with \"weave routes\", print configuration issues instead of the route table")
	return root
}

func printLint(w io.Writer, routeSet []rules.Route) error {
	issues, err := lint.Check(routeSet)
	if err != nil {
		return werr.New(werr.KindNameResolution, "could not resolve one or more route listen addresses", err)
	}
	if len(issues) == 0 {
		fmt.Fprintln(w, "no issues found")
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintf(w, "[%s] %s (%s): %s\n", issue.Severity, issue.Check, issue.Target, issue.Message)
	}
	return nil
}

func printRoutes(w io.Writer, routeSet []rules.Route, format string) error {
	entries, err := routeview.Build(routeSet)
	if err != nil {
		return werr.New(werr.KindNameResolution, "could not resolve one or more route listen addresses", err)
	}

	switch format {
	case "text":
		fmt.Fprint(w, routeview.RenderText(entries))
	case "yaml":
		out, err := routeview.RenderYAML(entries)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	case "json":
		out, err := routeview.RenderJSON(entries)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	default:
		return fmt.Errorf("unknown --format %q: must be text, yaml, or json", format)
	}
	return nil
}
