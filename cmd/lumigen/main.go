// lumigen generates Java or Go sources from entity schemas.
//
// Usage:
//
//	lumigen [generate] [flags] [schema paths...]
//	lumigen convert -to format [-o file] [schema paths...]
//	lumigen dialects
//	lumigen features
//
// Schema paths are YAML (.yaml, .yml), JSON (.json) or GraphQL SDL
// (.graphql, .graphqls, .gql) files, or directories holding them.
//
// Settings are read from the file given with -config, or from lumigen.toml,
// lumigen.yaml or lumigen.yml in the working directory. Flags override the
// file.
//
// Exit codes:
//
//	0  every entity was generated
//	1  some entities failed, the others were written
//	2  invalid command line or configuration
//	3  the run failed (schema files, schema invariants, writing)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/luminiadev/lumigen/compiler"
	"github.com/luminiadev/lumigen/compiler/gen"
)

const (
	exitOK       = 0
	exitFailures = 1
	exitUsage    = 2
	exitError    = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "generate":
			return runGenerate(ctx, args[1:], stdout, stderr)
		case "convert":
			return runConvert(args[1:], stdout, stderr)
		case "dialects":
			for _, name := range compiler.Dialects() {
				fmt.Fprintln(stdout, name)
			}
			return exitOK
		case "features":
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			for _, f := range gen.AllFeatures {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Stage, f.Description)
			}
			tw.Flush()
			return exitOK
		case "help", "-h", "-help", "--help":
			printUsage(stdout)
			return exitOK
		}
	}
	return runGenerate(ctx, args, stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `lumigen generates Java or Go sources from entity schemas.

Usage:
  lumigen [generate] [flags] [schema paths...]
  lumigen convert -to format [-o file] [schema paths...]
  lumigen dialects
  lumigen features

Run "lumigen generate -h" or "lumigen convert -h" for the flags.
`)
}
