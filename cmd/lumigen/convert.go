package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/luminiadev/lumigen/compiler/load"
)

// runConvert rewrites schema files in another format. The output format
// is taken from -to, or from the extension of -o.
func runConvert(args []string, stdout, stderr io.Writer) int {
	var to, out string
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&to, "to", "", "output format: yaml, json or graphql")
	fs.StringVar(&out, "o", "", "output file (default standard output)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: lumigen convert -to format [-o file] [schema paths...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "lumigen: no schema paths given")
		return exitUsage
	}
	var (
		format load.Format
		err    error
	)
	switch {
	case to != "":
		format, err = load.ParseFormat(to)
	case out != "":
		format, err = load.FormatOf(out)
	default:
		err = errors.New("missing output format, use -to")
	}
	if err != nil {
		fmt.Fprintf(stderr, "lumigen: %v\n", err)
		return exitUsage
	}

	s, err := load.Load(fs.Args()...)
	if err != nil {
		fmt.Fprintf(stderr, "lumigen: %v\n", err)
		return exitError
	}
	data, err := load.Marshal(s, format)
	if err != nil {
		fmt.Fprintf(stderr, "lumigen: %v\n", err)
		return exitError
	}
	if out == "" {
		if _, err := stdout.Write(data); err != nil {
			fmt.Fprintf(stderr, "lumigen: %v\n", err)
			return exitError
		}
		return exitOK
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fmt.Fprintf(stderr, "lumigen: %v\n", err)
		return exitError
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintf(stderr, "lumigen: %v\n", err)
		return exitError
	}
	return exitOK
}
