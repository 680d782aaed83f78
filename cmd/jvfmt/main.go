// Command jvfmt is a minimal ambient CLI harness around the jvparse/
// jvser library: it reads a JSON document from a file (or stdin) and
// writes its canonical serialization to stdout. Parse failures are
// reported with the byte offset at which parsing stopped, via
// jvparse.ParseDetailed's *jverr.Error, matching the teacher's
// offset-bearing diagnostics.
//
// The CLI is explicitly out of the Core's scope (spec.md §1/§6); it is
// kept only as a thin demonstration harness in the teacher's idiom.
//
// Usage:
//
//	jvfmt [file|-]
//
// Exit codes: 0 (success), 2 (parse error or usage), 10 (internal I/O).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bracez/json/jvparse"
	"github.com/bracez/json/jvser"
)

const maxInputSize = 64 * 1024 * 1024

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintln(stderr, "usage: jvfmt [file|-]")
		return 2
	}

	input, err := readInput(args, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 10
	}

	v, parseErr := jvparse.ParseDetailed(input)
	if parseErr != nil {
		fmt.Fprintf(stderr, "error: %v\n", parseErr)
		return 2
	}

	if _, err := fmt.Fprint(stdout, jvser.Serialize(v)); err != nil {
		fmt.Fprintf(stderr, "error: writing output: %v\n", err)
		return 10
	}
	return 0
}

func readInput(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return readBounded(stdin)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", args[0], err)
	}
	defer f.Close()
	return readBounded(f)
}

func readBounded(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxInputSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("input exceeds maximum size %d bytes", maxInputSize)
	}
	return data, nil
}
