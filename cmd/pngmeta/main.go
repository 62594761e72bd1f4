// pngmeta edits the textual metadata of PNG images without touching pixel
// data. It inserts a tEXt chunk right before IEND and rewrites the file.
//
// Usage:
//
//	pngmeta set [flags] INPUT
//	pngmeta inspect [flags] INPUT
package main

import (
	"fmt"
	"io"
	"os"
)

const usage = `Usage:
  pngmeta set [flags] INPUT       insert a tEXt chunk and write a new image
  pngmeta inspect [flags] INPUT   list chunks and text entries

Run "pngmeta <command> --help" for command flags.
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "set":
		return runSet(args[1:], stdout, stderr)
	case "inspect":
		return runInspect(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
