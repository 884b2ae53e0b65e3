package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// marginSentinel detects whether --margin was explicitly set.
// Zero is a valid margin, so an out-of-range sentinel is used instead.
const marginSentinel = -1.0

// cliFlags holds all flags for the export command.
type cliFlags struct {
	config  string
	output  string
	workers int
	quiet   bool
	verbose bool
	version bool

	docType     string
	pageSize    string
	fontSize    float64
	lineSpacing string
	margin      float64

	numberPosition string
	numberFormat   string
	numberPrefix   string
	numberSuffix   string
	noPageNumbers  bool

	audit       bool
	auditDB     string
	auditRecent int
}

// parseFlags parses CLI flags and returns the positional input paths.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("legalpdf", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug records")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.StringVar(&f.docType, "doc-type", "", "document type rendered as the title")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: letter, a4, legal")
	fs.Float64Var(&f.fontSize, "font-size", 0, "body font size in points (8-24)")
	fs.StringVar(&f.lineSpacing, "line-spacing", "", "line spacing: single, one-half, double")
	fs.Float64Var(&f.margin, "margin", marginSentinel, "page margin in points, all sides (0-200)")

	fs.StringVar(&f.numberPosition, "number-position", "", "page number position: bottom-left, bottom-center, bottom-right")
	fs.StringVar(&f.numberFormat, "number-format", "", "page number format: numeric, roman, alpha")
	fs.StringVar(&f.numberPrefix, "number-prefix", "", "text before the page number")
	fs.StringVar(&f.numberSuffix, "number-suffix", "", "text after the page number")
	fs.BoolVar(&f.noPageNumbers, "no-page-numbers", false, "disable page numbers")

	fs.BoolVar(&f.audit, "audit", false, "record exports in the audit ledger")
	fs.StringVar(&f.auditDB, "audit-db", "", "audit ledger path (default legalpdf-audit.db)")
	fs.IntVar(&f.auditRecent, "audit-recent", 0, "list the last N ledger entries and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// printUsage writes command help.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `legalpdf - render legal document text to PDF

Usage:
  legalpdf [flags] <input>...

Inputs are .txt, .md, or .markdown files, or directories containing them.
Output PDFs land next to their sources unless -o names a directory (or a
.pdf path for a single input).

Flags:
  -c, --config string        config file name or path
  -o, --output string        output file or directory
  -w, --workers int          parallel workers (0 = auto)
  -q, --quiet                only show errors
  -v, --verbose              show detailed timing and debug records
      --version              print version and exit

      --doc-type string      document type rendered as the title
  -p, --page-size string     page size: letter, a4, legal
      --font-size float      body font size in points (8-24)
      --line-spacing string  line spacing: single, one-half, double
      --margin float         page margin in points, all sides (0-200)

      --number-position string  bottom-left, bottom-center, bottom-right
      --number-format string    numeric, roman, alpha
      --number-prefix string    text before the page number
      --number-suffix string    text after the page number
      --no-page-numbers         disable page numbers

      --audit                record exports in the audit ledger
      --audit-db string      audit ledger path
      --audit-recent int     list the last N ledger entries and exit
`)
}
