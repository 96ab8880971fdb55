// Command-line entry point for the flight-plan parser.
//
// Subcommands:
//   parse      - parse one plan file and emit the flight as JSON
//   cheatsheet - parse plan files and emit a cheat sheet
//   series     - aggregate plan files into a series review
//   archive    - parse plan files and push them into the stores
//
// Exit status is nonzero only when the preamble is missing or the plan
// bytes are malformed; every softer finding lands on the flight as a
// warning and parsing carries on.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"flightplan_parser/internal/assemble"
	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/publish"
	"flightplan_parser/internal/render"
	"flightplan_parser/internal/series"
	"flightplan_parser/internal/storage"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "flightplan_parser - commands:")
	fmt.Fprintln(w, "  parse      - parse a plan file and output the flight as JSON")
	fmt.Fprintln(w, "  cheatsheet - render plan files as a cheat sheet (wiki, rest, csv)")
	fmt.Fprintln(w, "  series     - aggregate plan files into a series review")
	fmt.Fprintln(w, "  archive    - store parsed flights in SQLite and the archive stores")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  flightplan_parser parse -input plan.mis [-output out.json] [-warnings]")
	fmt.Fprintln(w, "  flightplan_parser cheatsheet -dialect wiki plan1.mis [plan2.mis ...]")
	fmt.Fprintln(w, "  flightplan_parser series -name S22 -reviewer rk plan1.mis [plan2.mis ...]")
	fmt.Fprintln(w, "  flightplan_parser archive -db flights.db [-remote] [-nats url] plan1.mis [...]")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "parse":
		runParse(os.Args[2:])
	case "cheatsheet":
		runCheatsheet(os.Args[2:])
	case "series":
		runSeries(os.Args[2:])
	case "archive":
		runArchive(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

// parseOne wraps assemble.ParseFile with the fatal/soft split: fatal
// errors exit nonzero, everything else comes back on the flight.
func parseOne(path string, cfg plan.Config) *plan.Flight {
	f, err := assemble.ParseFile(path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		os.Exit(1)
	}
	return f
}

func runParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	inPath := fs.String("input", "", "Input plan file")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	warnings := fs.Bool("warnings", false, "Print warnings to stderr")
	_ = fs.Parse(args)

	if *inPath == "" && fs.NArg() > 0 {
		*inPath = fs.Arg(0)
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "parse: -input is required")
		os.Exit(2)
	}

	f := parseOne(*inPath, plan.DefaultConfig())

	if *warnings {
		for _, w := range f.AllWarnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	data, err := render.Export(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
		os.Exit(1)
	}
	writeOut(*outPath, data)
}

func runCheatsheet(args []string) {
	fs := flag.NewFlagSet("cheatsheet", flag.ExitOnError)
	dialectName := fs.String("dialect", "wiki", "Output dialect: wiki, rest, or csv")
	outPath := fs.String("output", "", "Output file (default: stdout)")
	title := fs.String("title", "", "Override the sheet title")
	_ = fs.Parse(args)

	dialect, err := render.ParseDialect(*dialectName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cheatsheet: %v\n", err)
		os.Exit(2)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "cheatsheet: at least one plan file is required")
		os.Exit(2)
	}

	cfg := plan.DefaultConfig()
	var b strings.Builder
	for i, path := range fs.Args() {
		f := parseOne(path, cfg)
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(render.Flight(dialect, f, render.Options{Title: *title}))
	}
	writeOut(*outPath, []byte(b.String()))
}

func runSeries(args []string) {
	fs := flag.NewFlagSet("series", flag.ExitOnError)
	name := fs.String("name", "", "Series name")
	reviewer := fs.String("reviewer", "", "Reviewer name")
	dialectName := fs.String("dialect", "wiki", "Output dialect: wiki, rest, or csv")
	outPath := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "series: -name is required")
		os.Exit(2)
	}
	dialect, err := render.ParseDialect(*dialectName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "series: %v\n", err)
		os.Exit(2)
	}

	cfg := plan.DefaultConfig()
	rev := series.New(*name, *reviewer)
	for _, path := range fs.Args() {
		rev.Add(parseOne(path, cfg))
	}
	writeOut(*outPath, []byte(render.Series(dialect, rev, render.Options{})))
}

func runArchive(args []string) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	dbPath := fs.String("db", "flights.db", "SQLite catalogue path")
	remote := fs.Bool("remote", false, "Also push to ClickHouse and PostgreSQL")
	natsURL := fs.String("nats", "", "Publish parsed flights to this NATS server")
	seriesName := fs.String("series", "", "Record flights under this series in PostgreSQL")
	reviewer := fs.String("reviewer", "", "Reviewer name for the series")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "archive: at least one plan file is required")
		os.Exit(2)
	}

	db, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "archive: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	var archive *storage.Archive
	if *remote {
		archive, err = storage.OpenArchive(ctx, storage.DefaultConfig())
		if err != nil {
			fmt.Fprintf(os.Stderr, "archive: %v\n", err)
			os.Exit(1)
		}
		defer archive.Close()
		if err := archive.CreateSchemas(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "archive: %v\n", err)
			os.Exit(1)
		}
	}

	var pub *publish.Publisher
	if *natsURL != "" {
		pub, err = publish.Connect(*natsURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "archive: %v\n", err)
			os.Exit(1)
		}
		defer pub.Close()
	}

	cfg := plan.DefaultConfig()
	rev := series.New(*seriesName, *reviewer)
	for _, path := range fs.Args() {
		f := parseOne(path, cfg)

		_, inserted, err := db.InsertFlight(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
		state := "stored"
		if !inserted {
			state = "already stored"
		}
		fmt.Fprintf(os.Stderr, "%s: %s (%d legs, %d warnings)\n",
			path, state, len(f.Legs), len(f.AllWarnings()))

		if archive != nil {
			if err := archive.CH.ArchiveFlight(ctx, f); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				os.Exit(1)
			}
			rev.Add(f)
		}
		if pub != nil {
			if err := pub.Flight(f); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				os.Exit(1)
			}
		}
	}

	if archive != nil && *seriesName != "" {
		if err := archive.PG.SaveReview(ctx, rev); err != nil {
			fmt.Fprintf(os.Stderr, "archive: %v\n", err)
			os.Exit(1)
		}
	}
}

func writeOut(path string, data []byte) {
	if path == "" {
		_, _ = os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
}
