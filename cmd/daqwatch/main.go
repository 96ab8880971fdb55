// daqwatch scans a raw-data directory on a timer and appends newly
// appeared files to the SQLite acquisition log. Run it alongside an
// observing session; the cheat-sheet tooling reads the same database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightplan_parser/internal/daqlog"
	"flightplan_parser/internal/storage"
)

func main() {
	dir := flag.String("dir", ".", "Raw data directory to watch")
	dbPath := flag.String("db", "flights.db", "SQLite database path")
	pattern := flag.String("pattern", "*.fits", "Filename pattern to scan")
	interval := flag.Duration("interval", 10*time.Second, "Poll interval")
	once := flag.Bool("once", false, "Scan once and exit")
	flag.Parse()

	db, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daqwatch: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	scanner := &daqlog.Scanner{Dir: *dir, DB: db, Pattern: *pattern}

	sweep := func() {
		logged, errs := scanner.Scan()
		for _, err := range errs {
			log.Printf("scan: %v", err)
		}
		if logged > 0 {
			log.Printf("logged %d new files from %s", logged, *dir)
		}
	}

	sweep()
	if *once {
		return
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	log.Printf("watching %s every %s", *dir, *interval)
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-stop:
			log.Printf("shutting down")
			return
		}
	}
}
