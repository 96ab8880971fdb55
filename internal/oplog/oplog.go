// Package oplog keeps the operator's running log for a flight: an
// append-only text file of timestamped free-form notes.
package oplog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"flightplan_parser/internal/plan"
)

// Entry is one operator note.
type Entry struct {
	At   time.Duration // time of day, UTC
	Text string
}

// Log appends entries to a file. Entries are written immediately; the
// file is the source of truth, not the struct.
type Log struct {
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Append writes one note stamped with the given UTC time of day. The
// line format is HH:MM:SS, a tab, then the note.
func (l *Log) Append(at time.Duration, text string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open oplog: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\t%s\n", plan.FormatHMS(at), strings.TrimSpace(text)); err != nil {
		return fmt.Errorf("append oplog: %w", err)
	}
	return nil
}

// Now appends a note stamped with the current UTC time of day.
func (l *Log) Now(text string) error {
	now := time.Now().UTC()
	at := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second
	return l.Append(at, text)
}

// Read loads every entry in file order. Lines that do not parse are
// skipped; an operator log is hand-edited often enough that a stray
// line must not take the whole log down.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open oplog: %w", err)
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		stamp, text, ok := strings.Cut(sc.Text(), "\t")
		if !ok {
			continue
		}
		at, err := plan.ParseHMS(stamp)
		if err != nil {
			continue
		}
		out = append(out, Entry{At: at, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read oplog: %w", err)
	}
	return out, nil
}
