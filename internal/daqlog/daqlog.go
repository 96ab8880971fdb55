// Package daqlog builds the rolling data-acquisition log: it scans a
// directory of raw instrument files, pulls the identifying header cards
// out of each one, and appends them to the SQLite acquisition log.
// Files already logged are skipped, so the scanner can run on a timer
// against a growing directory.
package daqlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"flightplan_parser/internal/storage"
)

// cardKeys are the header cards the log records, in the spelling raw
// files use.
var cardKeys = map[string]bool{
	"INSTRUME": true,
	"OBJECT":   true,
	"OBS_ID":   true,
	"AOR_ID":   true,
	"MISSN-ID": true,
	"DATE-OBS": true,
	"EXPTIME":  true,
}

// headerLimit bounds how much of a raw file the scanner reads. Header
// cards sit at the front; the data payload after them can be huge.
const headerLimit = 64 * 1024

// Scanner walks a data directory and feeds new files into the log.
type Scanner struct {
	Dir string
	DB  *storage.DB

	// Pattern restricts which files are scanned, e.g. "*.fits". Empty
	// means every regular file.
	Pattern string
}

// Scan walks the directory once. It returns how many new files were
// logged; files that fail to parse are skipped with an error in the
// returned slice rather than aborting the sweep.
func (s *Scanner) Scan() (logged int, errs []error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, []error{fmt.Errorf("read data dir: %w", err)}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if s.Pattern != "" {
			if ok, _ := filepath.Match(s.Pattern, e.Name()); !ok {
				continue
			}
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		a, err := ReadHeader(filepath.Join(s.Dir, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		inserted, err := s.DB.InsertAcquisition(a)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if inserted {
			logged++
		}
	}
	return logged, errs
}

// ReadHeader extracts the identifying cards from the front of one raw
// file. Cards are `KEY = value` lines; string values may be quoted and
// a trailing `/ comment` is dropped.
func ReadHeader(path string) (storage.Acquisition, error) {
	a := storage.Acquisition{Filename: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		return a, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(io.LimitReader(f, headerLimit))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "END") {
			break
		}
		key, value, ok := card(line)
		if !ok || !cardKeys[key] {
			continue
		}
		switch key {
		case "INSTRUME":
			a.Instrument = value
		case "OBJECT":
			a.Object = value
		case "OBS_ID":
			a.ObsID = value
		case "AOR_ID":
			a.AORID = value
		case "MISSN-ID":
			a.MissionID = value
		case "DATE-OBS":
			a.DateObs = value
		case "EXPTIME":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				a.ExpTime = v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return a, fmt.Errorf("read header: %w", err)
	}
	return a, nil
}

// card splits one `KEY = value / comment` header line.
func card(line string) (key, value string, ok bool) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:eq])
	value = strings.TrimSpace(line[eq+1:])

	// Drop a trailing comment, but not a slash inside a quoted value.
	if strings.HasPrefix(value, "'") {
		if end := strings.Index(value[1:], "'"); end >= 0 {
			value = value[1 : 1+end]
		} else {
			value = strings.Trim(value, "'")
		}
	} else if slash := strings.Index(value, "/"); slash >= 0 {
		value = strings.TrimSpace(value[:slash])
	}
	return key, strings.TrimSpace(value), key != ""
}
