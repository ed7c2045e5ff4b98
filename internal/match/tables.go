// Package match loads the reference tables and decides whether an
// aircraft is of interest.
package match

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Range is one inclusive span of the 24-bit ICAO address space
// assigned to an affiliation.
type Range struct {
	Label string
	Lo    uint32
	Hi    uint32
}

// LoadRanges reads affiliation ranges from one or more CSV files of
// "label,startHex,endHex" rows. Blank lines and '#' comments are
// skipped. Anything else that does not parse is a hard error: the
// matcher must not run with a partial policy, so malformed reference
// data halts startup (unlike stream noise, which is skipped).
//
// The returned slice preserves file order and line order. That order is
// the tie-break when ranges overlap: the first-loaded range wins.
func LoadRanges(paths ...string) ([]Range, error) {
	var ranges []Range

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open range table: %w", err)
		}

		scanner := bufio.NewScanner(f)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.Split(line, ",")
			if len(parts) != 3 {
				return nil, closeWith(f, fmt.Errorf("%s:%d: want 3 fields, got %d", path, lineNo, len(parts)))
			}
			label := strings.TrimSpace(parts[0])
			lo, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 16, 32)
			if err != nil {
				return nil, closeWith(f, fmt.Errorf("%s:%d: bad lower bound %q", path, lineNo, parts[1]))
			}
			hi, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 16, 32)
			if err != nil {
				return nil, closeWith(f, fmt.Errorf("%s:%d: bad upper bound %q", path, lineNo, parts[2]))
			}
			if lo > hi {
				return nil, closeWith(f, fmt.Errorf("%s:%d: lower bound %X above upper %X", path, lineNo, lo, hi))
			}
			ranges = append(ranges, Range{Label: label, Lo: uint32(lo), Hi: uint32(hi)})
		}
		if err := scanner.Err(); err != nil {
			return nil, closeWith(f, fmt.Errorf("read range table %s: %w", path, err))
		}
		_ = f.Close()
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("no address ranges loaded from %s", strings.Join(paths, ", "))
	}
	return ranges, nil
}

// LoadPrefixes reads callsign prefixes, one per line, uppercased.
// Blank lines and '#' comments are skipped. An empty result is a hard
// error for the same reason as an empty range table.
func LoadPrefixes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open callsign list: %w", err)
	}
	defer f.Close()

	var prefixes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prefixes = append(prefixes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read callsign list %s: %w", path, err)
	}
	if len(prefixes) == 0 {
		return nil, fmt.Errorf("no callsign prefixes loaded from %s", path)
	}
	return prefixes, nil
}

func closeWith(f *os.File, err error) error {
	_ = f.Close()
	return err
}
