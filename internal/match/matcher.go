package match

import (
	"strconv"
	"strings"
)

// CallsignMatch is the label reported when an aircraft is of interest
// only because its callsign matched a configured prefix.
const CallsignMatch = "Callsign Match"

// Matcher classifies aircraft against the loaded reference tables. It
// is immutable after construction and safe for concurrent use.
type Matcher struct {
	ranges   []Range
	prefixes []string
}

// NewMatcher builds a matcher from pre-loaded tables. The range slice
// order is preserved; it determines the winner for overlapping ranges.
func NewMatcher(ranges []Range, prefixes []string) *Matcher {
	return &Matcher{ranges: ranges, prefixes: prefixes}
}

// Classify decides whether the aircraft with the given hex identifier
// and callsign is of interest, returning the affiliation label on a
// match. Range lookup runs first and takes priority over the callsign
// prefix check; a hex that does not parse simply cannot match by range
// and falls through to the prefix check.
//
// For a fixed table the result is a pure function of (hex, callsign).
func (m *Matcher) Classify(hex, callsign string) (string, bool) {
	if addr, err := strconv.ParseUint(strings.TrimSpace(hex), 16, 32); err == nil {
		for _, r := range m.ranges {
			if uint32(addr) >= r.Lo && uint32(addr) <= r.Hi {
				return r.Label, true
			}
		}
	}

	cs := strings.ToUpper(strings.TrimSpace(callsign))
	if cs == "" {
		return "", false
	}
	for _, p := range m.prefixes {
		if strings.HasPrefix(cs, p) {
			return CallsignMatch, true
		}
	}
	return "", false
}

// RangeCount and PrefixCount report table sizes for startup logging.
func (m *Matcher) RangeCount() int  { return len(m.ranges) }
func (m *Matcher) PrefixCount() int { return len(m.prefixes) }
