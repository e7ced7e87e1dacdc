package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SourceTimeLayout is the fixed textual format the ACN API uses for
// connection and disconnect timestamps, interpreted as UTC.
const SourceTimeLayout = "Mon, 2 Jan 2006 15:04:05 GMT"

// missingIDPrefix marks identifiers synthesized for rows whose source id was
// absent. The numbering is sequential among the missing entries only.
const missingIDPrefix = "missing_"

// FillMissingIDs returns a copy of ids with empty entries replaced by unique
// placeholders: missing_0, missing_1, ... in row order.
func FillMissingIDs(ids []string) []string {
	out := make([]string, len(ids))
	n := 0
	for i, id := range ids {
		if id == "" {
			out[i] = missingIDPrefix + strconv.Itoa(n)
			n++
		} else {
			out[i] = id
		}
	}
	return out
}

// Factorize maps arbitrary identifier values to compact canonical tokens by
// order of first appearance: the first distinct value becomes EV0, the second
// EV1, and so on. The mapping is deterministic for a given input sequence.
func Factorize(ids []string) []string {
	codes := make(map[string]int, len(ids))
	out := make([]string, len(ids))
	for i, id := range ids {
		code, seen := codes[id]
		if !seen {
			code = len(codes)
			codes[id] = code
		}
		out[i] = "EV" + strconv.Itoa(code)
	}
	return out
}

// SingleZone verifies that exactly one distinct timezone value occurs and
// returns it. Heterogeneous timezones within one dataset are a hard error;
// the message lists every value found so the failure can be diagnosed
// without re-running.
func SingleZone(zones []string) (string, error) {
	distinct := make([]string, 0, 1)
	seen := make(map[string]bool)
	for _, z := range zones {
		if !seen[z] {
			seen[z] = true
			distinct = append(distinct, z)
		}
	}
	if len(distinct) != 1 {
		return "", &IntegrityError{
			Reason: fmt.Sprintf("expected a single timezone, found %d: [%s]",
				len(distinct), strings.Join(distinct, ", ")),
		}
	}
	return distinct[0], nil
}

// ToLocalNaive parses a SourceTimeLayout timestamp as UTC, converts it into
// zone (an IANA name such as "America/Los_Angeles"), and serializes it
// without the offset, producing the naive local timestamp the canonical
// schema requires.
func ToLocalNaive(value, zone string) (string, error) {
	ts, err := time.ParseInLocation(SourceTimeLayout, value, time.UTC)
	if err != nil {
		return "", &ParseError{Column: "", Value: value, Err: err}
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", &IntegrityError{Reason: fmt.Sprintf("unknown timezone %q", zone)}
	}
	return ts.In(loc).Format(DatetimeLayout), nil
}
