package domain

import (
	"strconv"
	"time"

	"github.com/voltcurve/evsessions/internal/frame"
)

// datetimeLayouts are the accepted input representations for the two
// timestamp columns, tried in order. Formatted files use DatetimeLayout;
// the other layouts tolerate fractional seconds and RFC3339-style separators
// left behind by source encodings.
var datetimeLayouts = []string{
	DatetimeLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
}

// Validate checks a frame against the canonical session schema and returns a
// new frame with both datetime columns coerced to DatetimeLayout. The input
// frame is never mutated. Failure modes:
//
//   - one or more required columns absent: *SchemaError listing all of them
//   - a datetime cell that no accepted layout parses: *ParseError
//   - a total_energy cell that is not a float: *TypeMismatchError
//   - an empty EV identifier cell: *TypeMismatchError
func Validate(f *frame.Frame) (*frame.Frame, error) {
	var missing []string
	for _, col := range RequiredColumns {
		if !f.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	out := f.Clone()

	for _, col := range []string{ColStartDatetime, ColEndDatetime} {
		values, err := out.Column(col)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			ts, err := ParseDatetime(v)
			if err != nil {
				return nil, &ParseError{Column: col, Value: v, Err: err}
			}
			values[i] = ts.Format(DatetimeLayout)
		}
		if err := out.SetColumn(col, values); err != nil {
			return nil, err
		}
	}

	energies, err := out.Column(ColTotalEnergy)
	if err != nil {
		return nil, err
	}
	for _, v := range energies {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return nil, &TypeMismatchError{Column: ColTotalEnergy, Want: "a float", Value: v}
		}
	}

	ids, err := out.Column(ColEVID)
	if err != nil {
		return nil, err
	}
	for _, v := range ids {
		if v == "" {
			return nil, &TypeMismatchError{Column: ColEVID, Want: "a non-empty string", Value: v}
		}
	}

	return out, nil
}

// ParseDatetime parses a naive timestamp cell using the accepted layouts.
func ParseDatetime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range datetimeLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Sessions converts a validated frame into typed records. It assumes
// Validate has already succeeded and returns the underlying parse error
// otherwise.
func Sessions(f *frame.Frame) ([]Session, error) {
	ids, err := f.Column(ColEVID)
	if err != nil {
		return nil, err
	}
	starts, err := f.Column(ColStartDatetime)
	if err != nil {
		return nil, err
	}
	ends, err := f.Column(ColEndDatetime)
	if err != nil {
		return nil, err
	}
	energies, err := f.Column(ColTotalEnergy)
	if err != nil {
		return nil, err
	}

	sessions := make([]Session, len(ids))
	for i := range ids {
		start, err := ParseDatetime(starts[i])
		if err != nil {
			return nil, &ParseError{Column: ColStartDatetime, Value: starts[i], Err: err}
		}
		end, err := ParseDatetime(ends[i])
		if err != nil {
			return nil, &ParseError{Column: ColEndDatetime, Value: ends[i], Err: err}
		}
		energy, err := strconv.ParseFloat(energies[i], 64)
		if err != nil {
			return nil, &TypeMismatchError{Column: ColTotalEnergy, Want: "a float", Value: energies[i]}
		}
		sessions[i] = Session{EVID: ids[i], Start: start, End: end, TotalEnergy: energy}
	}
	return sessions, nil
}
