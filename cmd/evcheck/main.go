// Command evcheck runs integrity checks against formatted session CSV files:
// canonical schema conformance, datetime and energy typing, and advisory
// plausibility checks (session end before start, negative energy).
//
// Usage:
//
//	evcheck data/formatted/acn_caltech.csv data/formatted/asr.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/voltcurve/evsessions/internal/domain"
	"github.com/voltcurve/evsessions/internal/frame"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func (p *phase) report() {
	if p.passed() {
		fmt.Printf("  PASS %s\n", p.name)
		return
	}
	fmt.Printf("  FAIL %s\n", p.name)
	for _, e := range p.errors {
		fmt.Printf("       %s\n", e)
	}
}

func main() {
	strict := flag.Bool("strict", false, "treat advisory findings as failures")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: evcheck [-strict] <formatted.csv> ...")
		os.Exit(2)
	}

	code := 0
	for _, path := range flag.Args() {
		fmt.Printf("%s\n", path)
		if !checkFile(path, *strict) {
			code = 1
		}
	}
	os.Exit(code)
}

func checkFile(path string, strict bool) bool {
	schema := &phase{name: "schema and types"}
	advisory := &phase{name: "plausibility (advisory)"}

	f, err := frame.ReadFile(path, ',')
	if err != nil {
		schema.errorf("read: %v", err)
		schema.report()
		return false
	}

	validated, err := domain.Validate(f)
	if err != nil {
		schema.errorf("%v", err)
		schema.report()
		return false
	}
	schema.report()

	sessions, err := domain.Sessions(validated)
	if err != nil {
		advisory.errorf("%v", err)
		advisory.report()
		return false
	}

	tokens := make(map[string]int, len(sessions))
	for i, s := range sessions {
		if s.End.Before(s.Start) {
			advisory.errorf("row %d: end %s before start %s", i, s.End.Format(domain.DatetimeLayout), s.Start.Format(domain.DatetimeLayout))
		}
		if s.TotalEnergy < 0 {
			advisory.errorf("row %d: negative energy %s", i, strconv.FormatFloat(s.TotalEnergy, 'g', -1, 64))
		}
		tokens[s.EVID]++
	}
	advisory.report()

	fmt.Printf("  %d sessions, %d vehicles\n", len(sessions), len(tokens))
	return advisory.passed() || !strict
}
