package checker

import (
	"errors"
	"fmt"
	"time"

	"github.com/mvp-joe/spec-check/internal/compare"
	"github.com/mvp-joe/spec-check/internal/discovery"
)

// ErrDrift is returned by Summary.Err when any file failed its check.
var ErrDrift = errors.New("spec drift detected")

// Outcome classifies the check of one source file.
type Outcome int

const (
	// OK means the source and spec declare the same items.
	OK Outcome = iota
	// Drift means the comparison found differences.
	Drift
	// MissingSpec means no spec file exists for the source file.
	MissingSpec
	// ParseFailed means the source file is not valid Rust.
	ParseFailed
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Drift:
		return "drift"
	case MissingSpec:
		return "missing spec"
	case ParseFailed:
		return "parse failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// FileResult is the check of one pair.
type FileResult struct {
	Pair    discovery.Pair
	Outcome Outcome

	// Result is set for OK and Drift.
	Result *compare.Result

	// Err is the parse error for ParseFailed.
	Err error

	// SkippedSamples counts spec samples that failed to parse.
	SkippedSamples int
}

// Failed reports whether the file counts as a file with errors.
func (r FileResult) Failed() bool {
	return r.Outcome != OK
}

// Summary aggregates a run.
type Summary struct {
	RunID      string
	Files      []FileResult // discovery order
	Total      int
	WithErrors int
	Duration   time.Duration
}

// Passing returns the number of files without errors.
func (s *Summary) Passing() int {
	return s.Total - s.WithErrors
}

// Count returns the number of files with the given outcome.
func (s *Summary) Count(o Outcome) int {
	n := 0
	for _, f := range s.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}

// Err returns an error wrapping ErrDrift when any file failed, nil otherwise.
func (s *Summary) Err() error {
	if s.WithErrors == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d files have errors", ErrDrift, s.WithErrors, s.Total)
}
