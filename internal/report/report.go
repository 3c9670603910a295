// Package report writes the spec-check log.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mvp-joe/spec-check/internal/compare"
	"github.com/mvp-joe/spec-check/internal/extract"
)

// Reporter writes per-file results and a summary to a log.
// Writes are buffered; call Close (or Flush) to persist them.
type Reporter struct {
	out    *bufio.Writer
	closer io.Closer
	runID  string
}

// Create truncates or creates the log file at path.
func Create(path string) (*Reporter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	r := New(f)
	r.closer = f
	return r, nil
}

// New returns a Reporter writing to w with a fresh run ID.
func New(w io.Writer) *Reporter {
	return &Reporter{
		out:   bufio.NewWriter(w),
		runID: uuid.NewString(),
	}
}

// RunID identifies this run in the log header.
func (r *Reporter) RunID() string {
	return r.runID
}

// WriteHeader writes the run banner.
func (r *Reporter) WriteHeader(started time.Time, srcDir, specDir string) error {
	_, err := fmt.Fprintf(r.out, "spec-check run %s at %s\nsource: %s\nspec: %s\n\n",
		r.runID, started.Format(time.RFC3339), srcDir, specDir)
	return err
}

// ReportMissingSpec records a source file without a paired spec file.
func (r *Reporter) ReportMissingSpec(file string) error {
	_, err := fmt.Fprintf(r.out, "WARNING: No spec file found for %s\n", file)
	return err
}

// ReportParseFailure records a source file that could not be parsed.
func (r *Reporter) ReportParseFailure(file string, cause error) error {
	_, err := fmt.Fprintf(r.out, "\nERROR: %s\n  Failed to parse: %v\n", file, cause)
	return err
}

// ReportResults records the comparison of one pair: "OK: <file>" when
// there is no drift, otherwise an ERROR block listing each kind of drift.
func (r *Reporter) ReportResults(file string, result *compare.Result) error {
	if !result.HasErrors() {
		_, err := fmt.Fprintf(r.out, "OK: %s\n", file)
		return err
	}

	w := r.out
	fmt.Fprintf(w, "\nERROR: %s\n", file)

	if len(result.MissingInSpec) > 0 {
		fmt.Fprintln(w, "  Items in code but not in spec:")
		for _, item := range result.MissingInSpec {
			fmt.Fprintf(w, "    - %s (line %d)\n", item.Label(), item.Line)
		}
	}

	if len(result.MissingInCode) > 0 {
		fmt.Fprintln(w, "  Items in spec but not in code:")
		for _, item := range result.MissingInCode {
			fmt.Fprintf(w, "    - %s (line %d)\n", item.Label(), item.Line)
		}
	}

	if len(result.SignatureMismatches) > 0 {
		fmt.Fprintln(w, "  Signature mismatches:")
		for _, m := range result.SignatureMismatches {
			fmt.Fprintf(w, "    - %s\n", m.Code.Label())
			fmt.Fprintf(w, "      Code (line %d): %s\n", m.Code.Line, m.Code.Signature)
			fmt.Fprintf(w, "      Spec (line %d): %s\n", m.Spec.Line, m.Spec.Signature)
			if m.FirstDiff != nil {
				fmt.Fprintf(w, "      First difference at character %d\n", *m.FirstDiff)
			}
		}
	}

	if len(result.AttributeMismatches) > 0 {
		fmt.Fprintln(w, "  Attribute mismatches:")
		for _, m := range result.AttributeMismatches {
			fmt.Fprintf(w, "    - %s (code line %d, spec line %d)\n", m.Code.Label(), m.Code.Line, m.Spec.Line)
			fmt.Fprintf(w, "      Code attributes: %s\n", formatAttributes(m.Code))
			fmt.Fprintf(w, "      Spec attributes: %s\n", formatAttributes(m.Spec))
		}
	}

	// bufio.Writer keeps the first write error; surface it here.
	_, err := w.WriteString("")
	return err
}

// WriteSummary appends the summary block.
func (r *Reporter) WriteSummary(total, withErrors int) error {
	return WriteSummary(r.out, total, withErrors)
}

// Flush writes buffered output to the underlying writer.
func (r *Reporter) Flush() error {
	return r.out.Flush()
}

// Close flushes and, for file reporters, closes the log.
func (r *Reporter) Close() error {
	err := r.out.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// WriteSummary writes the totals block used both in the log and on the
// console.
func WriteSummary(w io.Writer, total, withErrors int) error {
	_, err := fmt.Fprintf(w, "\n%s\nSUMMARY\nTotal files checked: %d\nFiles with errors: %d\nFiles passing: %d\n",
		strings.Repeat("=", 80), total, withErrors, total-withErrors)
	return err
}

func formatAttributes(item extract.Item) string {
	if len(item.Attributes) == 0 {
		return "none"
	}
	return strings.Join(item.Attributes, ", ")
}
