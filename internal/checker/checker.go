// Package checker runs the source/spec comparison over a whole project and
// writes the report.
package checker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/mvp-joe/spec-check/internal/cache"
	"github.com/mvp-joe/spec-check/internal/compare"
	"github.com/mvp-joe/spec-check/internal/config"
	"github.com/mvp-joe/spec-check/internal/discovery"
	"github.com/mvp-joe/spec-check/internal/extract"
	"github.com/mvp-joe/spec-check/internal/report"
	"github.com/mvp-joe/spec-check/internal/samples"
	"golang.org/x/sync/errgroup"
)

// Checker pairs source files with spec files and compares them.
type Checker struct {
	cfg       *config.Config
	progress  ProgressReporter
	cache     *cache.Cache
	ownsCache bool

	// progressMu serializes progress callbacks from workers.
	progressMu sync.Mutex
}

// Option configures a Checker.
type Option func(*Checker)

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(c *Checker) {
		if p != nil {
			c.progress = p
		}
	}
}

// WithCache shares an extraction cache across runs. The caller keeps
// ownership and closes it.
func WithCache(ec *cache.Cache) Option {
	return func(c *Checker) {
		c.cache = ec
	}
}

// New creates a Checker for cfg. cfg should already be validated.
func New(cfg *config.Config, opts ...Option) (*Checker, error) {
	c := &Checker{
		cfg:      cfg,
		progress: &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cache == nil {
		ec, err := cache.New(cache.DefaultCapacity)
		if err != nil {
			return nil, err
		}
		c.cache = ec
		c.ownsCache = true
	}

	return c, nil
}

// Close releases the extraction cache if the Checker created it.
func (c *Checker) Close() {
	if c.ownsCache {
		c.cache.Close()
	}
}

// Run checks every pair and writes the log file. Drift is reported through
// the Summary, not the error; the error is for failures of the run itself
// (unreadable files, unwritable log, cancellation).
func (c *Checker) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	fd, err := discovery.NewFileDiscovery(c.cfg.SrcDir, c.cfg.SpecDir, c.cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	pairs, err := fd.DiscoverPairs()
	if err != nil {
		return nil, fmt.Errorf("failed to find source files: %w", err)
	}
	c.progress.OnDiscoveryComplete(len(pairs))

	results, err := c.checkAll(ctx, pairs)
	if err != nil {
		return nil, err
	}

	rep, err := report.Create(c.cfg.LogFile)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID: rep.RunID(),
		Files: results,
		Total: len(results),
	}
	for _, r := range results {
		if r.Failed() {
			summary.WithErrors++
		}
	}

	if err := writeReport(rep, started, c.cfg, summary); err != nil {
		rep.Close()
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	if err := rep.Close(); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	summary.Duration = time.Since(started)
	c.progress.OnComplete(summary)

	return summary, nil
}

// checkAll checks pairs with at most cfg.Jobs workers. Results keep the
// order of pairs.
func (c *Checker) checkAll(ctx context.Context, pairs []discovery.Pair) ([]FileResult, error) {
	results := make([]FileResult, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.cfg.Jobs, 1))

	for i, pair := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := c.CheckPair(pair)
			if err != nil {
				return err
			}
			results[i] = result

			c.progressMu.Lock()
			c.progress.OnFileChecked(result)
			c.progressMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckPair checks one source file against its spec file. Only I/O failures
// are returned as errors; parse failures and drift are outcomes.
func (c *Checker) CheckPair(pair discovery.Pair) (FileResult, error) {
	result := FileResult{Pair: pair}

	source, err := os.ReadFile(pair.Source)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", pair.Source, err)
	}

	codeItems, err := c.cache.Extract(string(source), c.cfg.CheckPrivate)
	if err != nil {
		result.Outcome = ParseFailed
		result.Err = err
		return result, nil
	}

	if !pair.HasSpec {
		result.Outcome = MissingSpec
		return result, nil
	}

	doc, err := os.ReadFile(pair.Spec)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", pair.Spec, err)
	}

	specItems, skipped, err := c.extractSpec(pair.Spec, string(doc))
	if err != nil {
		return result, fmt.Errorf("failed to parse markdown %s: %w", pair.Spec, err)
	}
	result.SkippedSamples = skipped

	result.Result = compare.Compare(codeItems, specItems, c.cfg.IgnoredAttributes)
	if result.Result.HasErrors() {
		result.Outcome = Drift
	} else {
		result.Outcome = OK
	}
	return result, nil
}

// extractSpec extracts the items of every rust sample in doc. Samples that do
// not parse are logged and skipped. Item lines are shifted from sample
// coordinates to document coordinates.
func (c *Checker) extractSpec(specPath, doc string) ([]extract.Item, int, error) {
	fences, err := samples.ExtractFences(doc, samples.Lang)
	if err != nil {
		return nil, 0, err
	}

	var items []extract.Item
	skipped := 0
	for _, fence := range fences {
		fenceItems, err := c.cache.Extract(fence.Code, c.cfg.CheckPrivate)
		if err != nil {
			var parseErr *extract.ParseError
			if errors.As(err, &parseErr) && parseErr.Line > 0 {
				log.Printf("Warning: skipping sample in %s at line %d: %v", specPath, fence.Line+parseErr.Line-1, err)
			} else {
				log.Printf("Warning: skipping sample in %s starting at line %d: %v", specPath, fence.Line, err)
			}
			skipped++
			continue
		}

		for i := range fenceItems {
			fenceItems[i].Line += fence.Line - 1
		}
		items = append(items, fenceItems...)
	}
	return items, skipped, nil
}

func writeReport(rep *report.Reporter, started time.Time, cfg *config.Config, summary *Summary) error {
	if err := rep.WriteHeader(started, cfg.SrcDir, cfg.SpecDir); err != nil {
		return err
	}

	for _, f := range summary.Files {
		var err error
		switch f.Outcome {
		case MissingSpec:
			err = rep.ReportMissingSpec(f.Pair.Source)
		case ParseFailed:
			err = rep.ReportParseFailure(f.Pair.Source, f.Err)
		default:
			err = rep.ReportResults(f.Pair.Source, f.Result)
		}
		if err != nil {
			return err
		}
	}

	return rep.WriteSummary(summary.Total, summary.WithErrors)
}
