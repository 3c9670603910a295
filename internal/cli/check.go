package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/mvp-joe/spec-check/internal/checker"
	"github.com/mvp-joe/spec-check/internal/config"
	"github.com/mvp-joe/spec-check/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// checkOptions holds the root command's flags.
type checkOptions struct {
	src          string
	spec         string
	logFile      string
	checkPrivate bool
	ignoreAttrs  []string
	manifest     string
	jobs         int
	quiet        bool
	watch        bool
}

func (o *checkOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.src, "src", "s", "src", "Source directory")
	flags.StringVarP(&o.spec, "spec", "p", "spec", "Spec directory")
	flags.BoolVar(&o.checkPrivate, "check-private", false, "Check private items in addition to public items")
	flags.StringVarP(&o.logFile, "log", "l", "spec-check.log", "Output log file")
	flags.StringArrayVarP(&o.ignoreAttrs, "ignore-attr", "i", nil, "Attribute to ignore (can be specified multiple times)")
	flags.StringVar(&o.manifest, "manifest", "Cargo.toml", "Path to Cargo.toml")
	flags.IntVarP(&o.jobs, "jobs", "j", runtime.NumCPU(), "Number of files checked in parallel")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "Disable progress bars and console summary")
	flags.BoolVarP(&o.watch, "watch", "w", false, "Re-check whenever a .rs or .md file changes")
}

// overrides returns the values of flags set explicitly on the command line.
// Flags left at their defaults never mask configured values.
func (o *checkOptions) overrides(flags *pflag.FlagSet) config.Overrides {
	var ov config.Overrides
	if flags.Changed("src") {
		ov.SrcDir = &o.src
	}
	if flags.Changed("spec") {
		ov.SpecDir = &o.spec
	}
	if flags.Changed("log") {
		ov.LogFile = &o.logFile
	}
	if flags.Changed("check-private") {
		ov.CheckPrivate = &o.checkPrivate
	}
	if flags.Changed("jobs") {
		ov.Jobs = &o.jobs
	}
	ov.ExtraIgnoredAttributes = o.ignoreAttrs
	return ov
}

// loadConfig layers defaults, Cargo.toml metadata, environment and flags.
func (o *checkOptions) loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfigFromManifest(o.manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.ApplyOverrides(o.overrides(flags))

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	// Cancel on Ctrl+C
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := opts.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	progress := NewCLIProgressReporter(opts.quiet, cmd.OutOrStdout(), cfg.LogFile)

	c, err := checker.New(cfg, checker.WithProgress(progress))
	if err != nil {
		return fmt.Errorf("failed to create checker: %w", err)
	}
	defer c.Close()

	summary, err := c.Run(ctx)
	if err != nil {
		return err
	}

	if !opts.watch {
		return summary.Err()
	}

	return runWatch(ctx, c, cfg, opts.quiet, watcher.DefaultDebounce)
}

// runWatch re-runs the check after every debounced batch of changes until
// ctx is cancelled. Drift never ends watch mode; it is shown and logged.
func runWatch(ctx context.Context, c *checker.Checker, cfg *config.Config, quiet bool, debounce time.Duration) error {
	w, err := watcher.New([]string{cfg.SrcDir, cfg.SpecDir}, watcher.WithDebounce(debounce))
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Stop()

	if !quiet {
		log.Printf("Watching %s and %s for changes (Ctrl+C to stop)", cfg.SrcDir, cfg.SpecDir)
	}

	err = w.Start(ctx, func(files []string) {
		if !quiet {
			log.Printf("Detected %d changed file(s), re-checking...", len(files))
		}
		if _, err := c.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Warning: check failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	<-ctx.Done()
	if !quiet {
		log.Println("Stopping watch mode")
	}
	return nil
}
