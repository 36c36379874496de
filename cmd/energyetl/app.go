package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iNicoNavarro/data-problems/internal/config"
	"github.com/iNicoNavarro/data-problems/internal/logging"
	"github.com/iNicoNavarro/data-problems/internal/metrics"
	"github.com/iNicoNavarro/data-problems/internal/offers"
	"github.com/iNicoNavarro/data-problems/internal/runlog"
	"github.com/iNicoNavarro/data-problems/internal/schedule"
	"github.com/iNicoNavarro/data-problems/internal/weather"
)

// pipelineFunc runs one pipeline and reports the rows it produced.
type pipelineFunc func(ctx context.Context, cfg *config.Config) (int64, error)

// order is the sequence `all` runs.
var order = []string{"offers", "schedule", "weather"}

// Function variables used as test seams.
var (
	pipelines = map[string]pipelineFunc{
		"offers": func(ctx context.Context, cfg *config.Config) (int64, error) {
			res, err := offers.Run(ctx, cfg.Offers, cfg.BatchSize)
			return res.Loaded, err
		},
		"schedule": func(ctx context.Context, cfg *config.Config) (int64, error) {
			res, err := schedule.Run(ctx, cfg.Schedule)
			return int64(res.Output), err
		},
		"weather": func(ctx context.Context, cfg *config.Config) (int64, error) {
			res, err := weather.Run(ctx, cfg.Weather)
			return res.Inserted, err
		},
	}

	getenv = os.Getenv
)

// app is the per-invocation state shared by the subcommands.
type app struct {
	cfg      *config.Config
	runs     *runlog.Store
	closeLog func() error
	flush    func()
}

// newRootCmd builds the command tree. Flags are declared once on a Go
// flag.FlagSet by config.Register and shared by every subcommand.
func newRootCmd() *cobra.Command {
	scratch := config.Defaults()
	fs := flag.NewFlagSet("energyetl", flag.ContinueOnError)
	config.Register(fs, &scratch)

	a := &app{}

	root := &cobra.Command{
		Use:           "energyetl",
		Short:         "Batch ETL for energy-market offers, dispatch schedules and weather data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().AddGoFlagSet(fs)

	// setup resolves the configuration from the flags that were actually set
	// and validates it for the given pipelines.
	setup := func(cmd *cobra.Command, names ...string) error {
		explicit := map[string]string{}
		fs.VisitAll(func(f *flag.Flag) {
			if cmd.Flags().Changed(f.Name) {
				explicit[f.Name] = f.Value.String()
			}
		})
		cfg, err := config.Resolve(explicit, getenv)
		if err != nil {
			return err
		}
		if err := reportIssues(cfg.Validate(names...)); err != nil {
			return err
		}
		a.cfg = cfg
		return nil
	}

	for _, name := range order {
		name := name
		root.AddCommand(&cobra.Command{
			Use:   name,
			Short: "Run the " + name + " pipeline",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := setup(cmd, name); err != nil {
					return err
				}
				if err := a.start(cmd.Context()); err != nil {
					return err
				}
				defer a.stop()
				return a.runOne(cmd.Context(), name)
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run offers, schedule and weather in order, continuing past failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setup(cmd, order...); err != nil {
				return err
			}
			if err := a.start(cmd.Context()); err != nil {
				return err
			}
			defer a.stop()
			return a.runAll(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration for every pipeline and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setup(cmd, order...); err != nil {
				return err
			}
			log.Printf("config: valid (config=%q env-file=%q)", a.cfg.ConfigFile, a.cfg.EnvFile)
			return nil
		},
	})

	return root
}

// reportIssues prints every issue and fails when any is an error.
func reportIssues(issues []config.Issue) error {
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}

// start opens the log file, the metrics backend and the run ledger.
func (a *app) start(ctx context.Context) error {
	closeLog, err := logging.Setup(a.cfg.LogFile)
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	a.flush = setupMetrics(a.cfg.Metrics)

	if a.cfg.RunLog.DSN != "" {
		runs, err := runlog.Open(ctx, a.cfg.RunLog.Kind, a.cfg.RunLog.DSN)
		if err != nil {
			log.Printf("runlog: warning: %v; runs will not be recorded", err)
		} else {
			a.runs = runs
		}
	}
	return nil
}

func (a *app) stop() {
	if a.flush != nil {
		a.flush()
	}
	a.runs.Close()
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "logging: close: %v\n", err)
		}
	}
}

// runOne runs a single pipeline and records the outcome in the ledger.
func (a *app) runOne(ctx context.Context, name string) error {
	fn, ok := pipelines[name]
	if !ok {
		return fmt.Errorf("unknown pipeline %q", name)
	}

	run := runlog.Start(name)
	log.Printf("%s: start run_id=%s", name, run.ID)
	start := time.Now()

	rows, err := fn(ctx, a.cfg)
	run.Finish(rows, err)

	if recErr := a.runs.Record(context.WithoutCancel(ctx), run); recErr != nil {
		log.Printf("runlog: warning: %v", recErr)
	}
	if err != nil {
		log.Printf("%s: failed after %s: %v", name, time.Since(start).Truncate(time.Millisecond), err)
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Printf("%s: completed in %s rows=%d", name, time.Since(start).Truncate(time.Millisecond), rows)
	return nil
}

// runAll runs every pipeline in order. A failure is logged and the next
// pipeline still runs; cancellation stops the sequence.
func (a *app) runAll(ctx context.Context) error {
	var failed []string
	for _, name := range order {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := a.runOne(ctx, name); err != nil {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d pipelines failed: %s", len(failed), len(order), strings.Join(failed, ", "))
	}
	return nil
}

// setupMetrics installs the configured backend and returns its flush func.
func setupMetrics(m config.MetricsConfig) func() {
	b, err := newMetricsBackend(m)
	if err != nil {
		log.Printf("metrics: %v; metrics disabled", err)
		return func() {}
	}
	if b == nil {
		return func() {}
	}
	metrics.SetBackend(b)
	log.Printf("metrics: backend=%s", m.Backend)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}
