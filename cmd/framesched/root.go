package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"framesched/internal/config"
	"framesched/internal/hostloop"
	"framesched/internal/job"
	"framesched/internal/logging"
	"framesched/internal/sched"
)

// RunOptions holds the flags of the run command.
type RunOptions struct {
	ConfigPath string
	Jobs       int
	Units      int
	UnitCost   time.Duration
	Trace      string
	LogLevel   string
	LogFormat  string
}

// NewRootCommand creates the root command for the framesched CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "framesched",
		Short:        "Cooperative time-sliced task scheduler",
		SilenceUsage: true,
	}
	cmd.AddCommand(NewRunCommand())
	return cmd
}

// NewRunCommand creates the run command: it drives a synthetic workload
// through the scheduler on a host event loop until the queue drains.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a synthetic incremental workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", opts.Jobs)
			}
			if opts.Units < 1 {
				return fmt.Errorf("--units must be at least 1, got %d", opts.Units)
			}

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = opts.LogLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = opts.LogFormat
			}
			if cmd.Flags().Changed("trace") {
				cfg.TraceCSV = opts.Trace
			}

			return run(cmd.Context(), cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "config.yml", "path to the YAML config")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 3, "number of jobs to schedule")
	cmd.Flags().IntVar(&opts.Units, "units", 20, "units of work per job")
	cmd.Flags().DurationVar(&opts.UnitCost, "unit-cost", time.Millisecond, "time one unit of work takes")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "write a CSV event trace to this path")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "console", "log format (console|json)")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, cfg config.Config, opts *RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log := logging.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	loop := hostloop.New(cfg.Host, log)

	schedOpts := []sched.Option{
		sched.WithLogger(log),
		sched.WithEventSink(func(ev sched.StatusEvent) {
			if ev.Kind == sched.StatusIdle {
				loop.Stop()
			}
		}),
	}
	if cfg.TraceCSV != "" {
		trace, err := sched.OpenCSVTrace(cfg.TraceCSV)
		if err != nil {
			return err
		}
		defer trace.Close()
		schedOpts = append(schedOpts, sched.WithEventSink(trace.Record))
	}

	s, err := sched.New(cfg.Scheduler, loop.Host(), schedOpts...)
	if err != nil {
		return err
	}

	jobs := make([]*job.Job, opts.Jobs)
	for i := range jobs {
		jobs[i] = &job.Job{
			Name:  fmt.Sprintf("job-%d", i+1),
			Units: opts.Units,
			Step:  job.SleepStep(opts.UnitCost),
		}
	}

	start := time.Now()
	loop.PostMessage(func() {
		for _, j := range jobs {
			id := s.Schedule(j.Callback(s.ShouldYield))
			log.Debug().Str("job", j.Name).Uint64("task", uint64(id)).Msg("job scheduled")
		}
	})

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scheduler %s (%s mode) finished in %s: %d turns, %d frames\n",
		s.ID(), s.HostMode(), time.Since(start).Round(time.Millisecond), loop.Turns(), loop.Frames())
	for _, j := range jobs {
		fmt.Fprintf(out, "  %-8s %4d/%-4d units  %3d passes  %3d overdue\n",
			j.Name, j.Progress(), j.Units, j.Passes(), j.OverduePasses())
	}
	return nil
}
