// Package main provides the CLI entry point for amdahlbench, which sweeps a
// fixed parameter grid and compares the execution variants of an external
// workload executable.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/weiihann/amdahlbench/harness"
	"github.com/weiihann/amdahlbench/report"
	"github.com/weiihann/amdahlbench/sweep"
	"github.com/weiihann/amdahlbench/workload"
)

const usageExitCode = 2

// usageError marks a wrong invocation of amdahlbench itself.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(os.Stderr, "Usage: %s <output file>\n", root.Name())
			os.Exit(usageExitCode)
		}

		logger.Error("benchmark failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "amdahlbench <output file>",
		Short: "Compare single, multi and batch workload variants",
		Long: `Amdahlbench runs the workload executable at ./target/release/amdahls-lie
over a fixed parameter grid. Every variant of a trial gets the same seed, each
post-warm-up measurement is appended to the output CSV, and the speed-up of the
first variant over the second in the last trial is printed at the end.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return usageError{msg: "missing output file"}
			}

			for _, arg := range args {
				if strings.HasPrefix(arg, "-") {
					return usageError{msg: fmt.Sprintf("unknown flag %q", arg)}
				}
			}

			return nil
		},
		// The only input is the output path; -h and --help are usage errors
		// like any other flag.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), logger, cmd.OutOrStdout(), sweepConfig{
				outputPath: args[0],
				binaryPath: harness.ResolveBinary(),
				seeds:      workload.NewTimeSeeder(),
			})
		},
	}

	return root
}

type sweepConfig struct {
	outputPath string
	binaryPath string
	extraArgs  []string
	env        []string
	seeds      sweep.SeedSource
}

func runSweep(
	ctx context.Context,
	logger *slog.Logger,
	out io.Writer,
	cfg sweepConfig,
) error {
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	grid, err := workload.DefaultGrid()
	if err != nil {
		return fmt.Errorf("load grid: %w", err)
	}

	logger.InfoContext(ctx, "starting sweep",
		slog.String("output", cfg.outputPath),
		slog.String("binary", cfg.binaryPath),
		slog.Int("grid_points", grid.Size()),
		slog.Int("warm_ups", grid.WarmUps),
		slog.Int("repeats", grid.Repeats),
	)

	resultLog, err := report.CreateLog(cfg.outputPath)
	if err != nil {
		return err
	}
	defer resultLog.Close()

	if err := harness.VerifyBinary(cfg.binaryPath); err != nil {
		return err
	}

	controller := &sweep.Controller{
		Grid: grid,
		Invoker: harness.NewRunner(
			cfg.binaryPath, cfg.extraArgs, cfg.env, logger,
		),
		Seeds:    cfg.seeds,
		Sink:     resultLog,
		Progress: out,
		Logger:   logger,
	}

	summary, err := controller.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	if err := resultLog.Close(); err != nil {
		return fmt.Errorf("close result log: %w", err)
	}

	if err := report.Generate(out, summary.LastTrial); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	logger.InfoContext(ctx, "sweep complete",
		slog.Int("grid_points", summary.Points),
		slog.Int("rows", summary.Rows),
	)

	return nil
}
