// Package sweep drives the grid × trial × variant benchmark loop.
package sweep

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/weiihann/amdahlbench/harness"
	"github.com/weiihann/amdahlbench/workload"
)

// Invoker runs one variant of the workload and returns its measurement.
type Invoker interface {
	Run(
		ctx context.Context,
		v workload.Variant,
		p workload.Params,
		seed uint32,
	) (harness.Measurement, error)
}

// Sink receives every post-warm-up measurement.
type Sink interface {
	Append(m harness.Measurement) error
}

// SeedSource draws one seed per trial.
type SeedSource interface {
	Next() uint32
}

// Controller runs a full sweep. It is not safe for concurrent use; variants
// are always invoked one after another.
type Controller struct {
	Grid     workload.Grid
	Variants []workload.Variant
	Invoker  Invoker
	Seeds    SeedSource
	Sink     Sink
	// Progress receives the "Finished N/M..." line. Nil disables it.
	Progress io.Writer
	Logger   *slog.Logger
}

// Summary describes a completed sweep.
type Summary struct {
	Points int
	Rows   int
	// LastTrial holds the measurements of the final trial in variant order.
	LastTrial []harness.Measurement
}

// Run executes the sweep and stops at the first failure.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	variants := c.Variants
	if len(variants) == 0 {
		variants = workload.Variants()
	}

	points := c.Grid.Points()
	total := len(points)

	var (
		summary Summary
		done    int
	)

	for _, p := range points {
		c.progress(done, total)

		logger := c.Logger.With(
			slog.Int("bytes_per_section", p.BytesPerSection),
			slog.Int("sections", p.Sections),
			slog.Int("requests", p.Requests),
		)

		for i := 0; i < c.Grid.Trials(); i++ {
			seed := c.Seeds.Next()
			warmUp := i < c.Grid.WarmUps

			trial := make([]harness.Measurement, 0, len(variants))

			for _, v := range variants {
				m, err := c.Invoker.Run(ctx, v, p, seed)
				if err != nil {
					return summary, fmt.Errorf(
						"trial %d of %+v, variant %s: %w", i, p, v, err,
					)
				}

				trial = append(trial, m)

				if warmUp {
					continue
				}

				if err := c.Sink.Append(m); err != nil {
					return summary, err
				}

				summary.Rows++
			}

			summary.LastTrial = trial

			logger.DebugContext(ctx, "trial complete",
				slog.Int("trial", i),
				slog.Bool("warm_up", warmUp),
				slog.Uint64("seed", uint64(seed)),
			)
		}

		done++
		summary.Points = done

		logger.InfoContext(ctx, "grid point complete",
			slog.Int("done", done),
			slog.Int("total", total),
		)
	}

	c.progress(done, total)

	if c.Progress != nil {
		fmt.Fprintln(c.Progress)
	}

	return summary, nil
}

func (c *Controller) progress(done, total int) {
	if c.Progress == nil {
		return
	}

	fmt.Fprintf(c.Progress, "Finished %d/%d...\r", done, total)
}
