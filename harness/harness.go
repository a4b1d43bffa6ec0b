package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/weiihann/amdahlbench/workload"
)

// Runner launches the workload executable once per call to Run.
type Runner struct {
	BinaryPath string
	ExtraArgs  []string
	Env        []string
	Logger     *slog.Logger
}

// NewRunner creates a Runner for the executable at binaryPath.
// ExtraArgs are placed before the workload arguments and Env is appended to
// the inherited environment.
func NewRunner(
	binaryPath string,
	extraArgs, env []string,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		BinaryPath: binaryPath,
		ExtraArgs:  extraArgs,
		Env:        env,
		Logger:     logger.With(slog.String("binary", binaryPath)),
	}
}

// Args returns the positional arguments for one invocation:
// variant, bytes per section, sections, requests, seed.
func Args(v workload.Variant, p workload.Params, seed uint32) []string {
	numeric := lo.Map(
		[]uint64{
			uint64(p.BytesPerSection),
			uint64(p.Sections),
			uint64(p.Requests),
			uint64(seed),
		},
		func(n uint64, _ int) string { return strconv.FormatUint(n, 10) },
	)

	return append([]string{v.String()}, numeric...)
}

// Run executes the workload once and blocks until it exits.
func (r *Runner) Run(
	ctx context.Context,
	v workload.Variant,
	p workload.Params,
	seed uint32,
) (Measurement, error) {
	args := make([]string, 0, len(r.ExtraArgs)+5)
	args = append(args, r.ExtraArgs...)
	args = append(args, Args(v, p, seed)...)

	cmd := exec.CommandContext(ctx, r.BinaryPath, args...)

	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.DebugContext(ctx, "starting workload",
		slog.String("variant", v.String()),
		slog.Uint64("seed", uint64(seed)),
	)

	wallStart := time.Now()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Measurement{}, fmt.Errorf(
				"%w: %s %s: %w\nstderr: %s",
				ErrSubprocess, r.BinaryPath, strings.Join(args, " "),
				err, stderr.String(),
			)
		}

		return Measurement{}, classifyStartErr(r.BinaryPath, err)
	}

	r.Logger.DebugContext(ctx, "workload finished",
		slog.String("variant", v.String()),
		slog.Duration("wall_time", time.Since(wallStart)),
	)

	value, raw, err := parseMeasurement(&stdout)
	if err != nil {
		return Measurement{}, fmt.Errorf("parse %s output: %w", v, err)
	}

	return Measurement{
		Variant: v,
		Params:  p,
		Seed:    seed,
		Value:   value,
		Raw:     raw,
	}, nil
}

func parseMeasurement(r io.Reader) (float64, string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, "", fmt.Errorf("read output: %w", err)
	}

	raw := strings.TrimSpace(string(b))

	// Out-of-range tokens such as 1e400 parse as ±Inf with ErrRange.
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, "", fmt.Errorf("%w: %q", ErrParse, raw)
	}

	if math.IsNaN(value) || value < 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrParse, raw)
	}

	return value, raw, nil
}
