// Package report persists sweep measurements and formats the final
// comparison between variants.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/weiihann/amdahlbench/harness"
)

// ErrNotComparable is returned when the last trial cannot yield a speed-up.
var ErrNotComparable = errors.New("last trial has no comparable measurements")

// SpeedUp divides the first measurement of the last trial by the second.
// It is a spot check of a single trial, not an average over repeats.
func SpeedUp(lastTrial []harness.Measurement) (float64, error) {
	if len(lastTrial) < 2 {
		return 0, fmt.Errorf("%w: need 2 measurements, got %d",
			ErrNotComparable, len(lastTrial))
	}

	if lastTrial[1].Value == 0 {
		return 0, fmt.Errorf("%w: %s reported zero time",
			ErrNotComparable, lastTrial[1].Variant)
	}

	return lastTrial[0].Value / lastTrial[1].Value, nil
}

// Generate writes a markdown table of the last trial followed by the
// speed-up line.
func Generate(w io.Writer, lastTrial []harness.Measurement) error {
	speedup, err := SpeedUp(lastTrial)
	if err != nil {
		return err
	}

	first := lastTrial[0]

	fmt.Fprintln(w, "## Last Trial")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bytes/section: %d, sections: %d, requests: %d, seed: %d\n",
		first.Params.BytesPerSection,
		first.Params.Sections,
		first.Params.Requests,
		first.Seed,
	)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Variant | Time | Relative |")
	fmt.Fprintln(w, "|---------|------|----------|")

	for _, m := range lastTrial {
		relative := "-"
		if m.Value > 0 {
			relative = fmt.Sprintf("%.2fx", first.Value/m.Value)
		}

		fmt.Fprintf(w, "| %s | %s | %s |\n",
			m.Variant, formatSeconds(m.Value), relative)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Speed-Up: %gx\n", speedup)

	return nil
}

func formatSeconds(s float64) string {
	switch {
	case s < 1e-3:
		return fmt.Sprintf("%.1fµs", s*1e6)
	case s < 1:
		return fmt.Sprintf("%.2fms", s*1e3)
	default:
		return fmt.Sprintf("%.3fs", s)
	}
}
