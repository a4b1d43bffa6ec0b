// Package harness runs the external workload executable and turns its
// standard output into measurements.
package harness

import (
	"errors"

	"github.com/weiihann/amdahlbench/workload"
)

var (
	// ErrMissingBinary is returned when the workload executable does not
	// exist or cannot be executed.
	ErrMissingBinary = errors.New("workload binary missing or not executable")
	// ErrSubprocess is returned when the workload exits with a non-zero status.
	ErrSubprocess = errors.New("workload exited with failure")
	// ErrParse is returned when stdout is not a single floating-point value.
	ErrParse = errors.New("workload output is not a single number")
)

// Measurement is the timing reported by one invocation of the workload.
type Measurement struct {
	Variant workload.Variant
	Params  workload.Params
	Seed    uint32
	// Value is the parsed duration.
	Value float64
	// Raw is the trimmed token as printed by the executable.
	Raw string
}
