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
	"path/filepath"
	"strings"
	"testing"

	"github.com/weiihann/amdahlbench/workload"
)

// TestHelperProcess is not a real test. It stands in for the workload
// executable when re-executed by helperRunner.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("AMDAHLBENCH_HELPER") != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]

			break
		}
	}

	if path := os.Getenv("AMDAHLBENCH_HELPER_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintln(f, strings.Join(args, " "))
			f.Close()
		}
	}

	switch os.Getenv("AMDAHLBENCH_HELPER_MODE") {
	case "padded":
		fmt.Print("  0.1234\n")
	case "garbage":
		fmt.Print("abc")
	case "fail":
		fmt.Fprintln(os.Stderr, "boom")
		os.Exit(1)
	default:
		fmt.Println("0.5")
	}

	os.Exit(0)
}

func helperRunner(t *testing.T, mode string) (*Runner, string) {
	t.Helper()

	logPath := filepath.Join(t.TempDir(), "invocations.log")

	return NewRunner(
		os.Args[0],
		[]string{"-test.run=TestHelperProcess", "--"},
		[]string{
			"AMDAHLBENCH_HELPER=1",
			"AMDAHLBENCH_HELPER_MODE=" + mode,
			"AMDAHLBENCH_HELPER_LOG=" + logPath,
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	), logPath
}

var testParams = workload.Params{
	BytesPerSection: 250000,
	Sections:        8,
	Requests:        10_000_000,
}

func TestArgs(t *testing.T) {
	got := Args(workload.Multi, testParams, 4294967295)
	want := []string{"multi", "250000", "8", "10000000", "4294967295"}

	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Args = %v, want %v", got, want)
	}
}

func TestRunPassesArguments(t *testing.T) {
	r, logPath := helperRunner(t, "ok")

	m, err := r.Run(context.Background(), workload.Batch, testParams, 1234)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if m.Value != 0.5 || m.Raw != "0.5" {
		t.Errorf("measurement = %v (%q), want 0.5", m.Value, m.Raw)
	}
	if m.Variant != workload.Batch || m.Seed != 1234 || m.Params != testParams {
		t.Errorf("measurement metadata = %+v", m)
	}

	logged, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read invocation log: %v", err)
	}

	want := "batch 250000 8 10000000 1234"
	if strings.TrimSpace(string(logged)) != want {
		t.Errorf("invoked with %q, want %q", strings.TrimSpace(string(logged)), want)
	}
}

func TestRunTrimsWhitespace(t *testing.T) {
	r, _ := helperRunner(t, "padded")

	m, err := r.Run(context.Background(), workload.Single, testParams, 1)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if m.Value != 0.1234 {
		t.Errorf("value = %v, want 0.1234", m.Value)
	}
	if m.Raw != "0.1234" {
		t.Errorf("raw = %q, want 0.1234", m.Raw)
	}
}

func TestRunUnparsableOutput(t *testing.T) {
	r, _ := helperRunner(t, "garbage")

	_, err := r.Run(context.Background(), workload.Single, testParams, 1)
	if !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r, _ := helperRunner(t, "fail")

	_, err := r.Run(context.Background(), workload.Multi, testParams, 1)
	if !errors.Is(err, ErrSubprocess) {
		t.Fatalf("error = %v, want ErrSubprocess", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error does not carry stderr: %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := NewRunner(
		filepath.Join(t.TempDir(), "does-not-exist"),
		nil, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	_, err := r.Run(context.Background(), workload.Single, testParams, 1)
	if !errors.Is(err, ErrMissingBinary) {
		t.Errorf("error = %v, want ErrMissingBinary", err)
	}
}

func TestParseMeasurement(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"  0.1234\n", 0.1234, false},
		{"1e-3", 0.001, false},
		{"42", 42, false},
		{"abc", 0, true},
		{"", 0, true},
		{"0.1 0.2", 0, true},
		{"Took: 0.5s", 0, true},
		{"-1.5", 0, true},
		{"NaN", 0, true},
		{"inf", math.Inf(1), false},
		{"1e400", math.Inf(1), false},
		{"-1e400", 0, true},
	}

	for _, tt := range tests {
		got, _, err := parseMeasurement(bytes.NewReader([]byte(tt.input)))
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMeasurement(%q) error = %v, wantErr %v",
				tt.input, err, tt.wantErr)

			continue
		}
		if err != nil && !errors.Is(err, ErrParse) {
			t.Errorf("parseMeasurement(%q) error = %v, want ErrParse", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("parseMeasurement(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
