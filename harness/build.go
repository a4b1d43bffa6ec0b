package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultBinary is where cargo places the release build of the workload,
// relative to the repository root.
var DefaultBinary = filepath.Join("target", "release", "amdahls-lie")

// ResolveBinary returns DefaultBinary relative to the working directory.
func ResolveBinary() string {
	return "." + string(filepath.Separator) + DefaultBinary
}

// VerifyBinary checks that path names an executable regular file.
func VerifyBinary(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMissingBinary, path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrMissingBinary, path)
	}

	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: %s is not executable", ErrMissingBinary, path)
	}

	return nil
}

// classifyStartErr maps errors from starting a process onto ErrMissingBinary.
func classifyStartErr(path string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %w", ErrMissingBinary, path, err)
	}

	return fmt.Errorf("start %s: %w", path, err)
}
