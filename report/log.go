package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/weiihann/amdahlbench/harness"
)

// Header is the first line of every result log.
var Header = []string{
	"variant",
	"num_bytes_per_section",
	"num_sections",
	"num_requests",
	"seed",
	"time",
}

// Log is an append-only CSV result log. Every row is flushed and synced to
// disk before Append returns, so a crash never loses an acknowledged row.
type Log struct {
	file   *os.File
	w      *csv.Writer
	rows   int
	closed bool
}

// CreateLog truncates or creates the file at path and writes the header.
func CreateLog(path string) (*Log, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create result log: %w", err)
	}

	l := &Log{file: file, w: csv.NewWriter(file)}

	if err := l.write(Header); err != nil {
		file.Close()

		return nil, fmt.Errorf("write result log header: %w", err)
	}

	return l, nil
}

// Append writes one measurement row and forces it to durable storage.
func (l *Log) Append(m harness.Measurement) error {
	if err := l.write(Row(m)); err != nil {
		return fmt.Errorf("append result row: %w", err)
	}

	l.rows++

	return nil
}

// Rows is the number of data rows written so far.
func (l *Log) Rows() int {
	return l.rows
}

// Close flushes and closes the underlying file. Calls after the first are
// no-ops.
func (l *Log) Close() error {
	if l.closed {
		return nil
	}

	l.closed = true

	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()

		return err
	}

	return l.file.Close()
}

func (l *Log) write(record []string) error {
	if err := l.w.Write(record); err != nil {
		return err
	}

	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return err
	}

	return l.file.Sync()
}

// Row formats a measurement in Header order. The time column is the
// executable's own token.
func Row(m harness.Measurement) []string {
	raw := m.Raw
	if raw == "" {
		raw = strconv.FormatFloat(m.Value, 'g', -1, 64)
	}

	return []string{
		m.Variant.String(),
		strconv.Itoa(m.Params.BytesPerSection),
		strconv.Itoa(m.Params.Sections),
		strconv.Itoa(m.Params.Requests),
		strconv.FormatUint(uint64(m.Seed), 10),
		raw,
	}
}
