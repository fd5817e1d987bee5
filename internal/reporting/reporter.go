// internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/xkilldash9x/boxflow/internal/engine"
)

// ToolName identifies the producer in generated reports.
const ToolName = "boxflow"

// Reporter defines the interface for writing render results to an output.
type Reporter interface {
	// Write processes a single render result.
	Write(result *engine.Result) error
	// Close finalizes the report and closes any underlying resources (e.g., file handles).
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// IsStdout reports whether an output path designates standard output.
func IsStdout(path string) bool {
	return path == "" || path == "stdout" || path == "-"
}

// New creates a new reporter based on the specified format and output path.
func New(format, outputPath, toolVersion string) (Reporter, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if IsStdout(outputPath) {
		return NewForWriter(format, os.Stdout, toolVersion)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	return newReporter(format, f, toolVersion), nil
}

// NewForWriter creates a reporter on a writer it does not own; closing the
// reporter leaves w open.
func NewForWriter(format string, w io.Writer, toolVersion string) (Reporter, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	return newReporter(format, &nopWriteCloser{w}, toolVersion), nil
}

func checkFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

func newReporter(format string, w io.WriteCloser, toolVersion string) Reporter {
	if format == "json" {
		return NewJSONReporter(w, toolVersion)
	}
	return NewTextReporter(w)
}
