// internal/reporting/text_reporter.go
package reporting

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/xkilldash9x/boxflow/internal/engine"
)

// TextReporter writes a human readable dump of every stage as results
// arrive.
type TextReporter struct {
	writer io.WriteCloser
	mu     sync.Mutex
	count  int
}

// NewTextReporter takes ownership of writer.
func NewTextReporter(writer io.WriteCloser) *TextReporter {
	return &TextReporter{writer: writer}
}

func (r *TextReporter) Write(result *engine.Result) error {
	if result == nil {
		return fmt.Errorf("cannot report a nil result")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w := bufio.NewWriter(r.writer)
	if r.count > 0 {
		fmt.Fprintln(w)
	}
	r.count++

	vp := result.Viewport.Content
	fmt.Fprintf(w, "=== %s (%s) viewport %gx%g, %s ===\n", result.Name, result.JobID, vp.Width, vp.Height, result.Duration)

	section(w, "stylesheet")
	if len(result.StyleSheet.Rules) > 0 {
		fmt.Fprintln(w, result.StyleSheet.String())
	}
	section(w, "styles")
	result.Styles.Dump(w)
	section(w, "layout")
	result.Layout.Dump(w)
	section(w, "display list")
	result.DisplayList.Dump(w)

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}
	return nil
}

func section(w io.Writer, name string) {
	fmt.Fprintf(w, "--- %s ---\n", name)
}

func (r *TextReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer.Close()
}
