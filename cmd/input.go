// File: cmd/input.go
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/boxflow/internal/config"
	"github.com/xkilldash9x/boxflow/internal/engine"
)

// inputFlags are shared by every command that reads documents.
type inputFlags struct {
	cssPath  string
	fragment bool
	width    float64
	height   float64
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cssPath, "css", "", "stylesheet applied to every document")
	cmd.Flags().BoolVar(&f.fragment, "fragment", false, "parse documents as body fragments; the first top-level element is the root")
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width in px (overrides layout.viewport_width)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height in px (overrides layout.viewport_height)")
}

// applyViewport pushes explicit --width/--height onto cfg.
func (f *inputFlags) applyViewport(cmd *cobra.Command, cfg config.Interface) error {
	lc := cfg.Layout()
	w, h := lc.ViewportWidth, lc.ViewportHeight
	if cmd.Flags().Changed("width") {
		w = f.width
	}
	if cmd.Flags().Changed("height") {
		h = f.height
	}
	if w < 0 || h < 0 {
		return fmt.Errorf("viewport dimensions must not be negative")
	}
	cfg.SetViewport(w, h)
	return nil
}

// jobs reads the stylesheet once and every document. A path of "-" reads
// the document from stdin.
func (f *inputFlags) jobs(cmd *cobra.Command, paths []string) ([]engine.Job, error) {
	var css string
	if f.cssPath != "" {
		data, err := os.ReadFile(f.cssPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read stylesheet: %w", err)
		}
		css = string(data)
	}

	jobs := make([]engine.Job, 0, len(paths))
	for _, p := range paths {
		var (
			data []byte
			err  error
		)
		if p == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(p)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		jobs = append(jobs, engine.Job{Name: p, HTML: data, CSS: css, Fragment: f.fragment})
	}
	return jobs, nil
}
