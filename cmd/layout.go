// File: cmd/layout.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxflow/internal/engine"
	"github.com/xkilldash9x/boxflow/internal/reporting"
)

func newLayoutCmd(a *app) *cobra.Command {
	var (
		in          inputFlags
		format      string
		output      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "layout [flags] document.html...",
		Short: "Lay out documents and report their box trees and display lists",
		Long: `Renders every document with the same stylesheet. Documents are processed
concurrently; a failing document is reported without stopping the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.applyViewport(cmd, a.cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				a.cfg.SetOutputFormat(format)
			}
			if cmd.Flags().Changed("output") {
				a.cfg.SetOutputPath(output)
			}
			if cmd.Flags().Changed("concurrency") {
				a.cfg.SetEngineWorkerConcurrency(concurrency)
			}

			jobs, err := in.jobs(cmd, args)
			if err != nil {
				return err
			}
			reporter, err := newReporter(cmd, a)
			if err != nil {
				return err
			}

			e, err := engine.New(a.cfg, a.logger)
			if err != nil {
				return multierr.Append(err, reporter.Close())
			}
			results, renderErr := e.RenderAll(cmd.Context(), jobs)

			var writeErr error
			for _, r := range results {
				writeErr = multierr.Append(writeErr, reporter.Write(r))
			}
			writeErr = multierr.Append(writeErr, reporter.Close())

			if renderErr != nil {
				a.logger.Warn("Some documents failed to render.",
					zap.Int("failed", len(multierr.Errors(renderErr))),
					zap.Int("rendered", len(results)),
				)
			}
			return multierr.Combine(renderErr, writeErr)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "stdout", "output file, or stdout")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "documents rendered in parallel (overrides engine.worker_concurrency)")
	return cmd
}

// newReporter honors the configured output; stdout means the command's writer.
func newReporter(cmd *cobra.Command, a *app) (reporting.Reporter, error) {
	oc := a.cfg.Output()
	if reporting.IsStdout(oc.Path) {
		return reporting.NewForWriter(oc.Format, cmd.OutOrStdout(), Version)
	}
	r, err := reporting.New(oc.Format, oc.Path, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to create reporter: %w", err)
	}
	return r, nil
}
