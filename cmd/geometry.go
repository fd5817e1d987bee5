// File: cmd/geometry.go
package cmd

import (
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/boxflow/internal/engine"
)

func newGeometryCmd(a *app) *cobra.Command {
	var (
		in    inputFlags
		xpath string
	)

	cmd := &cobra.Command{
		Use:   "geometry --xpath EXPR [flags] document.html",
		Short: "Print the border box of the element selected by an XPath expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.applyViewport(cmd, a.cfg); err != nil {
				return err
			}
			jobs, err := in.jobs(cmd, args)
			if err != nil {
				return err
			}
			e, err := engine.New(a.cfg, a.logger)
			if err != nil {
				return err
			}
			res, err := e.Render(cmd.Context(), jobs[0])
			if err != nil {
				return err
			}

			geo, err := res.Layout.ElementGeometry(xpath)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(geo, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode geometry: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&xpath, "xpath", "", "XPath expression selecting the element")
	_ = cmd.MarkFlagRequired("xpath")
	return cmd
}
