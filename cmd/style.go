// File: cmd/style.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/boxflow/internal/engine"
)

func newStyleCmd(a *app) *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "style [flags] document.html",
		Short: "Print the document, stylesheet and resolved style tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := in.jobs(cmd, args)
			if err != nil {
				return err
			}
			e, err := engine.New(a.cfg, a.logger)
			if err != nil {
				return err
			}
			res, err := e.Resolve(cmd.Context(), jobs[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "--- document ---")
			if root, ok := res.Document.FirstElementRoot(); ok {
				res.Document.Dump(out, root)
			}
			fmt.Fprintln(out, "--- stylesheet ---")
			if len(res.StyleSheet.Rules) > 0 {
				fmt.Fprintln(out, res.StyleSheet.String())
			}
			fmt.Fprintln(out, "--- styles ---")
			res.Styles.Dump(out)
			return nil
		},
	}
	in.register(cmd)
	// Style resolution does not depend on the viewport.
	_ = cmd.Flags().MarkHidden("width")
	_ = cmd.Flags().MarkHidden("height")
	return cmd
}
