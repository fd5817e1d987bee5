// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxflow/internal/config"
	"github.com/xkilldash9x/boxflow/internal/observability"
)

// app carries the state shared by the command tree for one invocation.
type app struct {
	cfgFile string
	cfg     config.Interface
	logger  *zap.Logger
}

// NewRootCommand builds a fresh command tree. Tests get an isolated instance
// per call.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "boxflow",
		Short:         "boxflow resolves CSS styles and lays out HTML documents.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// This runs before any subcommand, setting up config and logging.
			cfg, err := config.Load(viper.New(), a.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load or validate config: %w", err)
			}
			a.cfg = cfg
			a.logger = observability.InitializeLogger(cfg.Logger())
			a.logger.Debug("Starting boxflow", zap.String("version", Version))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML, TOML or JSON; ~ is expanded)")
	root.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	root.AddCommand(newLayoutCmd(a))
	root.AddCommand(newStyleCmd(a))
	root.AddCommand(newGeometryCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI with a signal-aware context.
func Execute(ctx context.Context) error {
	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	defer observability.Sync()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			observability.GetLogger().Warn("Command interrupted.")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	return err
}
