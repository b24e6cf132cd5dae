package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/diva/internal/version"
	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "diva",
		Short:         "Drive an assistant session with typed text",
		Long:          "diva opens a session with the assistant engine, prints its lifecycle events, optionally registers the device, and sends every line typed on stdin to the assistant as if it had been spoken.",
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	bindConfigFlags(rootCmd, app)
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return loadConfigSources(app.viper)
	}
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runAssistant(cmd, app)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newCommandsCmd(app),
	)

	return rootCmd
}
