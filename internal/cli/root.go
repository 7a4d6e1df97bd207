package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/mriynyk/internal/config"
	"github.com/mithrel/mriynyk/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Execute builds the root command and runs it until it returns or the
// process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "mriynyk-cli",
		Short:         "mriynyk: render and read generated study notes",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}
			app, err := loadApp(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			// Stash the app in context for subcommands.
			ctx := context.WithValue(cmd.Context(), appKey, app)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml)")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newReadCmd())
	cmd.AddCommand(newRequestCmd())
	cmd.AddCommand(newMessageCmd())
	cmd.AddCommand(newQuizCmd())
	cmd.AddCommand(newActivityCmd())
	cmd.AddCommand(newStudentCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

// loadApp reads config (defaults < file < env), validates it and wires the App.
func loadApp(ctx context.Context, cfgPath string) (*wire.App, error) {
	v := viper.New()
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	}
	if err := config.Load(ctx, v); err != nil {
		return nil, err
	}
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, err
	}
	return wire.BuildApp(ctx, v)
}

// skipsApp reports commands that must work without a usable config or store.
func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "config", "completion", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
