// Package rootcmd wires the root cobra.Command for the agame CLI binary.
package rootcmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/agame/cmd/agame/add"
	configcmd "github.com/go-ports/agame/cmd/agame/config"
	logoutcmd "github.com/go-ports/agame/cmd/agame/logout"
	mcpcmd "github.com/go-ports/agame/cmd/agame/mcp"
	playcmd "github.com/go-ports/agame/cmd/agame/play"
	"github.com/go-ports/agame/cmd/agame/shared"
	statuscmd "github.com/go-ports/agame/cmd/agame/status"
	versioncmd "github.com/go-ports/agame/cmd/agame/version"
)

// New creates and returns the root cobra.Command for the agame CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "agame",
		Short:         "A tiny clicker game in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if ctx.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override agame home directory (default: $AGAME_HOME env → ~/.agame)",
	)
	root.PersistentFlags().BoolVarP(&ctx.Verbose, "verbose", "v", false, "Log requests and state transitions to stderr")

	root.AddCommand(
		statuscmd.New(ctx).Cmd(),
		addcmd.New(ctx).Cmd(),
		playcmd.New(ctx).Cmd(),
		logoutcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}
