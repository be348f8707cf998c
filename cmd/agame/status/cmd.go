// Package statuscmd implements the `agame status` command.
package statuscmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/agame/cmd/agame/shared"
)

// Command implements `agame status`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	asJSON bool
}

// New creates the status command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "status",
		Short: "Load the game and show the current screen",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.asJSON, "json", false, "Print the screen as JSON")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	svc, err := c.ctx.Service(out)
	if err != nil {
		return err
	}
	defer svc.Close()

	// A failed load shows up as the error screen.
	if _, err := svc.Session.Loader.Load(cmd.Context()); err != nil && cmd.Context().Err() != nil {
		return err
	}

	if c.asJSON {
		b, err := json.MarshalIndent(svc.Screen.View(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}
	return svc.Screen.Render()
}
