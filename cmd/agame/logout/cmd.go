// Package logoutcmd implements the `agame logout` command.
package logoutcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/agame/cmd/agame/shared"
)

// Command implements `agame logout`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the logout command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session; the next run plays as a new user",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
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

	n, err := svc.Logout()
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "No stored session.")
		return nil
	}
	fmt.Fprintf(out, "Removed %d stored cookie(s).\n", n)
	return nil
}
