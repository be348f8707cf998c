// Package mcpcmd implements the `agame mcp` command.
package mcpcmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/go-ports/agame/cmd/agame/shared"
	internalmcp "github.com/go-ports/agame/internal/mcp"
)

// Command implements `agame mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the agame MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	// stdout carries the protocol; nothing may be rendered there.
	svc, err := c.ctx.Service(io.Discard)
	if err != nil {
		return err
	}
	defer svc.Close()
	return internalmcp.Serve(cmd.Context(), svc.Session, svc.Screen)
}
