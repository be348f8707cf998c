// Package addcmd implements the `agame add` command.
package addcmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-ports/agame/cmd/agame/shared"
	"github.com/go-ports/agame/internal/models"
	"github.com/go-ports/agame/internal/render"
)

// Command implements `agame add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add <amount|label>",
		Short: "Press the button with the given amount or label",
		Example: `  agame add 5
  agame add "+10 Points"`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	svc, err := c.ctx.Service(out)
	if err != nil {
		return err
	}
	defer svc.Close()

	st, err := svc.Session.Loader.Load(cmd.Context())
	if err != nil {
		_ = svc.Screen.Render()
		return err
	}

	amount, err := buttonAmount(st.Content, args[0])
	if err != nil {
		return err
	}
	fut, err := svc.Screen.Press(cmd.Context(), amount)
	if err != nil {
		return err
	}
	_, addErr := fut.Wait(cmd.Context())
	if err := svc.Screen.Render(); err != nil {
		return err
	}
	return addErr
}

// buttonAmount accepts either a button's amount or its exact label.
func buttonAmount(content *models.UIContent, arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if _, ok := content.ButtonFor(n); ok {
			return n, nil
		}
	}
	if b, ok := content.ButtonByLabel(arg); ok {
		return b.Amount, nil
	}
	return 0, fmt.Errorf("%w: %q", render.ErrUnknownControl, arg)
}
