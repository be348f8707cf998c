// Package playcmd implements the interactive `agame play` command.
package playcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/go-ports/agame/cmd/agame/shared"
	"github.com/go-ports/agame/internal/game"
)

const prompt = "Press 1-%d, q to quit: "

// Command implements `agame play`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the play command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "play",
		Short: "Play interactively: type a button number and press enter",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	out := cmd.OutOrStdout()
	svc, err := c.ctx.Service(out)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Every transition redraws the screen, including the in-flight one.
	var mu sync.Mutex
	draw := func(st game.State) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprint(out, "\n"+svc.Screen.Text(st))
	}
	draw(svc.Session.Store.Snapshot())
	svc.Session.Store.Subscribe(draw)

	// A failed load leaves the error screen drawn with nothing to press.
	st, err := svc.Session.Loader.Load(ctx)
	if err != nil {
		return err
	}

	lines := readLines(ctx, cmd.InOrStdin())
	for {
		fmt.Fprintf(out, prompt, len(st.Content.Buttons))
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
			draw(svc.Session.Store.Snapshot())
			continue
		case "q", "quit", "exit":
			return nil
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(out, "Not a button: %q\n", line)
			continue
		}
		fut, err := svc.Screen.PressNumber(ctx, n)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if _, err := fut.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// readLines feeds r's lines into a channel that is closed at EOF, so the
// prompt loop can also watch for cancellation.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
