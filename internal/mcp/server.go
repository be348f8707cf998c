// Package mcp provides the stdio MCP server that lets agents read and play a
// game session.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/agame/internal/buildinfo"
	"github.com/go-ports/agame/internal/game"
	"github.com/go-ports/agame/internal/models"
	"github.com/go-ports/agame/internal/render"
)

const statusDescription = `Show the current game screen: phase, point total, available buttons and the player id. Loads the game on first use.`

const addDescription = `Press one of the game's buttons. Pass either the button's amount or its label exactly as agame_status lists them. Only one increment runs at a time; the result shows the total the server reports.` //nolint:lll

// NewServer creates an MCP server with the game tools registered against
// sess. Pressing goes through screen so the same controls rules apply as in
// the terminal.
func NewServer(sess *game.Session, screen *render.Screen) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("agame", buildinfo.Version)
	registerTools(s, sess, screen)
	return s
}

// Serve runs the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context, sess *game.Session, screen *render.Screen) error {
	return mcpserver.ServeStdio(NewServer(sess, screen))
}

func registerTools(s *mcpserver.MCPServer, sess *game.Session, screen *render.Screen) {
	s.AddTool(mcp.NewTool("agame_status",
		mcp.WithDescription(statusDescription),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStatus(ctx, sess, screen)
	})

	s.AddTool(mcp.NewTool("agame_add_points",
		mcp.WithDescription(addDescription),
		mcp.WithNumber("amount",
			mcp.Description("Amount of the button to press, e.g. 5."),
		),
		mcp.WithString("label",
			mcp.Description("Label of the button to press, e.g. \"+5 Points\"."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAddPoints(ctx, sess, screen, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleStatus(ctx context.Context, sess *game.Session, screen *render.Screen) (*mcp.CallToolResult, error) {
	// A failed load is part of the screen, not a tool failure.
	if _, err := load(ctx, sess); err != nil && ctx.Err() != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(screen.View())
}

func handleAddPoints(ctx context.Context, sess *game.Session, screen *render.Screen, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := load(ctx, sess)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	amount, err := resolveAmount(st.Content, req.GetInt("amount", 0), req.GetString("label", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fut, err := screen.Press(context.WithoutCancel(ctx), amount)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := fut.Wait(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(screen.View())
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// load waits for the session to load. A cancelled tool call stops waiting
// but never aborts the requests already issued.
func load(ctx context.Context, sess *game.Session) (game.State, error) {
	return sess.Loader.Start(context.WithoutCancel(ctx)).Wait(ctx)
}

// resolveAmount picks the button named by amount or label. Exactly one of
// them must be given.
func resolveAmount(content *models.UIContent, amount int, label string) (int, error) {
	if content == nil {
		return 0, render.ErrControlsDisabled
	}
	switch {
	case amount != 0 && label != "":
		return 0, errors.New("pass either amount or label, not both")
	case label != "":
		b, ok := content.ButtonByLabel(label)
		if !ok {
			return 0, fmt.Errorf("%w: %q", render.ErrUnknownControl, label)
		}
		return b.Amount, nil
	case amount != 0:
		if _, ok := content.ButtonFor(amount); !ok {
			return 0, fmt.Errorf("%w: %d", render.ErrUnknownControl, amount)
		}
		return amount, nil
	}
	return 0, errors.New("amount or label is required")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
