// Package configcmd implements the `agame config` command group.
package configcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/agame/cmd/agame/shared"
	"github.com/go-ports/agame/internal/config"
	"github.com/go-ports/agame/internal/cookiestore"
)

const configTemplate = `# agame configuration

# Where the game service lives.
server:
  api_base: https://documentbrain.com/agame/api
  content_base: https://documentbrain.com/agame/content
  csrf_cookie: agame_csrf      # cookie echoed back as X-CSRFToken

# Terminal rendering.
display:
  loading: "Loading..."        # shown before the content has arrived
  color: auto                  # auto | always | never
`

// Command implements `agame config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(newConfigInit(ctx))
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	home, source := config.ResolveHome(c.ctx.Home)
	cfg, err := config.Load(config.ConfigPath(home))
	if err != nil {
		return err
	}
	cookies, err := storedCookies(config.CookiesPath(home))
	if err != nil {
		return err
	}
	data := map[string]any{
		"server": map[string]any{
			"api_base":     cfg.Server.APIBase,
			"content_base": cfg.Server.ContentBase,
			"csrf_cookie":  cfg.Server.CSRFCookie,
		},
		"display": map[string]any{
			"loading": cfg.Display.Loading,
			"color":   cfg.Display.Color,
		},
		"home":        home,
		"home_source": source,
		"cookies":     cookies,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// storedCookies lists persisted cookies with their values redacted. A
// missing database is not created.
func storedCookies(path string) ([]map[string]any, error) {
	out := make([]map[string]any, 0)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return out, nil
	}
	store, err := cookiestore.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	entries, err := store.Load()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		out = append(out, map[string]any{
			"name":  e.Cookie.Name,
			"host":  e.URL.Host,
			"path":  e.Cookie.Path,
			"value": redact(e.Cookie.Value),
		})
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := config.GetHome(ctx.Home)
			cfgPath := config.ConfigPath(home)
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

func redact(value string) string {
	if value != "" {
		return "<redacted>"
	}
	return ""
}
