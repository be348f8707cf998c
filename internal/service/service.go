// Package service wires configuration, the persisted cookie jar, the API
// client and a game session into one value the commands share.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-ports/agame/internal/api"
	"github.com/go-ports/agame/internal/config"
	"github.com/go-ports/agame/internal/cookiestore"
	"github.com/go-ports/agame/internal/game"
	"github.com/go-ports/agame/internal/render"
)

// Service owns one game session and the resources behind it.
type Service struct {
	Home   string
	Config *config.Config

	Session *game.Session
	Screen  *render.Screen
	Title   *render.TerminalTitle

	cookies *cookiestore.Store
}

// New initialises a Service rooted at home, rendering to out.
// home is resolved via config.GetHome, so empty falls back to AGAME_HOME.
func New(home string, out io.Writer) (*Service, error) {
	home = config.GetHome(home)
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(config.ConfigPath(home))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	store, err := cookiestore.Open(config.CookiesPath(home))
	if err != nil {
		return nil, fmt.Errorf("service.New: open cookies: %w", err)
	}
	jar, err := cookiestore.NewJar(store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("service.New: load cookies: %w", err)
	}
	creds, err := api.NewJarCredentials(jar, cfg.Server.APIBase, cfg.Server.CSRFCookie)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("service.New: %w", err)
	}

	slog.Debug("service ready", "home", home, "api_base", cfg.Server.APIBase)

	title := &render.TerminalTitle{W: out}
	sess := game.NewSession(api.New(cfg.Server.APIBase, cfg.Server.ContentBase, creds), title)
	return &Service{
		Home:    home,
		Config:  cfg,
		Session: sess,
		Screen:  render.NewScreen(sess, out, render.Options{Loading: cfg.Display.Loading, Color: cfg.Display.Color}),
		Title:   title,
		cookies: store,
	}, nil
}

// Close releases the cookie database.
func (s *Service) Close() error {
	return s.cookies.Close()
}

// Logout forgets the stored session. The next run starts as a new user.
func (s *Service) Logout() (int64, error) {
	n, err := s.cookies.Clear()
	if err != nil {
		return 0, fmt.Errorf("service.Logout: %w", err)
	}
	return n, nil
}

// StoredCookies lists the persisted cookies.
func (s *Service) StoredCookies() ([]cookiestore.Entry, error) {
	return s.cookies.Load()
}
