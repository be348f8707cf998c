// Package e2e_test contains end-to-end tests that exercise the full agame CLI
// by importing the root command and running it in-process against a fake game
// service and a temporary home.
// Output is captured via cobra's SetOut so tests can run concurrently without
// affecting os.Stdout.
package e2e_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	rootcmd "github.com/go-ports/agame/cmd/agame/root"
	"github.com/go-ports/agame/internal/checkers"
	"github.com/go-ports/agame/internal/config"
	"github.com/go-ports/agame/internal/gametest"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// runCmd executes the root command with the provided args and stdin and
// returns the captured stdout output along with any execution error.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&buf)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	execErr := root.ExecuteContext(context.Background())

	return buf.String(), execErr
}

// newHome creates a home whose config points at srv.
func newHome(t testing.TB, srv *gametest.Server) string {
	t.Helper()
	home := t.TempDir()
	cfg := fmt.Sprintf("server:\n  api_base: %s\n  content_base: %s\ndisplay:\n  color: never\n",
		srv.APIBase(), srv.ContentBase())
	if err := os.WriteFile(config.ConfigPath(home), []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return home
}

// ---------------------------------------------------------------------------
// Help and version
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "", "--help")
	c.Assert(err, qt.IsNil)
	for _, sub := range []string{"status", "add", "play", "logout", "config", "mcp", "version"} {
		c.Assert(out, qt.Contains, sub)
	}
}

func TestVersion_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "", "version")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Matches, `agame dev .*\n`)
}

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func TestStatus_HappyPath(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	out, err := runCmd(t, "", "--home", home, "status")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "A Game")
	c.Assert(out, qt.Contains, "0 pts")
	c.Assert(out, qt.Contains, "[1] +1 Point")
	c.Assert(out, qt.Contains, "[3] +10 Points")
	c.Assert(out, qt.Matches, `(?s).*User: [0-9a-f]{8}\.\.\.\n`)
}

func TestStatus_JSON_HappyPath(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	out, err := runCmd(t, "", "--home", home, "status", "--json")
	c.Assert(err, qt.IsNil)
	c.Assert(out, checkers.JSONPathEquals("$.phase"), "ready")
	c.Assert(out, checkers.JSONPathEquals("$.title"), "A Game")
	c.Assert(out, checkers.JSONPathEquals("$.points"), float64(0))
	c.Assert(out, checkers.JSONPathEquals("$.points_label"), "pts")
	c.Assert(out, checkers.JSONPathEquals("$.buttons[1].amount"), float64(5))
	c.Assert(out, checkers.JSONPathEquals("$.buttons[1].enabled"), true)
}

func TestStatus_ErrorScreen(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	c.Run("user fetch rejected", func(c *qt.C) {
		srv.FailUser(500)
		defer srv.FailUser(0)

		out, err := runCmd(t, "", "--home", home, "status")
		c.Assert(err, qt.IsNil)
		c.Assert(out, qt.Matches, `Error: fetch user: HTTP 500: .*\n`)
		c.Assert(out, qt.Not(qt.Contains), "[1]")
	})

	c.Run("malformed content", func(c *qt.C) {
		srv.SetContentRaw(`{"title": "A Game", "buttons": "nope"}`)
		defer srv.SetContent(gametest.DefaultContent)

		out, err := runCmd(t, "", "--home", home, "status", "--json")
		c.Assert(err, qt.IsNil)
		c.Assert(out, checkers.JSONPathEquals("$.phase"), "error")
	})
}

// ---------------------------------------------------------------------------
// add
// ---------------------------------------------------------------------------

func TestAdd_HappyPath(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	out, err := runCmd(t, "", "--home", home, "add", "5")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "5 pts")

	out, err = runCmd(t, "", "--home", home, "add", "+10 Points")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "15 pts")

	reqs := srv.PointsRequests()
	c.Assert(reqs, qt.HasLen, 2)
	c.Assert(strings.TrimSpace(reqs[0].Body), qt.Equals, `{"amount":5}`)
	c.Assert(strings.TrimSpace(reqs[1].Body), qt.Equals, `{"amount":10}`)
}

func TestAdd_FailurePath(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	c.Run("missing argument", func(c *qt.C) {
		_, err := runCmd(t, "", "--home", home, "add")
		c.Assert(err, qt.IsNotNil)
	})

	c.Run("no such button", func(c *qt.C) {
		_, err := runCmd(t, "", "--home", home, "add", "7")
		c.Assert(err, qt.ErrorMatches, `no such control: "7"`)
		c.Assert(srv.PointsRequests(), qt.HasLen, 0)
	})

	c.Run("load failure", func(c *qt.C) {
		srv.FailUser(503)
		defer srv.FailUser(0)

		out, err := runCmd(t, "", "--home", home, "add", "1")
		c.Assert(err, qt.IsNotNil)
		c.Assert(out, qt.Contains, "Error:")
		c.Assert(srv.PointsRequests(), qt.HasLen, 0)
	})
}

// ---------------------------------------------------------------------------
// play
// ---------------------------------------------------------------------------

func TestPlay_HappyPath(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	out, err := runCmd(t, "1\n3\nq\n", "--home", home, "play")
	c.Assert(err, qt.IsNil)

	c.Assert(out, qt.Contains, "Loading...")
	c.Assert(out, qt.Contains, "+1 Point (disabled)")
	c.Assert(out, qt.Contains, "1 pts")
	c.Assert(out, qt.Contains, "11 pts")
	c.Assert(srv.PointsRequests(), qt.HasLen, 2)
}

func TestPlay_BadInput(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	out, err := runCmd(t, "x\n9\n", "--home", home, "play")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, `Not a button: "x"`)
	c.Assert(out, qt.Contains, "no such control: [9]")
	c.Assert(srv.PointsRequests(), qt.HasLen, 0)
}

// ---------------------------------------------------------------------------
// logout
// ---------------------------------------------------------------------------

func TestLogout_HappyPath(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	_, err := runCmd(t, "", "--home", home, "add", "5")
	c.Assert(err, qt.IsNil)

	out, err := runCmd(t, "", "--home", home, "status", "--json")
	c.Assert(err, qt.IsNil)
	c.Assert(out, checkers.JSONPathEquals("$.points"), float64(5))

	out, err = runCmd(t, "", "--home", home, "logout")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Removed")

	out, err = runCmd(t, "", "--home", home, "status", "--json")
	c.Assert(err, qt.IsNil)
	c.Assert(out, checkers.JSONPathEquals("$.points"), float64(0))

	out, err = runCmd(t, "", "--home", t.TempDir(), "logout")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "No stored session.\n")
}

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func TestConfig_HappyPath(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)

	_, err := runCmd(t, "", "--home", home, "status")
	c.Assert(err, qt.IsNil)

	out, err := runCmd(t, "", "--home", home, "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "api_base: "+srv.APIBase())
	c.Assert(out, qt.Contains, "home_source: flag")
	c.Assert(out, qt.Contains, "name: "+gametest.SessionCookie)
	c.Assert(out, qt.Contains, "value: <redacted>")
}

func TestConfigInit_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	out, err := runCmd(t, "", "--home", home, "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Created")

	cfg, err := config.Load(config.ConfigPath(home))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, config.Default())

	out, err = runCmd(t, "", "--home", home, "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "already exists")
}

func TestConfig_HomeFromEnv(t *testing.T) {
	c := qt.New(t)
	srv := gametest.New(t)
	home := newHome(t, srv)
	t.Setenv("AGAME_HOME", home)

	out, err := runCmd(t, "", "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "home: "+home)
	c.Assert(out, qt.Contains, "home_source: env")

	out, err = runCmd(t, "", "status", "--json")
	c.Assert(err, qt.IsNil)
	c.Assert(out, checkers.JSONPathEquals("$.phase"), "ready")
}
