// Package shared holds the context passed to all CLI commands.
package shared

import (
	"io"

	"github.com/go-ports/agame/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the agame home directory.
	// When empty, resolution falls through to AGAME_HOME env var → ~/.agame.
	Home string
	// Verbose enables debug logging on stderr.
	Verbose bool
}

// Service opens a service rooted at the resolved home, rendering to out.
func (c *Context) Service(out io.Writer) (*service.Service, error) {
	return service.New(c.Home, out)
}
