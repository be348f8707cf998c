// Package render draws the client state as a terminal screen and owns the
// controls that trigger point increments.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/go-ports/agame/internal/async"
	"github.com/go-ports/agame/internal/game"
	"github.com/go-ports/agame/internal/models"
)

// DefaultErrorPrefix is used when the error state carries no content, as after
// a failed load.
const DefaultErrorPrefix = "Error:"

var (
	// ErrControlsDisabled is returned by Press while no control is enabled.
	ErrControlsDisabled = errors.New("controls are disabled")
	// ErrUnknownControl is returned by Press for an amount no button declares.
	ErrUnknownControl = errors.New("no such control")
)

// Options configures a Screen.
type Options struct {
	// Loading is shown while loading when content has not arrived yet.
	Loading string
	// Color is "auto", "always" or "never".
	Color string
}

// Screen renders a game session and routes button presses to its controller.
type Screen struct {
	sess    *game.Session
	out     io.Writer
	loading string

	points *color.Color
	errc   *color.Color
	title  *color.Color

	mu sync.Mutex
}

// NewScreen returns a Screen writing to out.
func NewScreen(sess *game.Session, out io.Writer, opts Options) *Screen {
	s := &Screen{
		sess:    sess,
		out:     out,
		loading: opts.Loading,
		points:  color.New(color.FgYellow, color.Bold),
		errc:    color.New(color.FgRed),
		title:   color.New(color.Bold),
	}
	if useColor(opts.Color, out) {
		for _, c := range []*color.Color{s.points, s.errc, s.title} {
			c.EnableColor()
		}
	} else {
		for _, c := range []*color.Color{s.points, s.errc, s.title} {
			c.DisableColor()
		}
	}
	return s
}

// useColor resolves a colour mode against the output writer.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isTerminal(out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes the current state.
func (s *Screen) Render() error {
	_, err := io.WriteString(s.out, s.Text(s.sess.Store.Snapshot()))
	return err
}

// Text returns the screen for st.
func (s *Screen) Text(st game.State) string {
	var b strings.Builder
	switch st.Phase {
	case game.PhaseLoading:
		loading := s.loading
		if st.Content != nil {
			loading = st.Content.Loading
		}
		b.WriteString(loading + "\n")

	case game.PhaseError:
		b.WriteString(s.errc.Sprint(errorPrefix(st)+" "+st.Err) + "\n")

	case game.PhaseReady:
		content := st.Content
		b.WriteString(s.title.Sprint(content.Title) + "\n\n")
		b.WriteString(s.points.Sprint(strconv.FormatInt(st.User.Points, 10)+" "+content.PointsLabel) + "\n\n")
		for i, btn := range content.Buttons {
			line := fmt.Sprintf("  [%d] %s", i+1, btn.Label)
			if st.MutationInFlight {
				line += " (disabled)"
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + content.UserLabel + " " + st.User.ShortID() + "...\n")
	}
	return b.String()
}

func errorPrefix(st game.State) string {
	if st.Content != nil && st.Content.ErrorPrefix != "" {
		return st.Content.ErrorPrefix
	}
	return DefaultErrorPrefix
}

// Press triggers the control declaring amount. While a mutation is in flight
// or the client is not ready every control is disabled. Presses are
// serialised, so a double press issues a single request.
func (s *Screen) Press(ctx context.Context, amount int) (*async.Future[models.User], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sess.Store.Snapshot()
	if !st.Ready() || st.MutationInFlight {
		return nil, ErrControlsDisabled
	}
	if _, ok := st.Content.ButtonFor(amount); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownControl, amount)
	}
	return s.sess.Controller.AddPoints(ctx, amount), nil
}

// PressNumber triggers the n-th control (1-based), the way it is numbered on
// screen.
func (s *Screen) PressNumber(ctx context.Context, n int) (*async.Future[models.User], error) {
	st := s.sess.Store.Snapshot()
	if !st.Ready() {
		return nil, ErrControlsDisabled
	}
	if n < 1 || n > len(st.Content.Buttons) {
		return nil, fmt.Errorf("%w: [%d]", ErrUnknownControl, n)
	}
	return s.Press(ctx, st.Content.Buttons[n-1].Amount)
}

// ---------------------------------------------------------------------------
// Title
// ---------------------------------------------------------------------------

// TerminalTitle applies the page title to the terminal window when W is a
// terminal. The last title is kept either way.
type TerminalTitle struct {
	W io.Writer

	mu    sync.Mutex
	title string
}

// SetTitle records title and emits the OSC 0 sequence on terminals.
func (t *TerminalTitle) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.title = title
	if t.W != nil && isTerminal(t.W) {
		if _, err := fmt.Fprintf(t.W, "\x1b]0;%s\x07", title); err != nil {
			slog.Warn("set terminal title", "err", err)
		}
	}
}

// Title returns the last title set.
func (t *TerminalTitle) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}
