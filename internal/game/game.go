package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-ports/agame/internal/async"
	"github.com/go-ports/agame/internal/models"
)

// ErrNotReady is returned by Controller.AddPoints outside PhaseReady.
var ErrNotReady = errors.New("game is not ready")

// API is the remote game service.
type API interface {
	// FetchUser returns the current user; the session credential is attached.
	FetchUser(ctx context.Context) (models.User, error)
	// FetchContent returns the UI content document.
	FetchContent(ctx context.Context) (models.UIContent, error)
	// AddPoints increments the user's total by amount and returns the
	// server's updated record.
	AddPoints(ctx context.Context, amount int) (models.User, error)
}

// TitleSetter receives the page title once content is known.
type TitleSetter interface {
	SetTitle(title string)
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// Loader performs the startup join of the user and content reads.
type Loader struct {
	api   API
	store *Store
	title TitleSetter

	once   sync.Once
	result *async.Future[State]
}

// NewLoader returns a Loader that settles store. title may be nil.
func NewLoader(api API, store *Store, title TitleSetter) *Loader {
	return &Loader{api: api, store: store, title: title}
}

// Start issues both reads and returns the future of the settled state. Only
// the first call issues requests; later calls return the same future.
func (l *Loader) Start(ctx context.Context) *async.Future[State] {
	l.once.Do(func() {
		l.result = l.start(ctx)
	})
	return l.result
}

// Load starts the loader and waits for it to settle. The returned error is
// the failure that moved the client to PhaseError, if any.
func (l *Loader) Load(ctx context.Context) (State, error) {
	return l.Start(ctx).Wait(ctx)
}

func (l *Loader) start(ctx context.Context) *async.Future[State] {
	slog.Debug("loader: fetching user and content")
	userF := async.Go(func() (models.User, error) { return l.api.FetchUser(ctx) })
	contentF := async.Go(func() (models.UIContent, error) { return l.api.FetchContent(ctx) })
	joined := async.Join2(userF, contentF)

	return async.Go(func() (State, error) {
		pair, err := joined.Wait(context.Background())

		// A failed join exposes no content, whichever read finished first.
		var content *models.UIContent
		if err == nil {
			content = &pair.Second
		}

		st, changed := l.store.settleLoad(pair.First, content, err)
		if err != nil {
			slog.Debug("loader: failed", "err", err)
			return st, err
		}
		if changed && l.title != nil {
			l.title.SetTitle(content.Title)
		}
		return st, nil
	})
}

// ---------------------------------------------------------------------------
// Controller
// ---------------------------------------------------------------------------

// Controller issues point increments. It trusts its caller to offer only one
// click at a time but stays consistent if called again while one is pending.
type Controller struct {
	api   API
	store *Store
}

// NewController returns a Controller mutating store.
func NewController(api API, store *Store) *Controller {
	return &Controller{api: api, store: store}
}

// AddPoints marks a mutation in flight and sends the increment. The returned
// future settles after the outcome has been applied to the store and
// MutationInFlight has been cleared. The server's total replaces the cached
// user; amount is never added locally.
func (c *Controller) AddPoints(ctx context.Context, amount int) *async.Future[models.User] {
	if !c.store.beginMutation() {
		return async.Resolved(models.User{}, ErrNotReady)
	}
	slog.Debug("controller: add points", "amount", amount)

	return async.Go(func() (u models.User, err error) {
		defer func() {
			if r := recover(); r != nil {
				u, err = models.User{}, fmt.Errorf("add points: panic: %v", r)
			}
			c.store.settleMutation(u, err)
			if err != nil {
				slog.Debug("controller: add points failed", "err", err)
			}
		}()
		return c.api.AddPoints(ctx, amount)
	})
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

// Session bundles the store with its loader and controller.
type Session struct {
	Store      *Store
	Loader     *Loader
	Controller *Controller
}

// NewSession wires a fresh store to api.
func NewSession(api API, title TitleSetter) *Session {
	store := NewStore()
	return &Session{
		Store:      store,
		Loader:     NewLoader(api, store, title),
		Controller: NewController(api, store),
	}
}
