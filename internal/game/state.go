// Package game holds the client-side synchronization state machine: the
// loader that joins the user and content reads into one render-ready state,
// and the controller that serialises point increments against it.
package game

import (
	"sync"

	"github.com/go-ports/agame/internal/models"
)

// Phase is the render phase of the client.
type Phase int

// Render phases; exactly one is current at any time.
const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// State is an immutable snapshot of the client. User and Content are only
// meaningful while Phase is PhaseReady; Content is also kept in PhaseError
// after a failed increment. A failed load never carries Content.
// MutationInFlight is only ever true while Ready.
type State struct {
	Phase            Phase
	Err              string
	User             models.User
	Content          *models.UIContent
	MutationInFlight bool
}

// Ready reports whether the state is in PhaseReady.
func (s State) Ready() bool { return s.Phase == PhaseReady }

// Store holds the single ClientState value. Every transition replaces it
// wholesale and notifies subscribers with the new snapshot.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []func(State)
}

// NewStore returns a Store in PhaseLoading.
func NewStore() *Store {
	return &Store{state: State{Phase: PhaseLoading}}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every transition. Calls are made
// outside the store lock, in transition order per goroutine.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// update applies fn to a copy of the state under the lock. When fn reports a
// change the copy replaces the state and listeners are notified.
func (s *Store) update(fn func(st *State) bool) (State, bool) {
	s.mu.Lock()
	next := s.state
	if !fn(&next) {
		cur := s.state
		s.mu.Unlock()
		return cur, false
	}
	s.state = next
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next, true
}

// settleLoad performs the loader's single transition out of PhaseLoading.
func (s *Store) settleLoad(user models.User, content *models.UIContent, err error) (State, bool) {
	return s.update(func(st *State) bool {
		if st.Phase != PhaseLoading {
			return false
		}
		if err != nil {
			*st = State{Phase: PhaseError, Err: err.Error()}
			return true
		}
		*st = State{Phase: PhaseReady, User: user, Content: content}
		return true
	})
}

// beginMutation sets MutationInFlight unconditionally. It fails when the
// state is not Ready.
func (s *Store) beginMutation() bool {
	_, ok := s.update(func(st *State) bool {
		if st.Phase != PhaseReady {
			return false
		}
		st.MutationInFlight = true
		return true
	})
	return ok
}

// settleMutation ends a mutation: on success the user is replaced with the
// server's record, on failure the client moves to PhaseError. Either way
// MutationInFlight is cleared in the same transition.
func (s *Store) settleMutation(user models.User, err error) State {
	st, _ := s.update(func(st *State) bool {
		if st.Phase != PhaseReady {
			st.MutationInFlight = false
			return true
		}
		if err != nil {
			*st = State{Phase: PhaseError, Err: err.Error(), Content: st.Content}
			return true
		}
		st.User = user
		st.MutationInFlight = false
		return true
	})
	return st
}
