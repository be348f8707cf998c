// Package async provides a minimal future type and a fail-fast join over two
// independent operations.
package async

import (
	"context"
	"fmt"
	"sync"
)

// Future is the pending outcome of an operation started with Go. It settles
// exactly once.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// Go starts fn on a new goroutine and returns its Future. A panic inside fn
// settles the future with an error instead of crashing the process.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		var (
			val T
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.settle(zero, fmt.Errorf("async: panic: %v", r))
				return
			}
			f.settle(val, err)
		}()
		val, err = fn()
	}()
	return f
}

// Resolved returns an already settled Future.
func Resolved[T any](val T, err error) *Future[T] {
	f := newFuture[T]()
	f.settle(val, err)
	return f
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle records the outcome; calls after the first are ignored.
func (f *Future[T]) settle(val T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.val, f.err = val, err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the future settles or ctx is done. Giving up on ctx does
// not stop the underlying operation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Pair holds the two results of Join2.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Join2 waits for a and b. It fails as soon as either fails, with that error,
// and otherwise succeeds once both have succeeded. Neither operation is
// cancelled; the loser's outcome is dropped.
func Join2[A, B any](a *Future[A], b *Future[B]) *Future[Pair[A, B]] {
	out := newFuture[Pair[A, B]]()
	go func() {
		aDone, bDone := a.Done(), b.Done()
		for aDone != nil || bDone != nil {
			select {
			case <-aDone:
				aDone = nil
				if a.err != nil {
					out.settle(Pair[A, B]{}, a.err)
					return
				}
			case <-bDone:
				bDone = nil
				if b.err != nil {
					out.settle(Pair[A, B]{}, b.err)
					return
				}
			}
		}
		out.settle(Pair[A, B]{First: a.val, Second: b.val}, nil)
	}()
	return out
}
