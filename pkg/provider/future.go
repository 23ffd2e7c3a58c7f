package provider

import (
	"context"
	"sync"
	"time"
)

// Future is the pending result of a gateway call started with Go.
type Future[T any] struct {
	result T
	err    error
	once   sync.Once
	done   chan struct{}
}

// Go runs fn in its own goroutine so the caller is never blocked on vendor
// I/O. A context that is already done yields its error without calling fn.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		res, err := fn(ctx)
		f.once.Do(func() {
			f.result = res
			f.err = err
		})
	}()

	return f
}

// Await blocks until the call completes.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits at most timeout and returns ErrTimeout when the call
// has not completed by then. The call itself keeps running; cancel its
// context to stop it.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero T
		return zero, ErrTimeout
	}
}

// Done reports whether the call has completed.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
