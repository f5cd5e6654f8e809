// Package guard provides mutex-protected state cells that poison on panic.
//
// A Cell holds one value behind a sync.Mutex. The lock is released on every
// exit path, including a panic. A panic inside a critical section marks the
// cell poisoned: the panic is recovered and reported as a
// *errors.LockError, and every later acquisition fails the same way because
// the value may have been left half-written. Other cells are unaffected.
package guard

import (
	"fmt"
	"sync"

	"github.com/agentstation/edforge/pkg/errors"
)

// Cell is a single guarded value. The zero value is not usable; use New.
type Cell[T any] struct {
	name string

	mu       sync.Mutex
	value    T
	poisoned bool
	cause    error
}

// New creates a cell named for error reporting.
func New[T any](name string, initial T) *Cell[T] {
	return &Cell[T]{name: name, value: initial}
}

// Name returns the name the cell reports in errors.
func (c *Cell[T]) Name() string {
	return c.name
}

// Poisoned reports whether a critical section has panicked.
func (c *Cell[T]) Poisoned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poisoned
}

// Read runs fn with a copy of the value while holding the lock.
// Reference types inside T are shared; fn must copy out anything it keeps.
func (c *Cell[T]) Read(fn func(T)) error {
	return c.acquire(func(v *T) { fn(*v) })
}

// Mutate runs fn with a pointer to the value while holding the lock.
func (c *Cell[T]) Mutate(fn func(*T)) error {
	return c.acquire(fn)
}

// View runs fn under the lock and returns its result.
func View[T, R any](c *Cell[T], fn func(T) R) (R, error) {
	var out R
	err := c.Read(func(v T) { out = fn(v) })
	return out, err
}

// Update runs fn with a mutable value under the lock and returns its result.
func Update[T, R any](c *Cell[T], fn func(*T) R) (R, error) {
	var out R
	err := c.Mutate(func(v *T) { out = fn(v) })
	return out, err
}

func (c *Cell[T]) acquire(fn func(*T)) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned {
		return errors.NewLockError(c.name, c.cause)
	}

	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			c.cause = fmt.Errorf("panic in critical section: %v", r)
			err = errors.NewLockError(c.name, c.cause)
		}
	}()

	fn(&c.value)
	return nil
}
