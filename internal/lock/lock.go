// Package lock serializes booking and hold mutations per room.  The
// classifier scans a room's snapshot in one pass, so writers to the same
// room must not interleave between reading the snapshot and committing.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAcquired is returned when the room lock could not be taken before
// the wait deadline.
var ErrNotAcquired = errors.New("lock: room is busy")

// Locker hands out one logical lock per room identifier.
type Locker interface {
	// Lock blocks until the lock for roomID is held or ctx is done.  The
	// returned function releases it and is safe to call more than once.
	Lock(ctx context.Context, roomID string) (unlock func(), err error)
}

// Local is an in-process Locker used when Redis is unavailable.
type Local struct {
	mu    sync.Mutex
	rooms map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{rooms: make(map[string]chan struct{})}
}

func (l *Local) slot(roomID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.rooms[roomID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.rooms[roomID] = ch
	}
	return ch
}

func (l *Local) Lock(ctx context.Context, roomID string) (func(), error) {
	ch := l.slot(roomID)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}
	var once sync.Once
	return func() { once.Do(func() { <-ch }) }, nil
}
