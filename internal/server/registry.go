package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/katrinawoods/rsc2/internal/session"
)

// entry is one live session. mu is held for the whole of every event so the
// session only ever sees one actor.
type entry struct {
	mu         sync.Mutex
	exerciseID string
	sess       *session.Session
	lastUsed   atomic.Int64 // unix nanoseconds
}

func (e *entry) touch(now time.Time) { e.lastUsed.Store(now.UnixNano()) }

type registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[uuid.UUID]*entry)}
}

func (r *registry) add(exerciseID string, sess *session.Session) uuid.UUID {
	id := uuid.New()
	e := &entry{exerciseID: exerciseID, sess: sess}
	e.touch(time.Now())
	r.mu.Lock()
	r.entries[id] = e
	r.mu.Unlock()
	return id
}

func (r *registry) get(id uuid.UUID) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if ok {
		e.touch(time.Now())
	}
	return e, ok
}

func (r *registry) remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// expire removes sessions not used since cutoff and returns how many went.
func (r *registry) expire(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if e.lastUsed.Load() < cutoff.UnixNano() {
			delete(r.entries, id)
			n++
		}
	}
	return n
}
