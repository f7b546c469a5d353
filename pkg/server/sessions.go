package server

import (
	"sync"

	"github.com/google/uuid"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/masonry"
)

// entry is one live session. Its mutex serializes layout passes and resize
// checks; a Session is not safe for concurrent use.
type entry struct {
	mu      sync.Mutex
	id      string
	session *masonry.Session

	// items is the list laid out by the last pass, reused by resizes that
	// do not supply their own.
	items []masonry.Item
}

// registry maps session IDs to live sessions.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*entry)}
}

func (r *registry) create(cfg masonry.Config) *entry {
	e := &entry{id: uuid.NewString(), session: masonry.NewSession(cfg)}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[e.id] = e
	return e
}

func (r *registry) get(id string) (*entry, error) {
	if err := bwerrors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, bwerrors.New(bwerrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return e, nil
}

func (r *registry) remove(id string) error {
	if err := bwerrors.ValidateSessionID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return bwerrors.New(bwerrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	delete(r.sessions, id)
	return nil
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
