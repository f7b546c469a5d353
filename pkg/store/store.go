// Package store persists computed layouts.
//
// The API server saves every layout pass as a [Document] tied to the session
// that produced it, so clients can fetch a layout again by ID or list a
// session's history. Two backends exist: [MemoryStore] for single-process use
// and tests, and [MongoStore] for deployments that outlive the process.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	bwio "github.com/matzehuels/brickwall/pkg/io"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// ErrNotFound is returned (wrapped) when a layout ID does not exist.
var ErrNotFound = errors.New("layout not found")

// Document is one stored layout pass.
type Document struct {
	ID        string              `json:"id" bson:"_id"`
	SessionID string              `json:"session_id" bson:"session_id"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	Layout    bwio.LayoutDocument `json:"layout" bson:"layout"`
}

// Store persists layout documents.
type Store interface {
	// Save stores doc, assigning an ID and creation time when unset, and
	// returns the stored document. Saving an existing ID replaces it.
	Save(ctx context.Context, doc Document) (Document, error)

	// Get returns the document with the given ID.
	Get(ctx context.Context, id string) (Document, error)

	// List returns up to limit documents of a session, newest first.
	// A non-positive limit means DefaultListLimit.
	List(ctx context.Context, sessionID string, limit int) ([]Document, error)

	// Delete removes one document.
	Delete(ctx context.Context, id string) error

	// DeleteSession removes every document of a session and reports how many
	// were removed.
	DeleteSession(ctx context.Context, sessionID string) (int, error)

	// Close releases backend resources.
	Close() error
}

// prepare fills in the ID and creation time of a document about to be saved.
func prepare(doc Document) Document {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	return doc
}

func notFound(id string) error {
	return bwerrors.Wrap(bwerrors.ErrCodeLayoutNotFound, ErrNotFound, "layout %s", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
