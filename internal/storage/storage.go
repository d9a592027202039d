// Package storage persists documents as a sequence of revisions of the
// project blob.
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

// Meta describes a stored document without its content.
type Meta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DocumentStore keeps every saved revision; Load returns the latest.
type DocumentStore interface {
	Create(ctx context.Context, id, ownerID, name string, data []byte) (*Meta, error)
	Get(ctx context.Context, id string) (*Meta, error)
	List(ctx context.Context, ownerID string) ([]Meta, error)
	Load(ctx context.Context, id string) (data []byte, version int, err error)
	Save(ctx context.Context, id string, data []byte) (version int, err error)
	Delete(ctx context.Context, id string) error
}
