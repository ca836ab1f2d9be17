package repository

import (
	"context"
	"encoding/json"
)

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Document is one stored entity: its own id plus its JSON encoding.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Backend is the storage strategy a Repository is constructed with.
type Backend interface {
	Mode() Mode
	Load(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	// Upsert creates or overwrites the document keyed by doc.ID.
	Upsert(ctx context.Context, collection string, doc Document) error
	// Insert creates doc only if its id is free, else ErrAlreadyExists.
	Insert(ctx context.Context, collection string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
	// DecrementFloor atomically lowers an integer field by n, stopping at
	// zero, and returns the new value.
	DecrementFloor(ctx context.Context, collection, id, field string, n int) (int, error)
	// Watch delivers an initial snapshot and then a full snapshot after each
	// change. The channel is closed when ctx is done.
	Watch(ctx context.Context, collection string) (<-chan []Document, error)
}

func cloneDocs(docs []Document) []Document {
	out := make([]Document, len(docs))
	copy(out, docs)
	return out
}
