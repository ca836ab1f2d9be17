// Package repository implements one generic data-access contract over the
// remote document store and local key-value storage.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront_service/pkg/kvstore"
)

// Collection names a stored entity type and how to find each entity's id.
type Collection[T any] struct {
	Name string
	ID   func(T) string
}

type Repository[T any] struct {
	backend Backend
	coll    Collection[T]
	log     *logrus.Logger
}

func New[T any](backend Backend, coll Collection[T], logger *logrus.Logger) *Repository[T] {
	return &Repository[T]{backend: backend, coll: coll, log: logger}
}

func (r *Repository[T]) Name() string { return r.coll.Name }

func (r *Repository[T]) Mode() Mode { return r.backend.Mode() }

func (r *Repository[T]) decode(docs []Document) []T {
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		var item T
		if err := json.Unmarshal(d.Data, &item); err != nil {
			r.log.Warnf("Repository: Skipping undecodable %s document %s: %v", r.coll.Name, d.ID, err)
			continue
		}
		items = append(items, item)
	}
	return items
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	docs, err := r.backend.Load(ctx, r.coll.Name)
	if err != nil {
		return nil, err
	}
	return r.decode(docs), nil
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	doc, err := r.backend.Get(ctx, r.coll.Name, id)
	if err != nil {
		return item, err
	}
	if err := json.Unmarshal(doc.Data, &item); err != nil {
		return item, fmt.Errorf("could not decode %s/%s: %w", r.coll.Name, id, err)
	}
	return item, nil
}

// Save upserts item under its own id.
func (r *Repository[T]) Save(ctx context.Context, item T) error {
	doc, err := r.encode(item)
	if err != nil {
		return err
	}
	return r.backend.Upsert(ctx, r.coll.Name, doc)
}

func (r *Repository[T]) encode(item T) (Document, error) {
	id := r.coll.ID(item)
	if id == "" {
		return Document{}, fmt.Errorf("cannot save %s without an id", r.coll.Name)
	}
	data, err := json.Marshal(item)
	if err != nil {
		return Document{}, fmt.Errorf("could not encode %s/%s: %w", r.coll.Name, id, err)
	}
	return Document{ID: id, Data: data}, nil
}

// Create writes item only when its id is not taken yet.
func (r *Repository[T]) Create(ctx context.Context, item T) error {
	doc, err := r.encode(item)
	if err != nil {
		return err
	}
	return r.backend.Insert(ctx, r.coll.Name, doc)
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.backend.Delete(ctx, r.coll.Name, id)
}

func (r *Repository[T]) Decrement(ctx context.Context, id, field string, n int) (int, error) {
	return r.backend.DecrementFloor(ctx, r.coll.Name, id, field, n)
}

// Subscribe streams decoded snapshots of the collection. Only the newest
// unread snapshot is kept; the channel closes when ctx is done.
func (r *Repository[T]) Subscribe(ctx context.Context) (<-chan []T, error) {
	docs, err := r.backend.Watch(ctx, r.coll.Name)
	if err != nil {
		return nil, err
	}
	out := make(chan []T, 1)
	go func() {
		defer close(out)
		for snapshot := range docs {
			items := r.decode(snapshot)
			select {
			case out <- items:
				continue
			default:
			}
			select {
			case <-out:
			default:
			}
			out <- items
		}
	}()
	return out, nil
}

// SeedFlagKey is the durable flag marking a collection as seeded.
func SeedFlagKey(collection string) string {
	return StorageKeyPrefix + "seeded_" + collection
}

// Seed pushes items once: only when the collection is empty and the seed
// flag has never been set. It reports whether anything was written.
func (r *Repository[T]) Seed(ctx context.Context, flags kvstore.Store, items []T) (bool, error) {
	key := SeedFlagKey(r.coll.Name)
	if _, seeded, err := flags.Get(ctx, key); err != nil {
		return false, fmt.Errorf("could not read seed flag for %s: %w", r.coll.Name, err)
	} else if seeded {
		return false, nil
	}

	existing, err := r.backend.Load(ctx, r.coll.Name)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		r.log.Debugf("Repository: %s already has %d documents, not seeding", r.coll.Name, len(existing))
		return false, nil
	}

	for _, item := range items {
		if err := r.Save(ctx, item); err != nil {
			return false, fmt.Errorf("seeding %s: %w", r.coll.Name, err)
		}
	}
	if err := flags.Set(ctx, key, "true"); err != nil {
		return true, fmt.Errorf("could not set seed flag for %s: %w", r.coll.Name, err)
	}
	r.log.Infof("Repository: Seeded %d %s", len(items), r.coll.Name)
	return true, nil
}
