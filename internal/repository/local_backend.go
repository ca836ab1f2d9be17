package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"storefront_service/internal/domain"
	"storefront_service/pkg/kvstore"
)

// StorageKeyPrefix namespaces every collection slot and seed flag.
const StorageKeyPrefix = "storefront_"

// LocalBackend keeps each collection as one JSON blob in a key-value slot.
// Every command rewrites the whole collection.
type LocalBackend struct {
	store kvstore.Store
	mu    sync.Mutex
	hub   *hub
	log   *logrus.Logger
}

func NewLocalBackend(store kvstore.Store, logger *logrus.Logger) *LocalBackend {
	return &LocalBackend{store: store, hub: newHub(), log: logger}
}

func (b *LocalBackend) Mode() Mode { return ModeLocal }

func CollectionKey(collection string) string {
	return StorageKeyPrefix + collection
}

func (b *LocalBackend) read(ctx context.Context, collection string) ([]Document, error) {
	raw, ok, err := b.store.Get(ctx, CollectionKey(collection))
	if err != nil {
		return nil, fmt.Errorf("could not read collection %s: %w", collection, err)
	}
	if !ok || raw == "" {
		return []Document{}, nil
	}
	var docs []Document
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, fmt.Errorf("collection %s is corrupt: %w", collection, err)
	}
	return docs, nil
}

func (b *LocalBackend) write(ctx context.Context, collection string, docs []Document) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("could not encode collection %s: %w", collection, err)
	}
	if err := b.store.Set(ctx, CollectionKey(collection), string(raw)); err != nil {
		return fmt.Errorf("could not write collection %s: %w", collection, err)
	}
	b.hub.publish(collection, docs)
	return nil
}

func (b *LocalBackend) Load(ctx context.Context, collection string) ([]Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.read(ctx, collection)
}

func (b *LocalBackend) Get(ctx context.Context, collection, id string) (Document, error) {
	docs, err := b.Load(ctx, collection)
	if err != nil {
		return Document{}, err
	}
	for _, d := range docs {
		if d.ID == id {
			return d, nil
		}
	}
	return Document{}, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
}

func (b *LocalBackend) Upsert(ctx context.Context, collection string, doc Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	docs, err := b.read(ctx, collection)
	if err != nil {
		return err
	}
	replaced := false
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc)
	}
	b.log.Debugf("Repository: Local upsert %s/%s (replaced=%t, size=%d)", collection, doc.ID, replaced, len(docs))
	return b.write(ctx, collection, docs)
}

func (b *LocalBackend) Insert(ctx context.Context, collection string, doc Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	docs, err := b.read(ctx, collection)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.ID == doc.ID {
			return fmt.Errorf("%s/%s: %w", collection, doc.ID, domain.ErrAlreadyExists)
		}
	}
	return b.write(ctx, collection, append(docs, doc))
}

func (b *LocalBackend) Delete(ctx context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	docs, err := b.read(ctx, collection)
	if err != nil {
		return err
	}
	for i := range docs {
		if docs[i].ID == id {
			docs = append(docs[:i], docs[i+1:]...)
			return b.write(ctx, collection, docs)
		}
	}
	return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
}

func (b *LocalBackend) DecrementFloor(ctx context.Context, collection, id, field string, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("decrement amount cannot be negative: %d", n)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	docs, err := b.read(ctx, collection)
	if err != nil {
		return 0, err
	}
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal(docs[i].Data, &fields); err != nil {
			return 0, fmt.Errorf("%s/%s is not an object: %w", collection, id, err)
		}
		current := 0
		if raw, ok := fields[field]; ok {
			if err := json.Unmarshal(raw, &current); err != nil {
				return 0, fmt.Errorf("%s/%s field %s is not an integer: %w", collection, id, field, err)
			}
		}
		next := max(current-n, 0)
		fields[field] = json.RawMessage(strconv.Itoa(next))
		data, err := json.Marshal(fields)
		if err != nil {
			return 0, fmt.Errorf("could not encode %s/%s: %w", collection, id, err)
		}
		docs[i].Data = data
		if err := b.write(ctx, collection, docs); err != nil {
			return 0, err
		}
		return next, nil
	}
	return 0, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
}

func (b *LocalBackend) Watch(ctx context.Context, collection string) (<-chan []Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	docs, err := b.read(ctx, collection)
	if err != nil {
		return nil, err
	}
	ch, seq := b.hub.subscribe(ctx, collection)
	b.hub.offer(collection, ch, seq, docs)
	return ch, nil
}
