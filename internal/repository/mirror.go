package repository

import (
	"context"
	"sync"
)

// Mirror holds the latest snapshot delivered by a subscription.
type Mirror[T any] struct {
	repo *Repository[T]

	mu       sync.RWMutex
	items    []T
	ready    chan struct{}
	once     sync.Once
	onUpdate func([]T)
}

func NewMirror[T any](repo *Repository[T]) *Mirror[T] {
	return &Mirror[T]{repo: repo, ready: make(chan struct{})}
}

// OnUpdate registers a callback invoked after each snapshot is applied.
// It must be set before Run.
func (m *Mirror[T]) OnUpdate(fn func([]T)) {
	m.onUpdate = fn
}

// Run applies snapshots until ctx is done.
func (m *Mirror[T]) Run(ctx context.Context) error {
	snapshots, err := m.repo.Subscribe(ctx)
	if err != nil {
		return err
	}
	for items := range snapshots {
		m.mu.Lock()
		m.items = items
		m.mu.Unlock()
		m.once.Do(func() { close(m.ready) })
		if m.onUpdate != nil {
			m.onUpdate(items)
		}
	}
	return nil
}

// Ready is closed once the first snapshot has arrived.
func (m *Mirror[T]) Ready() <-chan struct{} {
	return m.ready
}

func (m *Mirror[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}
