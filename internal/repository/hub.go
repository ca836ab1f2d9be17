package repository

import (
	"context"
	"sync"
)

// hub fans collection snapshots out to watchers. Each watcher holds at most
// one pending snapshot; a newer snapshot replaces an unread older one.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan []Document]struct{}
	// seq counts publishes per collection.
	seq map[string]uint64
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan []Document]struct{}), seq: make(map[string]uint64)}
}

// subscribe registers a watcher and returns the publish sequence at the
// moment it joined, for use with offer.
func (h *hub) subscribe(ctx context.Context, collection string) (chan []Document, uint64) {
	ch := make(chan []Document, 1)
	h.mu.Lock()
	seq := h.seq[collection]
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[chan []Document]struct{})
	}
	h.subs[collection][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[collection], ch)
		if len(h.subs[collection]) == 0 {
			delete(h.subs, collection)
		}
		close(ch)
		h.mu.Unlock()
	}()
	return ch, seq
}

// offer hands an initial snapshot to one watcher. It is dropped when the
// watcher is gone or a publish landed after seq, since that publish is at
// least as fresh.
func (h *hub) offer(collection string, ch chan []Document, seq uint64, docs []Document) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[collection][ch]; !ok || h.seq[collection] != seq {
		return false
	}
	replace(ch, cloneDocs(docs))
	return true
}

func (h *hub) publish(collection string, docs []Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq[collection]++
	for ch := range h.subs[collection] {
		replace(ch, cloneDocs(docs))
	}
}

func (h *hub) watched() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.subs))
	for name := range h.subs {
		out = append(out, name)
	}
	return out
}

// replace must be called with the hub lock held.
func replace(ch chan []Document, docs []Document) {
	select {
	case ch <- docs:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- docs
}
