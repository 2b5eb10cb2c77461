package template

import "sync"

// Merge combines two template sets with override precedence: every entry of
// base is inserted first, then every entry of override, replacing any base
// entry that shares its identity key. First-seen order is preserved, with
// replacements landing in the slot of the entry they replace, so the result
// is deterministic for a given input ordering.
func Merge(base, override []*Template) []*Template {
	index := make(map[string]int, len(base))
	out := make([]*Template, 0, len(base)+len(override))

	insert := func(t *Template) {
		if i, ok := index[t.Key()]; ok {
			out[i] = t
			return
		}
		index[t.Key()] = len(out)
		out = append(out, t)
	}

	for _, t := range base {
		insert(t)
	}
	for _, t := range override {
		insert(t)
	}
	return out
}

// Registry is the live template set consumed by the watch orchestrator. It
// is written by the template-source watcher and read by target-directory
// event handlers, which run on separate goroutines, so access is guarded.
// The mutation surface is deliberately narrow: insert, remove, snapshot.
type Registry struct {
	mu    sync.RWMutex
	index map[string]int
	items []*Template
}

// NewRegistry builds a registry seeded with the given templates, preserving
// their order. Duplicate keys follow Merge semantics: last one wins.
func NewRegistry(initial []*Template) *Registry {
	r := &Registry{index: make(map[string]int, len(initial))}
	for _, t := range initial {
		r.insertLocked(t)
	}
	return r
}

// InsertOrReplace adds a template, replacing any existing entry with the
// same identity key in place.
func (r *Registry) InsertOrReplace(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(t)
}

func (r *Registry) insertLocked(t *Template) {
	if i, ok := r.index[t.Key()]; ok {
		r.items[i] = t
		return
	}
	r.index[t.Key()] = len(r.items)
	r.items = append(r.items, t)
}

// Remove deletes the template with the given identity key, if present.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[key]
	if !ok {
		return
	}
	delete(r.index, key)
	r.items = append(r.items[:i], r.items[i+1:]...)
	for k, idx := range r.index {
		if idx > i {
			r.index[k] = idx - 1
		}
	}
}

// Snapshot returns a copy of the current template list in stable order.
// Matching always runs against a snapshot so a concurrent source edit can
// never expose a half-updated set.
func (r *Registry) Snapshot() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Template, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of live templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
