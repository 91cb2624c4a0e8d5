package property

import (
	"sort"
	"strings"
	"sync"
)

// Change describes a single mutation applied through Sync.
type Change struct {
	Path  string
	Old   any
	New   any
	Dirty bool
}

// Observer is notified after every mutation.
type Observer func(Change)

// Bag holds component properties addressed by dotted paths. Every mutation
// goes through Sync so observers (the rendering layer) see it. The baseline is
// the state Reset returns properties to.
type Bag struct {
	mu        sync.RWMutex
	values    map[string]any
	baseline  map[string]any
	dirty     map[string]struct{}
	observers []Observer
}

// NewBag creates a bag whose current and baseline values are copies of
// baseline.
func NewBag(baseline map[string]any) *Bag {
	return &Bag{
		values:   cloneMap(baseline),
		baseline: cloneMap(baseline),
		dirty:    make(map[string]struct{}),
	}
}

// Observe registers fn for future mutations.
func (b *Bag) Observe(fn Observer) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

// Get returns the value stored at path.
func (b *Bag) Get(path string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lookup(b.values, splitPath(path))
}

// Value returns the value at path or nil.
func (b *Bag) Value(path string) any {
	v, _ := b.Get(path)
	return v
}

// String returns the value at path when it is a string.
func (b *Bag) String(path string) string {
	s, _ := b.Value(path).(string)
	return s
}

// Sync stores value at path, creating intermediate maps as needed. Setting nil
// removes the entry. markDirty records the path in Dirty.
func (b *Bag) Sync(path string, value any, markDirty bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return
	}

	b.mu.Lock()
	old, _ := lookup(b.values, segments)
	if value == nil {
		remove(b.values, segments)
	} else {
		assign(b.values, segments, value)
	}
	if markDirty {
		b.dirty[path] = struct{}{}
	}
	observers := append([]Observer(nil), b.observers...)
	b.mu.Unlock()

	change := Change{Path: path, Old: old, New: value, Dirty: markDirty}
	for _, fn := range observers {
		fn(change)
	}
}

// Fill syncs every entry of values, marking them dirty. Keys are applied in
// sorted order so observers see a stable sequence.
func (b *Bag) Fill(values map[string]any) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Sync(k, values[k], true)
	}
}

// Reset restores the named paths to their baseline. With no paths every
// property returns to the baseline.
func (b *Bag) Reset(paths ...string) {
	if len(paths) == 0 {
		b.mu.RLock()
		paths = make([]string, 0, len(b.values)+len(b.baseline))
		seen := make(map[string]struct{})
		for k := range b.values {
			seen[k] = struct{}{}
			paths = append(paths, k)
		}
		for k := range b.baseline {
			if _, ok := seen[k]; !ok {
				paths = append(paths, k)
			}
		}
		b.mu.RUnlock()
		sort.Strings(paths)
	}

	for _, p := range paths {
		b.mu.RLock()
		base, _ := lookup(b.baseline, splitPath(p))
		b.mu.RUnlock()
		b.Sync(p, cloneValue(base), false)
	}
}

// Baseline returns the baseline value for path.
func (b *Bag) Baseline(path string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lookup(b.baseline, splitPath(path))
}

// Dirty returns the sorted paths mutated with markDirty since the last
// ClearDirty.
func (b *Bag) Dirty() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.dirty))
	for p := range b.dirty {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ClearDirty forgets tracked mutations.
func (b *Bag) ClearDirty() {
	b.mu.Lock()
	b.dirty = make(map[string]struct{})
	b.mu.Unlock()
}

// All returns a deep copy of the current values.
func (b *Bag) All() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneMap(b.values)
}

func splitPath(path string) []string {
	path = strings.Trim(strings.TrimSpace(path), ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func lookup(values map[string]any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	current := values
	for i, seg := range segments {
		v, ok := current[seg]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

func assign(values map[string]any, segments []string, value any) {
	current := values
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[seg] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

func remove(values map[string]any, segments []string) {
	current := values
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			return
		}
		current = next
	}
	delete(current, segments[len(segments)-1])
}

func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
