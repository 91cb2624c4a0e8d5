package validation

import "strings"

// ErrorBag holds validation messages per field, preserving the order keys were
// first added.
type ErrorBag struct {
	keys     []string
	messages map[string][]string
}

// NewErrorBag returns an empty bag.
func NewErrorBag() *ErrorBag {
	return &ErrorBag{messages: make(map[string][]string)}
}

// ErrorBagFrom builds a bag from messages, adding keys in the order given.
func ErrorBagFrom(keys []string, messages map[string][]string) *ErrorBag {
	bag := NewErrorBag()
	for _, key := range keys {
		for _, msg := range messages[key] {
			bag.Add(key, msg)
		}
	}
	return bag
}

// Add appends message under key. Blank messages are ignored.
func (b *ErrorBag) Add(key, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	if b.messages == nil {
		b.messages = make(map[string][]string)
	}
	if _, exists := b.messages[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.messages[key] = append(b.messages[key], message)
}

// Get returns the messages recorded for key.
func (b *ErrorBag) Get(key string) []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.messages[key]...)
}

// First returns the first message for key, or "".
func (b *ErrorBag) First(key string) string {
	if b == nil || len(b.messages[key]) == 0 {
		return ""
	}
	return b.messages[key][0]
}

// Has reports whether key has messages.
func (b *ErrorBag) Has(key string) bool {
	return b != nil && len(b.messages[key]) > 0
}

// Keys returns the keys in insertion order.
func (b *ErrorBag) Keys() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.keys...)
}

// Len returns the number of keys with messages.
func (b *ErrorBag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// IsEmpty reports whether the bag has no messages.
func (b *ErrorBag) IsEmpty() bool { return b.Len() == 0 }

// Messages returns a copy of every message keyed by field.
func (b *ErrorBag) Messages() map[string][]string {
	out := make(map[string][]string, b.Len())
	if b == nil {
		return out
	}
	for _, key := range b.keys {
		out[key] = append([]string(nil), b.messages[key]...)
	}
	return out
}

// Forget removes key.
func (b *ErrorBag) Forget(key string) {
	if b == nil {
		return
	}
	if _, ok := b.messages[key]; !ok {
		return
	}
	delete(b.messages, key)
	for i, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
}

// Clear removes every message.
func (b *ErrorBag) Clear() {
	if b == nil {
		return
	}
	b.keys = nil
	b.messages = make(map[string][]string)
}

// Merge appends every message of other.
func (b *ErrorBag) Merge(other *ErrorBag) {
	for _, key := range other.Keys() {
		for _, msg := range other.messages[key] {
			b.Add(key, msg)
		}
	}
}

// Rekey returns a new bag with every key passed through fn. Keys that map to
// the same name have their messages concatenated in order.
func (b *ErrorBag) Rekey(fn func(string) string) *ErrorBag {
	out := NewErrorBag()
	for _, key := range b.Keys() {
		for _, msg := range b.messages[key] {
			out.Add(fn(key), msg)
		}
	}
	return out
}

// Clone returns an independent copy of the bag.
func (b *ErrorBag) Clone() *ErrorBag {
	return ErrorBagFrom(b.Keys(), b.Messages())
}
