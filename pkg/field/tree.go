package field

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when two fields in a tree share a key.
var ErrDuplicateKey = errors.New("field: duplicate key")

const noParent = -1

type node struct {
	field  Field
	parent int
	depth  int
}

// Tree indexes a field hierarchy in depth-first order. Parent links are kept
// as indices owned by the tree rather than pointers on the fields themselves.
type Tree struct {
	roots []Field
	nodes []node
	index map[string]int
}

// NewTree flattens the supplied fields and validates that every key is
// unique. Fields without a key are rejected.
func NewTree(fields []Field) (*Tree, error) {
	t := &Tree{
		roots: fields,
		index: make(map[string]int),
	}
	if err := t.add(fields, noParent, 0); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTree panics when NewTree fails. Useful for static declarations.
func MustTree(fields []Field) *Tree {
	t, err := NewTree(fields)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tree) add(fields []Field, parent, depth int) error {
	for _, f := range fields {
		key := f.Key()
		if key == "" {
			return fmt.Errorf("field: %s field at depth %d has no name or id", kindOrInput(f.Kind), depth)
		}
		if _, exists := t.index[key]; exists {
			return fmt.Errorf("%w %q", ErrDuplicateKey, key)
		}
		idx := len(t.nodes)
		t.nodes = append(t.nodes, node{field: f, parent: parent, depth: depth})
		t.index[key] = idx
		if len(f.Children) > 0 {
			if err := t.add(f.Children, idx, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Roots returns the top-level fields as declared.
func (t *Tree) Roots() []Field {
	if t == nil {
		return nil
	}
	return t.roots
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Flatten returns every node in depth-first, declaration order.
func (t *Tree) Flatten() []Field {
	if t == nil {
		return nil
	}
	out := make([]Field, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.field
	}
	return out
}

// Walk visits every node in depth-first order, stopping when fn returns false.
func (t *Tree) Walk(fn func(f Field, depth int) bool) {
	if t == nil {
		return
	}
	for _, n := range t.nodes {
		if !fn(n.field, n.depth) {
			return
		}
	}
}

// Inputs returns the input-capable leaves in tree order.
func (t *Tree) Inputs() []Field {
	var out []Field
	t.Walk(func(f Field, _ int) bool {
		if f.IsInput() {
			out = append(out, f)
		}
		return true
	})
	return out
}

// Files returns the file fields in tree order.
func (t *Tree) Files() []Field {
	var out []Field
	t.Walk(func(f Field, _ int) bool {
		if f.IsFile() {
			out = append(out, f)
		}
		return true
	})
	return out
}

// Lookup returns the field registered under key.
func (t *Tree) Lookup(key string) (Field, bool) {
	if t == nil {
		return Field{}, false
	}
	idx, ok := t.index[key]
	if !ok {
		return Field{}, false
	}
	return t.nodes[idx].field, true
}

// Parent returns the enclosing container of the field registered under key.
func (t *Tree) Parent(key string) (Field, bool) {
	if t == nil {
		return Field{}, false
	}
	idx, ok := t.index[key]
	if !ok || t.nodes[idx].parent == noParent {
		return Field{}, false
	}
	return t.nodes[t.nodes[idx].parent].field, true
}

// Ancestors returns the containers enclosing key, nearest first.
func (t *Tree) Ancestors(key string) []Field {
	if t == nil {
		return nil
	}
	idx, ok := t.index[key]
	if !ok {
		return nil
	}
	var out []Field
	for p := t.nodes[idx].parent; p != noParent; p = t.nodes[p].parent {
		out = append(out, t.nodes[p].field)
	}
	return out
}

// EnclosingTab walks up from key and returns the nearest Tab ancestor plus the
// container holding that tab. container is the zero Field when the tab sits at
// the root of the tree.
func (t *Tree) EnclosingTab(key string) (tab Field, container Field, ok bool) {
	if t == nil {
		return Field{}, Field{}, false
	}
	idx, found := t.index[key]
	if !found {
		return Field{}, Field{}, false
	}
	for p := t.nodes[idx].parent; p != noParent; p = t.nodes[p].parent {
		if !t.nodes[p].field.IsTab() {
			continue
		}
		tab = t.nodes[p].field
		if gp := t.nodes[p].parent; gp != noParent {
			container = t.nodes[gp].field
		}
		return tab, container, true
	}
	return Field{}, Field{}, false
}

func kindOrInput(kind Kind) Kind {
	if kind == "" {
		return KindInput
	}
	return kind
}
