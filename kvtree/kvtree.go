// Package kvtree implements the hierarchical string-keyed configuration
// tree the redundancy-descriptor core reads job settings from and
// serializes built descriptors back into. It is deliberately minimal: a
// job's real configuration source (file, service, environment) is out of
// scope, but RedDesc and RedDescBuilder need a concrete type to read from
// and write to in order to compile and be testable end to end.
package kvtree

import "sort"

// Tree is an ordered, string-keyed configuration node. Children are kept
// in a map but always walked in sorted key order so iteration (and thus
// anything derived from it, like RedDescTable's ascending construction
// order) is deterministic.
type Tree struct {
	values   map[string]string
	children map[string]*Tree
}

// New returns an empty Tree ready for Set/SetChild calls.
func New() *Tree {
	return &Tree{
		values:   make(map[string]string),
		children: make(map[string]*Tree),
	}
}

// Get returns the string value stored at key and whether it was present.
func (t *Tree) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.values[key]
	return v, ok
}

// GetOrDefault returns the value at key, or def if key is absent.
func (t *Tree) GetOrDefault(key, def string) string {
	if v, ok := t.Get(key); ok {
		return v
	}
	return def
}

// Set stores value at key, overwriting any prior value.
func (t *Tree) Set(key, value string) {
	t.values[key] = value
}

// Child returns the named child subtree and whether it exists.
func (t *Tree) Child(name string) (*Tree, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.children[name]
	return c, ok
}

// SetChild attaches (or replaces) a named child subtree.
func (t *Tree) SetChild(name string, child *Tree) {
	t.children[name] = child
}

// ChildNames returns the node's direct child names in ascending sorted
// order. RedDescTable relies on this ordering to build descriptors in
// ascending config key order (spec.md §4.4).
func (t *Tree) ChildNames() []string {
	names := make([]string, 0, len(t.children))
	for name := range t.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the node's own value keys in ascending sorted order.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
