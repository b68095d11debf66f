package entity

import (
	"net/http"
	"sort"
)

// KeyValueBlock is an ordered multi-map. Keys keep the order of their first
// occurrence and every value added under a key is retained.
type KeyValueBlock struct {
	keys   []string
	values map[string][]string
}

// NewKeyValueBlock creates an empty block.
func NewKeyValueBlock() *KeyValueBlock {
	return &KeyValueBlock{values: make(map[string][]string)}
}

// Add appends a value under key.
func (b *KeyValueBlock) Add(key, value string) {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = append(b.values[key], value)
}

// AddAll appends all values under key. A key without values is still recorded.
func (b *KeyValueBlock) AddAll(key string, values ...string) {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
		b.values[key] = []string{}
	}
	b.values[key] = append(b.values[key], values...)
}

// Keys returns keys in first-occurrence order.
func (b *KeyValueBlock) Keys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Values returns the values stored under key.
func (b *KeyValueBlock) Values(key string) []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.values[key]...)
}

// Len returns the number of distinct keys.
func (b *KeyValueBlock) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// IsEmpty returns true if the block has no keys.
func (b *KeyValueBlock) IsEmpty() bool {
	return b.Len() == 0
}

// FromHeader builds a block from an http.Header. Header maps carry no order,
// so names are sorted to keep output deterministic.
func FromHeader(h http.Header) *KeyValueBlock {
	b := NewKeyValueBlock()
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.AddAll(name, h[name]...)
	}
	return b
}
