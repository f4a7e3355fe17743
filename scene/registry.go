// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "log/slog"

// BucketType classifies leaves into render buckets.  Values are interned by
// a Registry: two lookups of the same name return the same pointer, and
// equality is pointer identity.
type BucketType struct {
	// Name is the registry key.
	Name string

	// order is the registration order, used for the queue's draw order.
	order int
}

func (bt *BucketType) String() string { return bt.Name }

// Layer is a named render layer with an index for ordering and filtering.
// Values are interned by a Registry; equality is pointer identity.
type Layer struct {
	// Name is the registry key.
	Name string

	// Index orders layers relative to each other.
	Index int
}

func (l *Layer) String() string { return l.Name }

// Registry interns bucket types and layers by name.  It replaces what would
// otherwise be hidden process globals: the renderer owns one Registry and
// everything that names buckets or layers goes through it.  Entries are
// never removed.
type Registry struct {
	// Opaque is the default bucket: sorted front-to-back so opaque draws
	// maximize early depth rejection.
	Opaque *BucketType

	// Transparent is always drawn last, sorted back-to-front so blending
	// composites correctly.
	Transparent *BucketType

	// Legacy is a sentinel, not a bucket: a node classified Legacy
	// inherits its bucket from the nearest ancestor with an explicit one.
	Legacy *BucketType

	// None is a sentinel, not a bucket: a None leaf bypasses bucketing
	// and is drawn immediately, unsorted.
	None *BucketType

	buckets map[string]*BucketType
	layers  map[string]*Layer
	order   int
}

// NewRegistry returns a registry with the four standard bucket types
// pre-interned.
func NewRegistry() *Registry {
	r := &Registry{
		buckets: make(map[string]*BucketType),
		layers:  make(map[string]*Layer),
	}
	r.Opaque = r.BucketType("Opaque")
	r.Transparent = r.BucketType("Transparent")
	r.Legacy = r.BucketType("Legacy")
	r.None = r.BucketType("None")
	return r
}

// BucketType returns the interned bucket type for name, creating it on
// first lookup.
func (r *Registry) BucketType(name string) *BucketType {
	if bt, ok := r.buckets[name]; ok {
		return bt
	}
	bt := &BucketType{Name: name, order: r.order}
	r.order++
	r.buckets[name] = bt
	slog.Debug("scene: interned bucket type", "name", name)
	return bt
}

// Layer returns the interned layer for name, creating it with the given
// index on first lookup.  The index of an existing layer is not changed.
func (r *Registry) Layer(name string, index int) *Layer {
	if l, ok := r.layers[name]; ok {
		return l
	}
	l := &Layer{Name: name, Index: index}
	r.layers[name] = l
	slog.Debug("scene: interned layer", "name", name, "index", index)
	return l
}
