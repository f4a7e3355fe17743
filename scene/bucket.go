// Copyright (c) 2024, Penumbra 3D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"sort"

	"github.com/chewxy/math32"
)

// initialBucketCap is the starting capacity of a bucket's item slice.
// Growth is amortized doubling via append; the backing array is never
// shrunk, so frames with similar visible counts stop reallocating.
const initialBucketCap = 16

// Bucket collects the leaves to draw this frame under one classification.
// Items are non-owning references whose validity ends with the frame: a
// bucket must be flushed before any scene mutation that destroys nodes it
// references.  Buckets are created once at renderer setup and repopulated,
// sorted, and flushed every frame.
type Bucket struct {
	// Kind is the classification this bucket serves.
	Kind *BucketType

	items []*Leaf
	cam   Viewpoint
	less  func(a, b *Leaf) bool
}

// NewBucket returns an empty bucket for the given classification, with the
// default comparator: ascending camera distance (front-to-back).
func NewBucket(kind *BucketType) *Bucket {
	b := &Bucket{
		Kind:  kind,
		items: make([]*Leaf, 0, initialBucketCap),
	}
	b.less = AscendingDistance(b)
	return b
}

// AscendingDistance returns a front-to-back comparator over b's camera:
// the order for opaque buckets, maximizing early depth rejection.
func AscendingDistance(b *Bucket) func(a, c *Leaf) bool {
	return func(a, c *Leaf) bool { return b.Distance(a) < b.Distance(c) }
}

// DescendingDistance returns a back-to-front comparator over b's camera:
// the order transparent buckets need to composite correctly.
func DescendingDistance(b *Bucket) func(a, c *Leaf) bool {
	return func(a, c *Leaf) bool { return b.Distance(a) > b.Distance(c) }
}

// SetCamera sets the viewpoint that Distance measures against.
func (b *Bucket) SetCamera(v Viewpoint) { b.cam = v }

// SetComparator replaces the sort order.  Sort panics if the comparator has
// been set to nil.
func (b *Bucket) SetComparator(less func(a, c *Leaf) bool) { b.less = less }

// Add appends a non-owning reference to l and resets its cached camera
// distance so the next Distance call recomputes it for this frame.
func (b *Bucket) Add(l *Leaf) {
	l.dist = distUnset
	b.items = append(b.items, l)
}

// Distance returns the Euclidean distance between the camera and l's world
// translation, memoized per leaf per frame: the first call after Add
// computes and caches it, later calls return the cached value unchanged.
// Panics if no camera has been set.
func (b *Bucket) Distance(l *Leaf) float32 {
	if l.dist != distUnset {
		return l.dist
	}
	if b.cam == nil {
		panic("scene: Bucket.Distance called with no camera set")
	}
	d := l.World().Pos().Sub(b.cam.WorldPosition())
	l.dist = math32.Sqrt(d.Dot(d))
	return l.dist
}

// Sort orders the items with the bucket's comparator.  No-op below two
// items.  Ties may reorder; stability is not part of the contract.
func (b *Bucket) Sort() {
	if len(b.items) < 2 {
		return
	}
	if b.less == nil {
		panic("scene: Bucket.Sort with a nil comparator")
	}
	sort.Slice(b.items, func(i, j int) bool {
		return b.less(b.items[i], b.items[j])
	})
}

// Merge appends the items of other, leaving other untouched.  Used to
// combine buckets populated on separate threads; the result is unsorted
// until Sort runs again.
func (b *Bucket) Merge(other *Bucket) {
	b.items = append(b.items, other.items...)
}

// Flush clears the bucket for reuse next frame, keeping the backing
// storage.
func (b *Bucket) Flush() {
	b.items = b.items[:0]
}

// Len returns the number of items currently held.
func (b *Bucket) Len() int { return len(b.items) }

// Items returns the current item slice, in insertion order or, after Sort,
// comparator order.  The slice is owned by the bucket.
func (b *Bucket) Items() []*Leaf { return b.items }
